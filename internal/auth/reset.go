package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chylers/storefront-api/internal/notifications"
	pkgAuth "github.com/chylers/storefront-api/pkg/auth"
	"github.com/chylers/storefront-api/pkg/auth/session"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8

	resetRequestedMessage = "If your email is registered, you will receive a password reset link"
	resetCompletedMessage = "Password has been reset successfully"
	invalidResetMessage   = "invalid or expired reset token"
)

type resetNotifier interface {
	Send(ctx context.Context, to string, name notifications.Template, data any) error
}

func (s *service) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) (*MessageResponse, error) {
	ack := &MessageResponse{Message: resetRequestedMessage}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return ack, nil
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ack, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		return ack, nil
	}

	tokenID := uuid.NewString()
	token, err := pkgAuth.MintResetToken(s.jwtCfg, s.now(), user.ID, tokenID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint reset token")
	}
	if err := s.session.RegisterReset(ctx, tokenID, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	data := notifications.PasswordResetData{
		ResetLink: resetLink(s.resetURL, token),
		ExpiresIn: humanizeTTL(s.jwtCfg.ResetTokenTTL()),
	}
	if err := s.notifier.Send(ctx, user.Email, notifications.TemplatePasswordReset, data); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "auth.reset_email_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to send password reset email")
	}
	return ack, nil
}

func (s *service) ConfirmPasswordReset(ctx context.Context, req PasswordResetConfirmRequest) (*MessageResponse, error) {
	if len(req.NewPassword) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	claims, err := pkgAuth.ParseResetToken(s.jwtCfg, strings.TrimSpace(req.Token))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, invalidResetMessage)
	}
	if err := s.session.ConsumeReset(ctx, claims.ID, claims.UserID.String()); err != nil {
		if errors.Is(err, session.ErrInvalidResetToken) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidResetMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume reset token")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidResetMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return &MessageResponse{Message: resetCompletedMessage}, nil
}

func resetLink(base, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

func humanizeTTL(ttl time.Duration) string {
	if ttl >= time.Hour && ttl%time.Hour == 0 {
		hours := int(ttl / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", int(ttl/time.Minute))
}
