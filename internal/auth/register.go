package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/chylers/storefront-api/internal/users"
	"github.com/chylers/storefront-api/pkg/db"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/security"
	"github.com/chylers/storefront-api/pkg/shopify"
	"gorm.io/gorm"
)

// customerTags labels accounts created through this API on the commerce platform.
const customerTags = "registered-user,api-created"

func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	input := shopify.CustomerInput{
		Email:         email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Tags:          customerTags,
		VerifiedEmail: true,
	}
	if req.Phone != nil {
		input.Phone = strings.TrimSpace(*req.Phone)
	}
	logCtx := s.logg.WithUserID(ctx, user.ID.String())
	customer, err := s.customers.CreateCustomer(ctx, input)
	if err != nil {
		s.logg.Error(logCtx, "auth.customer_create_failed", err)
		return users.FromModel(user), nil
	}
	if err := s.users.SetShopifyCustomerID(ctx, user.ID, customer.ID); err != nil {
		s.logg.Error(logCtx, "auth.customer_link_failed", err)
		return users.FromModel(user), nil
	}
	user.ShopifyCustomerID = &customer.ID
	return users.FromModel(user), nil
}
