package cart

import (
	"context"
	"errors"
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionTTL is how long a cart session and its cookie live.
const SessionTTL = 30 * 24 * time.Hour

// Resolver maps a cookie token and optional user to a cart session.
type Resolver struct {
	repo CartRepository
	now  func() time.Time
}

func NewResolver(repo CartRepository) *Resolver {
	return &Resolver{repo: repo, now: time.Now}
}

// Resolve returns the active cart named by token, claiming it for userID when it
// is still anonymous. Without a usable token a new session is created and
// created is true so the caller can set the cookie.
func (r *Resolver) Resolve(ctx context.Context, token string, userID *uuid.UUID) (*models.CartSession, bool, error) {
	if token != "" {
		cart, err := r.repo.FindActiveByToken(ctx, token)
		switch {
		case err == nil:
			if userID != nil && cart.Claim(*userID) {
				if err := r.repo.Save(ctx, cart); err != nil {
					return nil, false, err
				}
			}
			return cart, false, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, false, err
		}
	}

	cart := &models.CartSession{
		SessionToken: uuid.NewString(),
		State:        enums.CartStateAnonymous,
		IsActive:     true,
		ExpiresAt:    r.now().UTC().Add(SessionTTL),
	}
	if userID != nil {
		cart.Claim(*userID)
	}
	if err := r.repo.Create(ctx, cart); err != nil {
		return nil, false, err
	}
	return cart, true, nil
}
