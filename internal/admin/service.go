package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/chylers/storefront-api/internal/users"
	"github.com/chylers/storefront-api/pkg/db/models"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	recentWebhookWindow = 7 * 24 * time.Hour

	DefaultUserLimit = 100
	MaxUserLimit     = 500
)

type statsStore interface {
	CountUsers(ctx context.Context, activeOnly bool) (int64, error)
	CountInquiries(ctx context.Context, unresolvedOnly bool) (int64, error)
	CountWebhooksSince(ctx context.Context, since time.Time) (int64, error)
}

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, params users.ListParams) ([]models.User, error)
	Count(ctx context.Context, isActive *bool) (int64, error)
}

// RemoteCounter counts resources on the commerce platform.
type RemoteCounter interface {
	Count(ctx context.Context, resource string, query url.Values) (int, error)
}

// Service backs the admin dashboard and user management.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context, params UserListParams) (*UserList, error)
	ToggleUserActive(ctx context.Context, userID uuid.UUID) (*ToggleResult, error)
}

type service struct {
	stats  statsStore
	users  userStore
	remote RemoteCounter
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(stats statsStore, userRepo userStore, remote RemoteCounter, logg *logger.Logger) (Service, error) {
	if stats == nil {
		return nil, fmt.Errorf("stats repository is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote counter is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{stats: stats, users: userRepo, remote: remote, logg: logg, now: time.Now}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var (
		out Stats
		err error
	)
	if out.Users.Total, err = s.stats.CountUsers(ctx, false); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	if out.Users.Active, err = s.stats.CountUsers(ctx, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count active users")
	}
	if out.Inquiries.Total, err = s.stats.CountInquiries(ctx, false); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count inquiries")
	}
	if out.Inquiries.Unresolved, err = s.stats.CountInquiries(ctx, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unresolved inquiries")
	}
	since := s.now().UTC().Add(-recentWebhookWindow)
	if out.Webhooks.Recent, err = s.stats.CountWebhooksSince(ctx, since); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count webhooks")
	}

	out.Shopify = s.remoteStats(ctx)
	return &out, nil
}

// remoteStats reports zeroes for every counter when any Shopify call fails.
func (s *service) remoteStats(ctx context.Context) ShopifyStats {
	var out ShopifyStats
	var err error
	if out.Orders, err = s.remote.Count(ctx, "orders", url.Values{"status": {"any"}}); err == nil {
		if out.Customers, err = s.remote.Count(ctx, "customers", nil); err == nil {
			out.Products, err = s.remote.Count(ctx, "products", nil)
		}
	}
	if err != nil {
		s.logg.Error(ctx, "admin.shopify_stats_failed", err)
		return ShopifyStats{}
	}
	return out
}

func (s *service) ListUsers(ctx context.Context, params UserListParams) (*UserList, error) {
	if params.Skip < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "skip must be >= 0")
	}
	limit := params.Limit
	if limit == 0 {
		limit = DefaultUserLimit
	}
	if limit < 1 || limit > MaxUserLimit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("limit must be between 1 and %d", MaxUserLimit))
	}

	rows, err := s.users.List(ctx, users.ListParams{Skip: params.Skip, Limit: limit, IsActive: params.IsActive})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	total, err := s.users.Count(ctx, params.IsActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	return &UserList{Users: users.FromModels(rows), Total: total}, nil
}

func (s *service) ToggleUserActive(ctx context.Context, userID uuid.UUID) (*ToggleResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	next := !user.IsActive
	if err := s.users.SetActive(ctx, user.ID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	verb := "deactivated"
	if next {
		verb = "activated"
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"target_user_id": user.ID.String(), "is_active": next}), "admin.user_toggled")
	return &ToggleResult{Message: fmt.Sprintf("User %s successfully", verb), IsActive: next}, nil
}
