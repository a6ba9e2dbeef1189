package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chylers/storefront-api/pkg/db/models"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ordersPageSize caps the order history returned to a shopper.
const ordersPageSize = 50

// CustomerClient is the slice of the Shopify Admin API used for profiles.
type CustomerClient interface {
	UpdateCustomer(ctx context.Context, customerID int64, input shopify.CustomerInput) (*shopify.Customer, error)
	ListOrders(ctx context.Context, params shopify.OrderListParams) ([]shopify.Order, error)
}

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	Save(ctx context.Context, user *models.User) error
}

// Service exposes the signed-in user's own profile.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	Orders(ctx context.Context, userID uuid.UUID) ([]shopify.Order, error)
}

type service struct {
	repo   userStore
	remote CustomerClient
	logg   *logger.Logger
}

// NewService wires the profile service.
func NewService(repo userStore, remote CustomerClient, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if remote == nil {
		return nil, fmt.Errorf("customer client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, remote: remote, logg: logg}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch := shopify.CustomerInput{}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != "" && email != strings.ToLower(user.Email) {
			taken, err := s.repo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
			}
			if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			user.Email = email
			patch.Email = email
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
		patch.FirstName = user.FirstName
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
		patch.LastName = user.LastName
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		user.Phone = &phone
		patch.Phone = phone
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	if user.ShopifyCustomerID != nil && patch != (shopify.CustomerInput{}) {
		if _, err := s.remote.UpdateCustomer(ctx, *user.ShopifyCustomerID, patch); err != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"user_id":             user.ID.String(),
				"shopify_customer_id": *user.ShopifyCustomerID,
			})
			s.logg.Error(logCtx, "users.customer_sync_failed", err)
		}
	}

	return FromModel(user), nil
}

func (s *service) Orders(ctx context.Context, userID uuid.UUID) ([]shopify.Order, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ShopifyCustomerID == nil {
		return []shopify.Order{}, nil
	}
	orders, err := s.remote.ListOrders(ctx, shopify.OrderListParams{
		CustomerID: *user.ShopifyCustomerID,
		Limit:      ordersPageSize,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch orders")
	}
	if orders == nil {
		orders = []shopify.Order{}
	}
	return orders, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
