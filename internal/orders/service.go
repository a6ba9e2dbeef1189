package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chylers/storefront-api/pkg/db/models"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 250
)

var validStatuses = map[string]struct{}{
	"":          {},
	"any":       {},
	"open":      {},
	"closed":    {},
	"cancelled": {},
}

// OrderClient is the slice of the Shopify Admin API used for order history.
type OrderClient interface {
	ListOrders(ctx context.Context, params shopify.OrderListParams) ([]shopify.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*shopify.Order, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service reads order history from the commerce platform.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]OrderView, error)
	GetForUser(ctx context.Context, userID uuid.UUID, orderID int64) (*OrderView, error)
	ListAll(ctx context.Context, params ListParams) ([]OrderView, error)
}

type service struct {
	client OrderClient
	users  userLookup
}

// NewService builds the order history service.
func NewService(client OrderClient, users userLookup) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("order client is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	return &service{client: client, users: users}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]OrderView, error) {
	params, err := normalize(params)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ShopifyCustomerID == nil {
		return []OrderView{}, nil
	}
	orders, err := s.client.ListOrders(ctx, shopify.OrderListParams{
		CustomerID: *user.ShopifyCustomerID,
		Status:     params.Status,
		Limit:      params.Limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch orders")
	}
	return newOrderViews(orders, params.Limit), nil
}

func (s *service) GetForUser(ctx context.Context, userID uuid.UUID, orderID int64) (*OrderView, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	order, err := s.client.GetOrder(ctx, orderID)
	if err != nil {
		if shopify.IsNotFound(err) {
			return nil, pkgerrors.NotFound("order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch order")
	}
	if !ownedBy(order, user) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order not found")
	}
	view := newOrderView(*order)
	return &view, nil
}

func (s *service) ListAll(ctx context.Context, params ListParams) ([]OrderView, error) {
	params, err := normalize(params)
	if err != nil {
		return nil, err
	}
	orders, err := s.client.ListOrders(ctx, shopify.OrderListParams{Status: params.Status, Limit: params.Limit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, "failed to fetch orders")
	}
	return newOrderViews(orders, params.Limit), nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func ownedBy(order *shopify.Order, user *models.User) bool {
	if order.Customer == nil || user.ShopifyCustomerID == nil {
		return false
	}
	return order.Customer.ID == *user.ShopifyCustomerID
}

func normalize(params ListParams) (ListParams, error) {
	params.Status = strings.ToLower(strings.TrimSpace(params.Status))
	if _, ok := validStatuses[params.Status]; !ok {
		return params, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if params.Limit == 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be between 1 and 250")
	}
	return params, nil
}
