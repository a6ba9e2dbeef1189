package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chylers/storefront-api/pkg/db/models"
	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes cart operations. Every mutating call persists locally first
// and mirrors the result to the remote checkout afterwards.
type Service interface {
	Resolve(ctx context.Context, token string, userID *uuid.UUID) (*models.CartSession, bool, error)
	GetCart(ctx context.Context, cart *models.CartSession) (*View, error)
	AddItem(ctx context.Context, cart *models.CartSession, input AddItemInput) (*View, error)
	UpdateItemQuantity(ctx context.Context, cart *models.CartSession, itemID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, cart *models.CartSession, itemID uuid.UUID) (*View, error)
	Clear(ctx context.Context, cart *models.CartSession) error
	ApplyDiscount(ctx context.Context, cart *models.CartSession, code string) (*View, error)
	ShippingRates(ctx context.Context, cart *models.CartSession, address ShippingAddressInput) (*ShippingRatesView, error)
	CheckoutURL(ctx context.Context, cart *models.CartSession) (*CheckoutURLView, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	client   CommerceClient
	resolver *Resolver
	mirror   *Mirror
	logg     *logger.Logger
	opts     ShippingOptions
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, client CommerceClient, logg *logger.Logger, opts ShippingOptions) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if client == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     repo,
		tx:       tx,
		client:   client,
		resolver: NewResolver(repo),
		mirror:   NewMirror(client, logg, opts.Source),
		logg:     logg,
		opts:     opts,
	}, nil
}

func (s *service) Resolve(ctx context.Context, token string, userID *uuid.UUID) (*models.CartSession, bool, error) {
	cart, created, err := s.resolver.Resolve(ctx, token, userID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart session")
	}
	return cart, created, nil
}

// GetCart recomputes and persists totals before returning the cart.
func (s *service) GetCart(ctx context.Context, cart *models.CartSession) (*View, error) {
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}
	ApplyTotals(cart, items)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart totals")
	}
	return newView(cart, items, s.opts.FreeShippingThreshold), nil
}

func (s *service) AddItem(ctx context.Context, cart *models.CartSession, input AddItemInput) (*View, error) {
	if input.VariantID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant_id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	variant, err := s.client.GetVariant(ctx, input.VariantID)
	if err != nil {
		return nil, remoteLookup(err, "get_variant", "variant lookup failed")
	}
	product, err := s.client.GetProduct(ctx, variant.ProductID)
	if err != nil {
		return nil, remoteLookup(err, "get_product", "product lookup failed")
	}

	var items []models.CartLineItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindItemByVariant(ctx, cart.ID, variant.ID)
		switch {
		case err == nil:
			existing.Quantity += input.Quantity
			existing.Recalculate()
			if err := repo.SaveItem(ctx, existing); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &models.CartLineItem{
				CartID:           cart.ID,
				ShopifyProductID: variant.ProductID,
				ShopifyVariantID: variant.ID,
				ProductTitle:     product.Title,
				VariantTitle:     variant.Title,
				SKU:              variant.SKU,
				Quantity:         input.Quantity,
				Price:            variant.Price,
				ImageURL:         product.PrimaryImage(),
				Properties:       input.Properties,
			}
			if item.Properties == nil {
				item.Properties = map[string]any{}
			}
			item.Recalculate()
			if err := repo.CreateItem(ctx, item); err != nil {
				return err
			}
		default:
			return err
		}

		items, err = repo.ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		ApplyTotals(cart, items)
		return repo.Save(ctx, cart)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}

	s.sync(ctx, cart, items)
	return newView(cart, items, s.opts.FreeShippingThreshold), nil
}

// UpdateItemQuantity sets an item's quantity; zero or less removes the item.
func (s *service) UpdateItemQuantity(ctx context.Context, cart *models.CartSession, itemID uuid.UUID, quantity int) (*View, error) {
	var items []models.CartLineItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, cart.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("cart item")
			}
			return err
		}

		if quantity <= 0 {
			if err := repo.DeleteItem(ctx, cart.ID, item.ID); err != nil {
				return err
			}
		} else {
			item.Quantity = quantity
			item.Recalculate()
			if err := repo.SaveItem(ctx, item); err != nil {
				return err
			}
		}

		items, err = repo.ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		ApplyTotals(cart, items)
		return repo.Save(ctx, cart)
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}

	s.sync(ctx, cart, items)
	return newView(cart, items, s.opts.FreeShippingThreshold), nil
}

func (s *service) RemoveItem(ctx context.Context, cart *models.CartSession, itemID uuid.UUID) (*View, error) {
	return s.UpdateItemQuantity(ctx, cart, itemID, 0)
}

// Clear empties the cart and unlinks its checkout. The remote checkout is left
// untouched.
func (s *service) Clear(ctx context.Context, cart *models.CartSession) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItems(ctx, cart.ID); err != nil {
			return err
		}
		cart.Reset()
		return repo.Save(ctx, cart)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// ApplyDiscount pushes a single code to the checkout and stores the discount the
// platform reports.
func (s *service) ApplyDiscount(ctx context.Context, cart *models.CartSession, code string) (*View, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_code is required")
	}
	if !cart.HasCheckout() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	checkout, err := s.client.ApplyDiscount(ctx, *cart.CheckoutToken, code)
	if err != nil {
		if shopify.IsClientError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteSync, err, "apply discount failed").
			WithDetails(map[string]any{"step": "apply_discount"})
	}

	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}
	cart.DiscountCodes = dbtypes.StringList{code}
	cart.DiscountAmount = checkout.TotalDiscounts
	ApplyTotals(cart, items)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart discount")
	}
	return newView(cart, items, s.opts.FreeShippingThreshold), nil
}

// ShippingRates quotes the remote rates for address and adds the store's own
// free-shipping and pickup options.
func (s *service) ShippingRates(ctx context.Context, cart *models.CartSession, address ShippingAddressInput) (*ShippingRatesView, error) {
	if !cart.HasCheckout() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	remote, err := s.client.CalculateShipping(ctx, *cart.CheckoutToken, address.ToShopify())
	if err != nil {
		return nil, remoteLookup(err, "calculate_shipping", "failed to calculate shipping rates")
	}

	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}

	rates := AssembleRates(remote, Subtotal(items), address.ProvinceCode, s.opts)
	return &ShippingRatesView{ShippingRates: rates}, nil
}

func (s *service) CheckoutURL(ctx context.Context, cart *models.CartSession) (*CheckoutURLView, error) {
	if cart.CheckoutURL == nil || *cart.CheckoutURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	return &CheckoutURLView{CheckoutURL: *cart.CheckoutURL}, nil
}

// sync mirrors items to the remote checkout and links a newly created one.
func (s *service) sync(ctx context.Context, cart *models.CartSession, items []models.CartLineItem) {
	checkout := s.mirror.Push(ctx, cart, items)
	if checkout == nil {
		return
	}

	checkoutID := ""
	if checkout.ID != 0 {
		checkoutID = strconv.FormatInt(checkout.ID, 10)
	}
	cart.LinkCheckout(checkoutID, checkout.Token, checkout.WebURL)
	if err := s.repo.Save(ctx, cart); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"cart_id": cart.ID.String(), "step": "link_checkout"})
		s.logg.Error(ctx, "cart.mirror_failed", err)
	}
}

func remoteLookup(err error, step, message string) error {
	return pkgerrors.Wrap(pkgerrors.CodeRemoteLookup, err, message).
		WithDetails(map[string]any{"step": step})
}
