package cart

import (
	"context"
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for cart sessions and their items.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, now: r.now}
}

// FindActiveByToken loads an active, unexpired cart by its cookie token.
func (r *Repository) FindActiveByToken(ctx context.Context, token string) (*models.CartSession, error) {
	var cart models.CartSession
	err := r.db.WithContext(ctx).
		Where("session_token = ? AND is_active = ? AND expires_at > ?", token, true, r.now().UTC()).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts a new cart session.
func (r *Repository) Create(ctx context.Context, cart *models.CartSession) error {
	return r.db.WithContext(ctx).Omit("Items").Create(cart).Error
}

// Save persists the cart row without touching its items.
func (r *Repository) Save(ctx context.Context, cart *models.CartSession) error {
	return r.db.WithContext(ctx).Omit("Items").Save(cart).Error
}

// ListItems returns the cart's items in insertion order.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartLineItem, error) {
	var rows []models.CartLineItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindItem loads an item scoped to the cart.
func (r *Repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartLineItem, error) {
	var item models.CartLineItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByVariant loads the line for a variant, if the cart has one.
func (r *Repository) FindItemByVariant(ctx context.Context, cartID uuid.UUID, variantID int64) (*models.CartLineItem, error) {
	var item models.CartLineItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND shopify_variant_id = ?", cartID, variantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *models.CartLineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) SaveItem(ctx context.Context, item *models.CartLineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes one item scoped to the cart.
func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartLineItem{}).Error
}

// DeleteItems removes every item in the cart.
func (r *Repository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartLineItem{}).Error
}
