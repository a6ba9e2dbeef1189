package shopifywebhook

import (
	"context"
	"strings"

	"github.com/chylers/storefront-api/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists webhook events and the local side effects of topics.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateEvent(ctx context.Context, event *models.WebhookEvent) error
	SaveEvent(ctx context.Context, event *models.WebhookEvent) error
	LinkCustomer(ctx context.Context, email string, customerID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateEvent(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) SaveEvent(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// LinkCustomer stores customerID on the local user with email when that user is
// not linked yet.
func (r *repository) LinkCustomer(ctx context.Context, email string, customerID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("lower(email) = ? AND shopify_customer_id IS NULL", strings.ToLower(strings.TrimSpace(email))).
		Update("shopify_customer_id", customerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
