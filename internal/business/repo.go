package business

import (
	"context"

	"github.com/chylers/storefront-api/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the business profile and its social links.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// First returns the oldest business info row.
func (r *Repository) First(ctx context.Context) (*models.BusinessInfo, error) {
	var row models.BusinessInfo
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateInfo inserts the business info row.
func (r *Repository) CreateInfo(ctx context.Context, info *models.BusinessInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

// SaveInfo persists every column of info.
func (r *Repository) SaveInfo(ctx context.Context, info *models.BusinessInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}

// ListActiveLinks returns active social links in display order.
func (r *Repository) ListActiveLinks(ctx context.Context) ([]models.SocialMediaLink, error) {
	var rows []models.SocialMediaLink
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CreateLink inserts a social link.
func (r *Repository) CreateLink(ctx context.Context, link *models.SocialMediaLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}
