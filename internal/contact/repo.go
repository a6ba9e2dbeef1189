package contact

import (
	"context"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists contact inquiries.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new inquiry.
func (r *Repository) Create(ctx context.Context, inquiry *models.ContactInquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// FindByID loads an inquiry by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactInquiry, error) {
	var row models.ContactInquiry
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save persists every column of inquiry.
func (r *Repository) Save(ctx context.Context, inquiry *models.ContactInquiry) error {
	return r.db.WithContext(ctx).Save(inquiry).Error
}

// ListParams filters the admin inquiry listing.
type ListParams struct {
	Skip       int
	Limit      int
	IsResolved *bool
}

// List returns inquiries newest first.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.ContactInquiry, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactInquiry{})
	if params.IsResolved != nil {
		query = query.Where("is_resolved = ?", *params.IsResolved)
	}
	if params.Skip > 0 {
		query = query.Offset(params.Skip)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	var rows []models.ContactInquiry
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of inquiries, optionally filtered by resolution.
func (r *Repository) Count(ctx context.Context, isResolved *bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactInquiry{})
	if isResolved != nil {
		query = query.Where("is_resolved = ?", *isResolved)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
