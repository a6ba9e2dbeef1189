package product

import (
	"context"

	"github.com/chylers/storefront-api/pkg/db/models"
	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttributesRepository persists merchandising attributes keyed by Shopify product id.
type AttributesRepository struct {
	db *gorm.DB
}

// NewAttributesRepository binds the repository to a GORM handle.
func NewAttributesRepository(db *gorm.DB) *AttributesRepository {
	return &AttributesRepository{db: db}
}

// ListByProductIDs returns the attribute rows present for ids, keyed by product id.
func (r *AttributesRepository) ListByProductIDs(ctx context.Context, ids []int64) (map[int64]models.ProductAttributes, error) {
	out := make(map[int64]models.ProductAttributes, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.ProductAttributes
	if err := r.db.WithContext(ctx).Where("shopify_product_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ShopifyProductID] = row
	}
	return out, nil
}

// FindByProductID loads the attributes for one product.
func (r *AttributesRepository) FindByProductID(ctx context.Context, productID int64) (*models.ProductAttributes, error) {
	var row models.ProductAttributes
	if err := r.db.WithContext(ctx).Where("shopify_product_id = ?", productID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes attrs, replacing the mutable columns when the product already has a row.
func (r *AttributesRepository) Upsert(ctx context.Context, attrs *models.ProductAttributes) error {
	if attrs.ID != uuid.Nil {
		return r.db.WithContext(ctx).Save(attrs).Error
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shopify_product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"flavor", "pack_sizes", "is_bestseller", "is_award_winning", "nutrition", "updated_at",
		}),
	}).Create(attrs).Error
}

// CreateMissing inserts empty rows for products that have none and returns how many were added.
func (r *AttributesRepository) CreateMissing(ctx context.Context, ids []int64) (int, error) {
	existing, err := r.ListByProductIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	seen := make(map[int64]struct{}, len(ids))
	rows := make([]models.ProductAttributes, 0, len(ids))
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.ProductAttributes{ShopifyProductID: id, PackSizes: dbtypes.StringList{}})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "shopify_product_id"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
