package admin

import (
	"context"
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	"gorm.io/gorm"
)

// StatsRepository runs the dashboard counters against the local database.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountUsers(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var n int64
	return n, q.Count(&n).Error
}

func (r *StatsRepository) CountInquiries(ctx context.Context, unresolvedOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ContactInquiry{})
	if unresolvedOnly {
		q = q.Where("is_resolved = ?", false)
	}
	var n int64
	return n, q.Count(&n).Error
}

// CountWebhooksSince counts webhook events received at or after since.
func (r *StatsRepository) CountWebhooksSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}
