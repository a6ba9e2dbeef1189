package admin

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/chylers/storefront-api/internal/testdb"
	"github.com/chylers/storefront-api/internal/users"
	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/enums"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCounter struct {
	counts  map[string]int
	failOn  string
	queries map[string]url.Values
}

func (f *fakeCounter) Count(_ context.Context, resource string, query url.Values) (int, error) {
	if f.queries == nil {
		f.queries = map[string]url.Values{}
	}
	f.queries[resource] = query
	if resource == f.failOn {
		return 0, errors.New("shopify unavailable")
	}
	return f.counts[resource], nil
}

type adminHarness struct {
	svc    *service
	db     *gorm.DB
	users  *users.Repository
	remote *fakeCounter
}

func newAdminHarness(t *testing.T, now time.Time) adminHarness {
	t.Helper()
	db := testdb.Open(t)
	userRepo := users.NewRepository(db)
	remote := &fakeCounter{counts: map[string]int{"orders": 40, "customers": 12, "products": 4}}
	svc, err := NewService(NewStatsRepository(db), userRepo, remote, logger.Nop())
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return now }
	return adminHarness{svc: s, db: db, users: userRepo, remote: remote}
}

func seedUser(t *testing.T, repo *users.Repository, email string, active bool) uuid.UUID {
	t.Helper()
	user, err := repo.Create(context.Background(), users.CreateUserDTO{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Leilani",
		LastName:     "Kahale",
		IsActive:     &active,
	})
	require.NoError(t, err)
	return user.ID
}

func TestStatsAggregatesLocalAndRemoteCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	h := newAdminHarness(t, now)
	ctx := context.Background()

	seedUser(t, h.users, "a@example.com", true)
	seedUser(t, h.users, "b@example.com", true)
	seedUser(t, h.users, "c@example.com", false)

	require.NoError(t, h.db.Create(&models.ContactInquiry{Name: "A", Email: "a@example.com", Subject: "Hi", Message: "Hello", InquiryType: enums.InquiryTypeGeneral}).Error)
	resolved := &models.ContactInquiry{Name: "B", Email: "b@example.com", Subject: "Hi", Message: "Hello", InquiryType: enums.InquiryTypeGeneral}
	require.NoError(t, h.db.Create(resolved).Error)
	require.NoError(t, h.db.Model(resolved).UpdateColumn("is_resolved", true).Error)

	for i, age := range []time.Duration{24 * time.Hour, 6 * 24 * time.Hour, 9 * 24 * time.Hour} {
		require.NoError(t, h.db.Create(&models.WebhookEvent{
			Source:    "shopify",
			EventType: enums.WebhookEventOrderCreated,
			EventID:   uuid.NewString(),
			Payload:   map[string]any{"id": i},
			CreatedAt: now.Add(-age),
		}).Error)
	}

	stats, err := h.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, UserStats{Total: 3, Active: 2}, stats.Users)
	assert.Equal(t, InquiryStats{Total: 2, Unresolved: 1}, stats.Inquiries)
	assert.Equal(t, int64(2), stats.Webhooks.Recent)
	assert.Equal(t, ShopifyStats{Orders: 40, Customers: 12, Products: 4}, stats.Shopify)
	assert.Equal(t, "any", h.remote.queries["orders"].Get("status"))
}

func TestStatsFallsBackToZeroWhenShopifyFails(t *testing.T) {
	h := newAdminHarness(t, time.Now())
	h.remote.failOn = "customers"

	stats, err := h.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ShopifyStats{}, stats.Shopify)
}

func TestListUsersFiltersAndValidates(t *testing.T) {
	h := newAdminHarness(t, time.Now())
	ctx := context.Background()
	seedUser(t, h.users, "a@example.com", true)
	seedUser(t, h.users, "b@example.com", false)

	all, err := h.svc.ListUsers(ctx, UserListParams{})
	require.NoError(t, err)
	assert.Len(t, all.Users, 2)
	assert.Equal(t, int64(2), all.Total)

	inactive := false
	filtered, err := h.svc.ListUsers(ctx, UserListParams{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, filtered.Users, 1)
	assert.Equal(t, "b@example.com", filtered.Users[0].Email)

	_, err = h.svc.ListUsers(ctx, UserListParams{Limit: MaxUserLimit + 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestToggleUserActive(t *testing.T) {
	h := newAdminHarness(t, time.Now())
	ctx := context.Background()
	id := seedUser(t, h.users, "a@example.com", true)

	res, err := h.svc.ToggleUserActive(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "User deactivated successfully", res.Message)
	assert.False(t, res.IsActive)

	stored, err := h.users.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	res, err = h.svc.ToggleUserActive(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "User activated successfully", res.Message)

	_, err = h.svc.ToggleUserActive(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
