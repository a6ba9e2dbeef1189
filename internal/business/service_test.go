package business

import (
	"context"
	"testing"
	"time"

	"github.com/chylers/storefront-api/internal/testdb"
	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBusinessService(t *testing.T, at time.Time) (*service, *Repository) {
	t.Helper()
	repo := NewRepository(testdb.Open(t))
	loc, err := LoadLocation("Pacific/Honolulu")
	require.NoError(t, err)
	svc, err := NewService(repo, loc)
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return at }
	return s, repo
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestInfoCreatesDefaultsOnce(t *testing.T) {
	loc, _ := LoadLocation("")
	svc, repo := newBusinessService(t, time.Date(2026, 3, 7, 10, 0, 0, 0, loc))
	ctx := context.Background()

	view, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Chyler's Hawaiian Beef Chips", view.CompanyName)
	assert.Equal(t, "Closed", view.Hours["saturday"])
	assert.Equal(t, []string{"Made in Hawaii with Aloha"}, view.Certifications)
	assert.Equal(t, 2004, view.FoundedYear)
	assert.False(t, view.IsOpenNow)
	require.NotNil(t, view.NextOpenTime)
	assert.Equal(t, "Monday 8:00 AM HST", *view.NextOpenTime)
	assert.Empty(t, view.SocialMediaLinks)

	first, err := repo.First(ctx)
	require.NoError(t, err)
	_, err = svc.Info(ctx)
	require.NoError(t, err)
	again, err := repo.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestInfoOpenHasNoNextTime(t *testing.T) {
	loc, _ := LoadLocation("")
	svc, _ := newBusinessService(t, time.Date(2026, 3, 3, 10, 0, 0, 0, loc))

	view, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.True(t, view.IsOpenNow)
	assert.Nil(t, view.NextOpenTime)
}

func TestSocialLinksOrderedAndActiveOnly(t *testing.T) {
	svc, _ := newBusinessService(t, time.Now())
	ctx := context.Background()

	_, err := svc.AddSocialLink(ctx, SocialLinkRequest{Platform: "TikTok", URL: "https://tiktok.com/@chylers", DisplayOrder: 2})
	require.NoError(t, err)
	_, err = svc.AddSocialLink(ctx, SocialLinkRequest{Platform: "instagram", URL: "https://instagram.com/chylers", DisplayOrder: 1})
	require.NoError(t, err)
	hidden, err := svc.AddSocialLink(ctx, SocialLinkRequest{Platform: "facebook", URL: "https://facebook.com/chylers", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	links, err := svc.SocialLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "instagram", links[0].Platform)
	assert.Equal(t, "tiktok", links[1].Platform)

	view, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Len(t, view.SocialMediaLinks, 2)
}

func TestInactiveSocialLinkPersistsFalse(t *testing.T) {
	svc, repo := newBusinessService(t, time.Now())
	ctx := context.Background()

	created, err := svc.AddSocialLink(ctx, SocialLinkRequest{Platform: "youtube", URL: "https://youtube.com/@chylers", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	var stored models.SocialMediaLink
	require.NoError(t, repo.db.WithContext(ctx).Where("id = ?", created.ID).First(&stored).Error)
	assert.False(t, stored.IsActive)

	active, err := repo.ListActiveLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpdateInfoPartial(t *testing.T) {
	svc, repo := newBusinessService(t, time.Now())
	ctx := context.Background()

	view, err := svc.UpdateInfo(ctx, UpdateInfoRequest{
		Phone:  strPtr(" 808-555-0100 "),
		Story:  strPtr("Started in a Kapolei garage."),
		Values: &[]string{"Aloha", "Quality"},
	})
	require.NoError(t, err)
	assert.Equal(t, "808-555-0100", view.Phone)
	require.NotNil(t, view.Story)
	assert.Equal(t, "Started in a Kapolei garage.", *view.Story)
	assert.Nil(t, view.Mission)
	assert.Equal(t, []string{"Aloha", "Quality"}, view.Values)
	assert.Equal(t, "Kapolei Kitchen Factory Outlet", view.WillCallLocation)

	stored, err := repo.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "808-555-0100", stored.Phone)
	assert.Equal(t, "8:00 AM - 5:00 PM HST", stored.Hours["monday"])
}
