package shopifywebhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/chylers/storefront-api/internal/notifications"
	"github.com/chylers/storefront-api/internal/testdb"
	"github.com/chylers/storefront-api/pkg/db"
	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/enums"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/shopify"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentEmail struct {
	to   string
	name notifications.Template
	data any
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, to string, name notifications.Template, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{to: to, name: name, data: data})
	return f.err
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *fakeNotifier) {
	t.Helper()
	conn := testdb.Open(t)
	notifier := &fakeNotifier{}
	svc, err := NewService(ServiceParams{
		Repo:              NewRepository(conn),
		TransactionRunner: db.FromGorm(conn),
		Notifier:          notifier,
	})
	require.NoError(t, err)
	return svc, conn, notifier
}

func countEvents(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.WebhookEvent{}).Count(&n).Error)
	return n
}

const orderPayload = `{"id":820982911946154508,"name":"#1001","email":"kai@example.com","total_price":"42.50",
"line_items":[{"id":1,"title":"Original Beef Chips","variant_title":"3 oz","quantity":2,"price":"10.00"}]}`

func TestOrderCreatedStoresEventAndSendsConfirmation(t *testing.T) {
	svc, conn, notifier := newTestService(t)
	headers := http.Header{}
	headers.Set(shopify.HeaderTopic, shopify.TopicOrdersCreate)

	outcome, err := svc.Handle(context.Background(), shopify.TopicOrdersCreate, []byte(orderPayload), headers)
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, outcome)

	var event models.WebhookEvent
	require.NoError(t, conn.First(&event).Error)
	require.Equal(t, "order_820982911946154508", event.EventID)
	require.Equal(t, enums.WebhookEventOrderCreated, event.EventType)
	require.Equal(t, "shopify", event.Source)
	require.True(t, event.Processed)
	require.NotNil(t, event.ProcessedAt)
	require.Equal(t, shopify.TopicOrdersCreate, event.Headers["x-shopify-topic"])

	require.Len(t, notifier.sent, 1)
	require.Equal(t, "kai@example.com", notifier.sent[0].to)
	require.Equal(t, notifications.TemplateOrderConfirmation, notifier.sent[0].name)
	data := notifier.sent[0].data.(notifications.OrderConfirmationData)
	require.Equal(t, "#1001", data.OrderNumber)
	require.Len(t, data.LineItems, 1)
}

func TestDuplicateEventHasNoSideEffects(t *testing.T) {
	svc, conn, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.Handle(ctx, shopify.TopicOrdersCreate, []byte(orderPayload), nil)
	require.NoError(t, err)

	outcome, err := svc.Handle(ctx, shopify.TopicOrdersCreate, []byte(orderPayload), nil)
	require.NoError(t, err)
	require.Equal(t, OutcomeDuplicate, outcome)
	require.Equal(t, int64(1), countEvents(t, conn))
	require.Len(t, notifier.sent, 1)
}

func TestEmailFailureDoesNotFailWebhook(t *testing.T) {
	svc, conn, notifier := newTestService(t)
	notifier.err = errors.New("smtp down")

	outcome, err := svc.Handle(context.Background(), shopify.TopicOrdersCreate, []byte(orderPayload), nil)
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, outcome)
	require.Equal(t, int64(1), countEvents(t, conn))
}

func TestOrderWithoutEmailSkipsNotification(t *testing.T) {
	svc, _, notifier := newTestService(t)
	_, err := svc.Handle(context.Background(), shopify.TopicOrdersCreate, []byte(`{"id":5,"name":"#1005"}`), nil)
	require.NoError(t, err)
	require.Empty(t, notifier.sent)
}

func TestPayloadWithoutIDIsRejected(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	for topic, body := range map[string]string{
		shopify.TopicOrdersCreate:    `{"email":"kai@example.com"}`,
		shopify.TopicCustomersCreate: `{"id":null}`,
		shopify.TopicCartsUpdate:     `{"token":"abc"}`,
	} {
		_, err := svc.Handle(ctx, topic, []byte(body), nil)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "topic %s: %v", topic, err)
	}

	_, err := svc.Handle(ctx, shopify.TopicOrdersCreate, []byte(`not json`), nil)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Handle(ctx, "products/delete", []byte(`{"id":1}`), nil)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, int64(0), countEvents(t, conn))
}

func TestCartUpdateEventID(t *testing.T) {
	svc, conn, _ := newTestService(t)
	body := `{"token":"c1-abc","updated_at":"2026-01-02T03:04:05-10:00"}`

	_, err := svc.Handle(context.Background(), shopify.TopicCartsUpdate, []byte(body), nil)
	require.NoError(t, err)

	var event models.WebhookEvent
	require.NoError(t, conn.First(&event).Error)
	require.Equal(t, "cart_c1-abc_2026-01-02T03:04:05-10:00", event.EventID)
	require.Equal(t, enums.WebhookEventCartUpdated, event.EventType)
}

func TestCustomerCreatedLinksLocalUser(t *testing.T) {
	svc, conn, _ := newTestService(t)
	user := &models.User{Email: "kai@example.com", PasswordHash: "x", FirstName: "Kai", LastName: "Akana", IsActive: true}
	require.NoError(t, conn.Create(user).Error)

	body := `{"id":7001,"email":"Kai@Example.com","first_name":"Kai"}`
	_, err := svc.Handle(context.Background(), shopify.TopicCustomersCreate, []byte(body), nil)
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, conn.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.ShopifyCustomerID)
	require.Equal(t, int64(7001), *stored.ShopifyCustomerID)
}

type failingRepo struct {
	Repository
}

func (f failingRepo) WithTx(tx *gorm.DB) Repository { return failingRepo{f.Repository.WithTx(tx)} }

func (f failingRepo) LinkCustomer(context.Context, string, int64) (bool, error) {
	return false, errors.New("users table locked")
}

func TestHandlerFailureRollsBack(t *testing.T) {
	conn := testdb.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:              failingRepo{NewRepository(conn)},
		TransactionRunner: db.FromGorm(conn),
		Notifier:          &fakeNotifier{},
	})
	require.NoError(t, err)

	_, err = svc.Handle(context.Background(), shopify.TopicCustomersCreate, []byte(`{"id":9,"email":"a@b.c"}`), nil)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	require.Equal(t, int64(0), countEvents(t, conn))
}

type failingSaveRepo struct {
	Repository
}

func (f failingSaveRepo) WithTx(tx *gorm.DB) Repository {
	return failingSaveRepo{f.Repository.WithTx(tx)}
}

func (f failingSaveRepo) SaveEvent(context.Context, *models.WebhookEvent) error {
	return errors.New("disk full")
}

func TestOrderConfirmationWaitsForCommit(t *testing.T) {
	conn := testdb.Open(t)
	notifier := &fakeNotifier{}
	svc, err := NewService(ServiceParams{
		Repo:              failingSaveRepo{NewRepository(conn)},
		TransactionRunner: db.FromGorm(conn),
		Notifier:          notifier,
	})
	require.NoError(t, err)

	_, err = svc.Handle(context.Background(), shopify.TopicOrdersCreate, []byte(orderPayload), nil)
	require.Error(t, err)
	require.Equal(t, int64(0), countEvents(t, conn))
	require.Empty(t, notifier.sent)

	// A successful redelivery sends exactly one confirmation.
	ok, _, okNotifier := newTestService(t)
	_, err = ok.Handle(context.Background(), shopify.TopicOrdersCreate, []byte(orderPayload), nil)
	require.NoError(t, err)
	_, err = ok.Handle(context.Background(), shopify.TopicOrdersCreate, []byte(orderPayload), nil)
	require.NoError(t, err)
	require.Len(t, okNotifier.sent, 1)
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = fmt.Sprint(value)
	return true, nil
}

func (s *memoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("sf:idempotency:%s:%s", scope, id)
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func TestIdempotencyGuard(t *testing.T) {
	store := &memoryStore{data: map[string]string{}}
	guard, err := NewIdempotencyGuard(store, time.Hour, "shopify-webhook")
	require.NoError(t, err)
	ctx := context.Background()

	seen, err := guard.CheckAndMark(ctx, "d-1")
	require.NoError(t, err)
	require.False(t, seen)

	seen, err = guard.CheckAndMark(ctx, "d-1")
	require.NoError(t, err)
	require.True(t, seen)

	require.NoError(t, guard.Release(ctx, "d-1"))
	seen, err = guard.CheckAndMark(ctx, "d-1")
	require.NoError(t, err)
	require.False(t, seen)

	_, err = guard.CheckAndMark(ctx, "")
	require.Error(t, err)

	_, err = NewIdempotencyGuard(nil, time.Hour, "x")
	require.Error(t, err)
}
