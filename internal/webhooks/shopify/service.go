package shopifywebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chylers/storefront-api/internal/notifications"
	"github.com/chylers/storefront-api/pkg/db"
	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/enums"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/shopify"
	"gorm.io/gorm"
)

const sourceShopify = "shopify"

// Outcome is what happened to a verified delivery.
type Outcome string

const (
	OutcomeProcessed Outcome = "success"
	OutcomeDuplicate Outcome = "duplicate"
)

var errDuplicate = errors.New("duplicate webhook event")

// outboundEmail is queued by a topic handler and sent once the event commits.
type outboundEmail struct {
	to       string
	template notifications.Template
	data     any
	step     string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Send(ctx context.Context, to string, name notifications.Template, data any) error
}

type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
	Notifier          notifier
	Logger            *logger.Logger
}

// Service stores verified Shopify deliveries and runs their topic handlers.
type Service struct {
	repo     Repository
	txRunner txRunner
	notifier notifier
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "webhook repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		repo:     params.Repo,
		txRunner: params.TransactionRunner,
		notifier: params.Notifier,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Handle records one verified delivery for topic. A repeated event id yields
// OutcomeDuplicate without side effects; a handler failure rolls everything back.
func (s *Service) Handle(ctx context.Context, topic string, body []byte, headers http.Header) (Outcome, error) {
	eventType, ok := eventTypes[topic]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported webhook topic %q", topic))
	}

	payload, err := decodePayload(body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload")
	}
	eventID, err := eventIDFor(eventType, payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "webhook payload missing id")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"webhook_topic": topic, "event_id": eventID})

	var emails []outboundEmail
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		event := &models.WebhookEvent{
			Source:    sourceShopify,
			EventType: eventType,
			EventID:   eventID,
			Payload:   payload,
			Headers:   flattenHeaders(headers),
		}
		if err := repo.CreateEvent(ctx, event); err != nil {
			if db.IsUniqueViolation(err, "") {
				return errDuplicate
			}
			return err
		}

		queued, err := s.dispatch(ctx, repo, eventType, body)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		event.Processed = true
		event.ProcessedAt = &now
		if err := repo.SaveEvent(ctx, event); err != nil {
			return err
		}
		emails = queued
		return nil
	})
	switch {
	case errors.Is(err, errDuplicate):
		s.logg.Info(ctx, "webhook.duplicate")
		return OutcomeDuplicate, nil
	case err != nil:
		if typed := pkgerrors.As(err); typed != nil {
			return "", typed
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to process webhook")
	}

	s.logg.Info(ctx, "webhook.processed")
	s.sendEmails(ctx, emails)
	return OutcomeProcessed, nil
}

// sendEmails runs after commit; failures are logged and never undo the event.
func (s *Service) sendEmails(ctx context.Context, emails []outboundEmail) {
	for _, e := range emails {
		if err := s.notifier.Send(ctx, e.to, e.template, e.data); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "step", e.step), "webhook.email_failed", err)
		}
	}
}

func (s *Service) dispatch(ctx context.Context, repo Repository, eventType enums.WebhookEventType, body []byte) ([]outboundEmail, error) {
	switch eventType {
	case enums.WebhookEventOrderCreated:
		email, err := orderConfirmation(body)
		if err != nil || email == nil {
			return nil, err
		}
		return []outboundEmail{*email}, nil
	case enums.WebhookEventCustomerCreated:
		return nil, s.customerCreated(ctx, repo, body)
	default:
		return nil, nil
	}
}

func orderConfirmation(body []byte) (*outboundEmail, error) {
	var order shopify.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode order payload")
	}
	if strings.TrimSpace(order.Email) == "" {
		return nil, nil
	}

	lines := make([]notifications.OrderLine, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lines = append(lines, notifications.OrderLine{
			Title:        item.Title,
			VariantTitle: item.VariantTitle,
			Quantity:     item.Quantity,
			Price:        item.Price,
		})
	}
	data := notifications.OrderConfirmationData{
		OrderNumber: order.Name,
		TotalPrice:  order.TotalPrice,
		LineItems:   lines,
	}
	if data.OrderNumber == "" {
		data.OrderNumber = "#" + strconv.Itoa(order.OrderNumber)
	}
	return &outboundEmail{
		to:       order.Email,
		template: notifications.TemplateOrderConfirmation,
		data:     data,
		step:     "order_confirmation",
	}, nil
}

func (s *Service) customerCreated(ctx context.Context, repo Repository, body []byte) error {
	var customer shopify.Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode customer payload")
	}
	if customer.Email == "" || customer.ID == 0 {
		return nil
	}
	linked, err := repo.LinkCustomer(ctx, customer.Email, customer.ID)
	if err != nil {
		return err
	}
	if linked {
		s.logg.Info(s.logg.WithField(ctx, "shopify_customer_id", customer.ID), "webhook.customer_linked")
	}
	return nil
}

var eventTypes = map[string]enums.WebhookEventType{
	shopify.TopicOrdersCreate:    enums.WebhookEventOrderCreated,
	shopify.TopicCustomersCreate: enums.WebhookEventCustomerCreated,
	shopify.TopicCartsUpdate:     enums.WebhookEventCartUpdated,
}

// EventTypeFor maps a topic to its stored event type.
func EventTypeFor(topic string) (enums.WebhookEventType, bool) {
	t, ok := eventTypes[topic]
	return t, ok
}

func decodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("payload must be a JSON object")
	}
	return payload, nil
}

func eventIDFor(eventType enums.WebhookEventType, payload map[string]any) (string, error) {
	switch eventType {
	case enums.WebhookEventOrderCreated:
		id, ok := scalar(payload["id"])
		if !ok {
			return "", errors.New("order id missing")
		}
		return "order_" + id, nil
	case enums.WebhookEventCustomerCreated:
		id, ok := scalar(payload["id"])
		if !ok {
			return "", errors.New("customer id missing")
		}
		return "customer_" + id, nil
	case enums.WebhookEventCartUpdated:
		token, ok := scalar(payload["token"])
		if !ok {
			return "", errors.New("cart token missing")
		}
		updatedAt, ok := scalar(payload["updated_at"])
		if !ok {
			return "", errors.New("cart updated_at missing")
		}
		return fmt.Sprintf("cart_%s_%s", token, updatedAt), nil
	}
	return "", fmt.Errorf("unsupported event type %q", eventType)
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case json.Number:
		return t.String(), true
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	default:
		return "", false
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		out[strings.ToLower(key)] = strings.Join(values, ", ")
	}
	return out
}
