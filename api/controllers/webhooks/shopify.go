package webhooks

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chylers/storefront-api/api/responses"
	shopifywebhook "github.com/chylers/storefront-api/internal/webhooks/shopify"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/shopify"
)

const (
	hmacHeader       = "X-Shopify-Hmac-Sha256"
	webhookIDHeader  = "X-Shopify-Webhook-Id"
	maxWebhookBodyMB = 2
)

type ShopifyWebhookService interface {
	Handle(ctx context.Context, topic string, body []byte, headers http.Header) (shopifywebhook.Outcome, error)
}

type shopifyWebhookGuard interface {
	CheckAndMark(ctx context.Context, deliveryID string) (bool, error)
	Release(ctx context.Context, deliveryID string) error
}

// ShopifyWebhook verifies and ingests a Shopify delivery. The topic comes from
// the {resource}/{action} route segments.
func ShopifyWebhook(svc ShopifyWebhookService, secret string, guard shopifyWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyMB<<20))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
			return
		}

		if secret == "" || !shopify.VerifyWebhook(secret, payload, r.Header.Get(hmacHeader)) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		topic := chi.URLParam(r, "resource") + "/" + chi.URLParam(r, "action")
		if logg != nil {
			ctx = logg.WithField(ctx, "webhook_topic", topic)
		}

		deliveryID := strings.TrimSpace(r.Header.Get(webhookIDHeader))
		if guard != nil && deliveryID != "" {
			seen, err := guard.CheckAndMark(ctx, deliveryID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if seen {
				responses.WriteJSON(w, http.StatusOK, map[string]string{"status": string(shopifywebhook.OutcomeDuplicate)})
				return
			}
		}

		outcome, err := svc.Handle(ctx, topic, payload, r.Header)
		if err != nil {
			if guard != nil && deliveryID != "" {
				if releaseErr := guard.Release(ctx, deliveryID); releaseErr != nil && logg != nil {
					logg.Error(ctx, "webhook.guard_release_failed", releaseErr)
				}
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": string(outcome)})
	}
}
