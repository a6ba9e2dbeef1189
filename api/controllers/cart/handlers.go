package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chylers/storefront-api/api/middleware"
	"github.com/chylers/storefront-api/api/responses"
	"github.com/chylers/storefront-api/api/validators"
	cartsvc "github.com/chylers/storefront-api/internal/cart"
	"github.com/chylers/storefront-api/pkg/db/models"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
)

// resolveCart finds or creates the caller's cart and issues the cookie for new sessions.
func resolveCart(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) (*models.CartSession, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return nil, false
	}

	var userID *uuid.UUID
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
			return nil, false
		}
		userID = &id
	}

	cart, created, err := svc.Resolve(r.Context(), sessionToken(r), userID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	if created {
		setSessionCookie(w, cart.SessionToken, opts)
	}
	return cart, true
}

func CartFetch(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		view, err := svc.GetCart(r.Context(), cart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartAddItem(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartsvc.AddItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		view, err := svc.AddItem(r.Context(), cart, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body cartsvc.UpdateItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		view, err := svc.UpdateItemQuantity(r.Context(), cart, itemID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		view, err := svc.RemoveItem(r.Context(), cart, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the cart and answers 204.
func CartClear(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		if err := svc.Clear(r.Context(), cart); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func CartApplyDiscount(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartsvc.DiscountInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		view, err := svc.ApplyDiscount(r.Context(), cart, body.DiscountCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartShippingRates pushes the address to the linked checkout and assembles rates.
func CartShippingRates(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartsvc.ShippingAddressInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		rates, err := svc.ShippingRates(r.Context(), cart, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rates)
	}
}

func CartCheckoutURL(svc cartsvc.Service, logg *logger.Logger, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, ok := resolveCart(w, r, svc, logg, opts)
		if !ok {
			return
		}
		view, err := svc.CheckoutURL(r.Context(), cart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func itemIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return id, nil
}
