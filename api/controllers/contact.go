package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chylers/storefront-api/api/middleware"
	"github.com/chylers/storefront-api/api/responses"
	"github.com/chylers/storefront-api/api/validators"
	"github.com/chylers/storefront-api/internal/contact"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
)

const maxInquiryLimit = 100

// ContactSubmit stores a public contact form submission.
func ContactSubmit(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}
		var body contact.CreateInquiryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inquiry, err := svc.Submit(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, inquiry)
	}
}

func ContactList(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}
		page, err := validators.ParsePage(r, maxInquiryLimit, maxInquiryLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resolved, err := validators.ParseQueryBool(r, "is_resolved")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inquiries, err := svc.List(r.Context(), contact.ListParams{Skip: page.Skip, Limit: page.Limit, IsResolved: resolved})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inquiries)
	}
}

// ContactUpdate lets an admin resolve or annotate an inquiry.
func ContactUpdate(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "inquiryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inquiry id"))
			return
		}
		var body contact.UpdateInquiryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inquiry, err := svc.Update(r.Context(), id, middleware.EmailFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inquiry)
	}
}
