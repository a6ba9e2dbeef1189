package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chylers/storefront-api/api/middleware"
	cartsvc "github.com/chylers/storefront-api/internal/cart"
	"github.com/chylers/storefront-api/pkg/db/models"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
)

type stubCartService struct {
	cartsvc.Service
	cart        *models.CartSession
	created     bool
	gotToken    string
	gotUser     *uuid.UUID
	gotQuantity int
	gotItemID   uuid.UUID
	err         error
	cleared     bool
}

func (s *stubCartService) Resolve(_ context.Context, token string, userID *uuid.UUID) (*models.CartSession, bool, error) {
	s.gotToken = token
	s.gotUser = userID
	return s.cart, s.created, nil
}

func (s *stubCartService) GetCart(_ context.Context, cart *models.CartSession) (*cartsvc.View, error) {
	return &cartsvc.View{ID: cart.ID, SessionID: cart.SessionToken, Subtotal: decimal.NewFromInt(20)}, nil
}

func (s *stubCartService) UpdateItemQuantity(_ context.Context, cart *models.CartSession, itemID uuid.UUID, quantity int) (*cartsvc.View, error) {
	s.gotItemID = itemID
	s.gotQuantity = quantity
	return &cartsvc.View{ID: cart.ID}, nil
}

func (s *stubCartService) Clear(context.Context, *models.CartSession) error {
	s.cleared = true
	return nil
}

func (s *stubCartService) ApplyDiscount(context.Context, *models.CartSession, string) (*cartsvc.View, error) {
	return nil, s.err
}

func newStub(created bool) *stubCartService {
	return &stubCartService{
		cart:    &models.CartSession{ID: uuid.New(), SessionToken: uuid.NewString()},
		created: created,
	}
}

func TestGetIssuesCookieForNewSession(t *testing.T) {
	stub := newStub(true)

	resp := httptest.NewRecorder()
	CartFetch(stub, nil, CookieOptions{Secure: true}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookie || c.Value != stub.cart.SessionToken {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.MaxAge != 2592000 || c.Path != "/" {
		t.Fatalf("unexpected cookie attributes %+v", c)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.SessionID != stub.cart.SessionToken {
		t.Fatalf("unexpected session id %q", envelope.Data.SessionID)
	}
}

func TestGetReusesCookieAndAttachesUser(t *testing.T) {
	stub := newStub(false)
	token := uuid.NewString()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	CartFetch(stub, nil, CookieOptions{}).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie for existing session")
	}
	if stub.gotToken != token {
		t.Fatalf("expected token %s got %s", token, stub.gotToken)
	}
	if stub.gotUser == nil || *stub.gotUser != userID {
		t.Fatalf("expected user %s got %v", userID, stub.gotUser)
	}
}

func TestMalformedCookieIsIgnored(t *testing.T) {
	stub := newStub(true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	CartFetch(stub, nil, CookieOptions{}).ServeHTTP(httptest.NewRecorder(), req)

	if stub.gotToken != "" {
		t.Fatalf("expected malformed cookie to be dropped, got %q", stub.gotToken)
	}
}

func TestUpdateItemPassesZeroQuantity(t *testing.T) {
	stub := newStub(false)
	itemID := uuid.New()

	r := chi.NewRouter()
	r.Put("/api/v1/cart/items/{itemId}", CartUpdateItem(stub, nil, CookieOptions{}))
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+itemID.String(), strings.NewReader(`{"quantity":0}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotItemID != itemID || stub.gotQuantity != 0 {
		t.Fatalf("unexpected call item=%s qty=%d", stub.gotItemID, stub.gotQuantity)
	}
}

func TestUpdateItemRejectsBadID(t *testing.T) {

	r := chi.NewRouter()
	r.Put("/api/v1/cart/items/{itemId}", CartUpdateItem(newStub(false), nil, CookieOptions{}))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/abc", strings.NewReader(`{"quantity":1}`)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddItemValidatesBeforeResolving(t *testing.T) {
	stub := newStub(true)

	resp := httptest.NewRecorder()
	CartAddItem(stub, nil, CookieOptions{}).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"variant_id":7,"quantity":0}`)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatalf("rejected request should not issue a session")
	}
}

func TestClearReturnsNoContent(t *testing.T) {
	stub := newStub(false)

	resp := httptest.NewRecorder()
	CartClear(stub, nil, CookieOptions{}).ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))

	if resp.Code != http.StatusNoContent || !stub.cleared {
		t.Fatalf("expected 204 and clear, got %d cleared=%v", resp.Code, stub.cleared)
	}
}

func TestApplyDiscountWithoutCheckout(t *testing.T) {
	stub := newStub(false)
	stub.err = pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no checkout")

	resp := httptest.NewRecorder()
	CartApplyDiscount(stub, nil, CookieOptions{}).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cart/discount", strings.NewReader(`{"discount_code":"ALOHA10"}`)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeEmptyCart) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
}

func TestCartFactoriesRejectMissingService(t *testing.T) {
	factories := map[string]http.HandlerFunc{
		"fetch":    CartFetch(nil, nil, CookieOptions{}),
		"clear":    CartClear(nil, nil, CookieOptions{}),
		"checkout": CartCheckoutURL(nil, nil, CookieOptions{}),
	}
	for name, handler := range factories {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500 got %d", name, resp.Code)
		}
		if len(resp.Result().Cookies()) != 0 {
			t.Fatalf("%s: no cookie should be issued without a service", name)
		}
	}
}
