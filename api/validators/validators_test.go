package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
)

type signupBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","password":"longenough","extra":1}`))
	var body signupBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","password":"short"}`))
	var body signupBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" || details["password"] != "must be at least 8 characters" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?is_active=false&bad=maybe", nil)

	got, err := ParseQueryBool(req, "is_active")
	if err != nil || got == nil || *got {
		t.Fatalf("expected false pointer, got %v %v", got, err)
	}
	if got, err := ParseQueryBool(req, "missing"); err != nil || got != nil {
		t.Fatalf("expected nil for missing key, got %v %v", got, err)
	}
	if _, err := ParseQueryBool(req, "bad"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=300", nil)
	if _, err := ParseQueryInt(req, "limit", 50, 1, 250); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
	got, err := ParseQueryInt(httptest.NewRequest(http.MethodGet, "/", nil), "limit", 50, 1, 250)
	if err != nil || got != 50 {
		t.Fatalf("expected default 50, got %d %v", got, err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc.def": true,
		"bearer abc.def": true,
		"abc.def":        true,
		"":               false,
		"Bearer ":        false,
		"Bearer":         false,
		"  Bearer  \t":   false,
		"Bearer  abc":    true,
		"Bearer a b":     false,
	}
	for header, ok := range cases {
		_, err := BearerToken(header)
		if (err == nil) != ok {
			t.Fatalf("BearerToken(%q) err=%v", header, err)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"  original  ", 0, "original"},
		{"li\x00hing\tmui", 0, "lihingmui"},
		{"teriyaki", 4, "teri"},
		// ʻ is two bytes; a cut inside it backs off to the previous rune.
		{"aʻokina", 2, "a"},
		{"aʻokina", 3, "aʻ"},
		{"aʻokina", 4, "aʻo"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in, tc.maxLen); got != tc.want {
			t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

type inquiryBody struct {
	Name  string  `json:"name" validate:"required,max=5"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=20,phone"`
	Count int     `json:"count"`
}

func TestDecodeJSONBodyErrors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
		field   string
	}{
		{name: "empty", body: "", message: "request body is required"},
		{name: "malformed", body: `{"name":`, message: "invalid request body"},
		{name: "trailing object", body: `{"name":"a"}{"name":"b"}`, message: "request body must contain a single JSON object"},
		{name: "unknown field", body: `{"name":"a","extra":1}`, message: "invalid request body", field: "extra"},
		{name: "wrong type", body: `{"name":"a","count":"x"}`, message: "invalid request body", field: "count"},
		{name: "bad phone", body: `{"name":"a","phone":"call me"}`, message: "validation failed", field: "phone"},
		{name: "string max", body: `{"name":"abcdefg"}`, message: "validation failed", field: "name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var body inquiryBody
			err := DecodeJSONBody(req, &body)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tc.name == "malformed" {
				return
			}
			if typed.Message() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, typed.Message())
			}
			if tc.field != "" {
				details, ok := typed.Details().(map[string]string)
				if !ok || details[tc.field] == "" {
					t.Fatalf("expected detail for %s, got %#v", tc.field, typed.Details())
				}
			}
		})
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	payload := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	var body inquiryBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "request body too large" {
		t.Fatalf("expected too large error, got %v", err)
	}
}

func TestDecodeJSONBodyAcceptsPhone(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Kai","phone":"+1 (808) 555-0100"}`))
	var body inquiryBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if body.Phone == nil || *body.Phone != "+1 (808) 555-0100" {
		t.Fatalf("unexpected phone %v", body.Phone)
	}
}

func TestParsePage(t *testing.T) {
	page, err := ParsePage(httptest.NewRequest(http.MethodGet, "/?skip=20&limit=10", nil), 50, 100)
	if err != nil || page != (Page{Skip: 20, Limit: 10}) {
		t.Fatalf("unexpected page %+v %v", page, err)
	}

	page, err = ParsePage(httptest.NewRequest(http.MethodGet, "/", nil), 50, 100)
	if err != nil || page != (Page{Skip: 0, Limit: 50}) {
		t.Fatalf("expected defaults, got %+v %v", page, err)
	}

	_, err = ParsePage(httptest.NewRequest(http.MethodGet, "/?skip=-1", nil), 50, 100)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
	if details, ok := typed.Details().(map[string]string); !ok || details["skip"] == "" {
		t.Fatalf("expected skip detail, got %#v", typed.Details())
	}
}
