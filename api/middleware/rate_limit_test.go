package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitBlocksAfterBurstPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(2)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	handler := RateLimit(limiter, nil)(okHandler())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if send("10.0.0.1") != http.StatusOK || send("10.0.0.1") != http.StatusOK {
		t.Fatalf("expected burst of two to pass")
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("expected other IP to pass, got %d", code)
	}

	now = now.Add(30 * time.Second)
	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected refill after 30s, got %d", code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	if NewIPRateLimiter(0) != nil {
		t.Fatalf("expected nil limiter for zero rate")
	}
	handler := RateLimit(nil, nil)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
