package cart

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookie names the anonymous cart session cookie.
	SessionCookie = "cart_session_id"
	cookieMaxAge  = 30 * 24 * time.Hour
)

// CookieOptions controls how the session cookie is issued.
type CookieOptions struct {
	Secure bool
}

func sessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func setSessionCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
