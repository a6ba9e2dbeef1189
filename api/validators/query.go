package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
)

// MaxSkip bounds offset pagination so a crafted skip cannot force a full scan.
const MaxSkip = 1_000_000

// Page is an offset window parsed from skip/limit query parameters.
type Page struct {
	Skip  int
	Limit int
}

// ParseQueryInt reads key as an integer in [min, max], returning defaultVal
// when it is absent.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "must be an integer")
	}
	if value < min || value > max {
		return 0, queryError(key, "must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return value, nil
}

// ParsePage reads skip and limit. limit defaults to defaultLimit and may not
// exceed maxLimit.
func ParsePage(r *http.Request, defaultLimit, maxLimit int) (Page, error) {
	skip, err := ParseQueryInt(r, "skip", 0, 0, MaxSkip)
	if err != nil {
		return Page{}, err
	}
	limit, err := ParseQueryInt(r, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		return Page{}, err
	}
	return Page{Skip: skip, Limit: limit}, nil
}

// ParseQueryBool returns nil when key is absent so callers can tell "unset"
// apart from false.
func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, queryError(key, "must be true or false")
	}
	return &value, nil
}

// ParseQueryString returns the sanitized value of key capped at maxLen bytes.
func ParseQueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

func queryError(key, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
		WithDetails(map[string]string{key: msg})
}
