package api

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParseLimit reads the limit query parameter. Missing means defaultLimit,
// values above maxLimit are clamped, anything else that is not a positive
// integer is rejected.
func ParseLimit(r *http.Request, defaultLimit, maxLimit int) (int, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	l := r.URL.Query().Get("limit")
	if l == "" {
		return defaultLimit, nil
	}
	parsed, err := strconv.Atoi(l)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid limit: %q", l)
	}
	if parsed > maxLimit {
		parsed = maxLimit
	}
	return parsed, nil
}
