package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/pagination"
)

const maxSearchLength = 200

// PageParams reads page, pageSize and its limit alias.
func PageParams(r *http.Request) pagination.Params {
	q := r.URL.Query()
	return pagination.ParseParams(q.Get("page"), q.Get("pageSize"), q.Get("limit"))
}

// SearchParam returns the trimmed, length-bounded search term.
func SearchParam(r *http.Request) string {
	return SanitizeString(r.URL.Query().Get("search"), maxSearchLength)
}

// ParseQueryUint reads an optional positive integer query parameter.
func ParseQueryUint(r *http.Request, key string) (*uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	id := uint(value)
	return &id, nil
}

// PathID parses a positive integer chi URL parameter.
func PathID(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key).WithDetails(map[string]any{"field": key})
	}
	return uint(value), nil
}
