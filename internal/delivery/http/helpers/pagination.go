package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"gamecatalog/internal/domain"
)

// MaxPageSize caps the size query parameter.
const MaxPageSize = 100

// ParsePagination reads the 0-based page and the size query parameters, falling back to
// defaultSize when size is absent. Non-numeric values, a negative page or a non-positive
// size are rejected; size is clamped to MaxPageSize.
func ParsePagination(r *http.Request, defaultSize int) (domain.PaginationParams, error) {
	q := r.URL.Query()
	p := domain.PaginationParams{Page: 0, PageSize: defaultSize}
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return p, domain.NewInvalidArgument("page", fmt.Sprintf("%q is not a number", s))
		}
		p.Page = v
	}
	if s := q.Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return p, domain.NewInvalidArgument("size", fmt.Sprintf("%q is not a number", s))
		}
		p.PageSize = v
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p, nil
}

// PathID parses the named path value as a positive int64 id.
func PathID(r *http.Request, name string) (int64, error) {
	s := r.PathValue(name)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewInvalidArgument(name, fmt.Sprintf("%q is not a valid id", s))
	}
	return id, nil
}

// OptionalQueryID parses the named query parameter as an int64 id; absent means nil.
func OptionalQueryID(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, domain.NewInvalidArgument(name, fmt.Sprintf("%q is not a valid id", s))
	}
	return &id, nil
}
