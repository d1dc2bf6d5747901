package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
	// MaxPage keeps (page-1)*pageSize within int.
	MaxPage = math.MaxInt / MaxPageSize
)

// Params holds 1-indexed page inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Meta is returned alongside every paged list.
type Meta struct {
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// Page wraps list items with their meta block.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// Normalize enforces a page in [1, MaxPage] and a bounded page size.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	p.PageSize = NormalizePageSize(p.PageSize)
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ParseParams reads page and pageSize (or limit) query values. Malformed
// numbers fall back to defaults.
func ParseParams(page, pageSize, limit string) Params {
	p := Params{Page: atoi(page), PageSize: atoi(pageSize)}
	if p.PageSize == 0 {
		p.PageSize = atoi(limit)
	}
	return p.Normalize()
}

// NewMeta computes the meta block for a total row count.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(n.PageSize)))
	}
	return Meta{
		TotalCount: total,
		Page:       n.Page,
		PageSize:   n.PageSize,
		TotalPages: pages,
	}
}

// NewPage builds a Page, never returning a nil item slice.
func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: NewMeta(p, total)}
}

func atoi(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
