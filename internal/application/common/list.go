// Package common holds request and response shapes shared by the archival
// application services.
package common

import (
	"strings"

	"github.com/ams/backend/internal/domain/shared"
)

// Page size limits for list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListParams are the query parameters every list endpoint accepts
type ListParams struct {
	Search    string `form:"search" binding:"max=200"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by" binding:"max=50"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Filter converts the parameters into a repository filter
func (p ListParams) Filter() shared.Filter {
	f := shared.Filter{
		Page:     p.Page,
		PageSize: p.PageSize,
		OrderBy:  strings.TrimSpace(p.SortBy),
		OrderDir: p.SortOrder,
		Search:   strings.TrimSpace(p.Search),
		Filters:  make(map[string]any),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.OrderDir == "" {
		f.OrderDir = "asc"
	}
	return f
}

// ListResult is a page of read DTOs
type ListResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// NewListResult maps a page of records with fn
func NewListResult[E, T any](records []E, total int64, f shared.Filter, fn func(*E) T) ListResult[T] {
	items := make([]T, len(records))
	for i := range records {
		items[i] = fn(&records[i])
	}
	return ListResult[T]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}
}
