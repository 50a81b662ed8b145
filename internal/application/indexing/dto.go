package indexing

import (
	"time"

	"github.com/ams/backend/internal/domain/catalog"
)

// SearchRequest is a public catalog query
type SearchRequest struct {
	Q        string            `form:"q" json:"q"`
	Types    []string          `form:"type" json:"types,omitempty"`
	Facets   map[string]string `form:"-" json:"facets,omitempty"`
	Page     int               `form:"page" json:"page" binding:"omitempty,min=1"`
	PageSize int               `form:"page_size" json:"page_size" binding:"omitempty,min=1,max=100"`
}

// SearchHit is one matching document
type SearchHit struct {
	*catalog.Document
	Score float64 `json:"score"`
}

// SearchResponse is a page of search hits
type SearchResponse struct {
	Hits     []SearchHit `json:"hits"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ReindexRequest selects the types to rebuild; empty means all
type ReindexRequest struct {
	Types []string `json:"types"`
}

// ReindexResponse lists per-type reports
type ReindexResponse struct {
	Reports []ReindexReport `json:"reports"`
	Elapsed time.Duration   `json:"elapsed"`
}

// IndexStatsResponse counts the documents per type
type IndexStatsResponse struct {
	Documents map[catalog.DocumentType]int64 `json:"documents"`
}

// ToSearchResponse converts an index result into a page of hits
func ToSearchResponse(r *catalog.Result, page, pageSize int) *SearchResponse {
	hits := make([]SearchHit, len(r.Hits))
	for i, h := range r.Hits {
		hits[i] = SearchHit{Document: h.Document, Score: h.Score}
	}
	return &SearchResponse{Hits: hits, Total: r.Total, Page: page, PageSize: pageSize}
}
