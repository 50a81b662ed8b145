package indexing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ams/backend/internal/domain/catalog"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ResultCache holds recent search responses
type ResultCache interface {
	Get(key string) (*SearchResponse, bool)
	Set(key string, v *SearchResponse)
	Flush()
}

// FacetNames lists the facets a search may filter on
var FacetNames = []string{
	catalog.FacetLevel,
	catalog.FacetLanguage,
	catalog.FacetCreator,
	catalog.FacetEntityType,
	catalog.FacetCarrierType,
	catalog.FacetDigitalVersion,
	catalog.FacetFonds,
}

// ErrInvalidType is returned for an unknown catalog document type
var ErrInvalidType = shared.NewDomainError("INVALID_TYPE", "Unknown catalog document type")

// SearchService answers public catalog queries
type SearchService struct {
	index catalog.Index
	cache ResultCache
}

// NewSearchService creates a search service. cache may be nil.
func NewSearchService(index catalog.Index, cache ResultCache) *SearchService {
	return &SearchService{index: index, cache: cache}
}

// Search runs a full-text and facet query
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "SearchService", "Search")
	defer span.End()

	types, err := ParseTypes(req.Types)
	if err != nil {
		return nil, err
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	q := catalog.Query{
		Text:   strings.TrimSpace(req.Q),
		Types:  types,
		Facets: cleanFacets(req.Facets),
		Limit:  req.PageSize,
	}.Normalize()
	q.Offset = (page - 1) * q.Limit

	key := cacheKey(q)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			telemetry.SetAttribute(span, "catalog.cache_hit", true)
			return cached, nil
		}
	}

	start := time.Now()
	result, err := s.index.Search(ctx, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	telemetry.SetAttributes(span, "catalog.total", result.Total, "catalog.duration_ms", time.Since(start).Milliseconds())

	resp := ToSearchResponse(result, page, q.Limit)
	if s.cache != nil {
		s.cache.Set(key, resp)
	}
	telemetry.SetOK(span)
	return resp, nil
}

// Document returns one catalog document
func (s *SearchService) Document(ctx context.Context, docType string, id uuid.UUID) (*catalog.Document, error) {
	t, err := catalog.ParseDocumentType(docType)
	if err != nil {
		return nil, ErrInvalidType
	}
	return s.index.Get(ctx, t, id)
}

// Stats counts the indexed documents per type
func (s *SearchService) Stats(ctx context.Context) (*IndexStatsResponse, error) {
	out := &IndexStatsResponse{Documents: make(map[catalog.DocumentType]int64, len(catalog.AllDocumentTypes))}
	for _, t := range catalog.AllDocumentTypes {
		n, err := s.index.Count(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out.Documents[t] = n
	}
	return out, nil
}

// Invalidate drops cached search results
func (s *SearchService) Invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

// ParseTypes converts type names, ignoring blanks
func ParseTypes(names []string) ([]catalog.DocumentType, error) {
	var out []catalog.DocumentType
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, err := catalog.ParseDocumentType(part)
			if err != nil {
				return nil, ErrInvalidType
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func cleanFacets(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for _, name := range FacetNames {
		if v := strings.TrimSpace(in[name]); v != "" {
			out[name] = v
		}
	}
	return out
}

func cacheKey(q catalog.Query) string {
	types := make([]string, len(q.Types))
	for i, t := range q.Types {
		types[i] = string(t)
	}
	sort.Strings(types)
	facets := make([]string, 0, len(q.Facets))
	for k, v := range q.Facets {
		facets = append(facets, k+"="+strings.ToLower(v))
	}
	sort.Strings(facets)
	return fmt.Sprintf("%s|%s|%s|%d|%d",
		strings.ToLower(q.Text), strings.Join(types, ","), strings.Join(facets, "&"), q.Offset, q.Limit)
}
