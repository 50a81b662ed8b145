package catalogindex

import (
	"slices"
	"strings"

	"github.com/ams/backend/internal/domain/catalog"
)

// Field weights for relevance scoring
const (
	weightReference   = 5.0
	weightTitle       = 3.0
	weightDescription = 1.5
	weightBody        = 1.0
)

// analyzed holds the token counts of a document's searchable fields
type analyzed struct {
	reference   map[string]int
	title       map[string]int
	description map[string]int
	body        map[string]int
}

func countTokens(s string) map[string]int {
	counts := make(map[string]int)
	for _, t := range Tokenize(s) {
		counts[t]++
	}
	return counts
}

func analyze(doc *catalog.Document) analyzed {
	return analyzed{
		reference:   countTokens(doc.ReferenceCode),
		title:       countTokens(doc.Title),
		description: countTokens(doc.Description),
		body:        countTokens(doc.Body),
	}
}

// score returns the relevance of the document for the query terms, or
// false when a term is missing. Every term must occur in some field.
func (a analyzed) score(terms []string) (float64, bool) {
	if len(terms) == 0 {
		return 1, true
	}
	total := 0.0
	for _, term := range terms {
		s := weightReference*float64(a.reference[term]) +
			weightTitle*float64(a.title[term]) +
			weightDescription*float64(a.description[term]) +
			weightBody*float64(a.body[term])
		if s == 0 {
			return 0, false
		}
		total += s
	}
	return total, true
}

// matchesFilters checks type and facet restrictions
func matchesFilters(doc *catalog.Document, q catalog.Query) bool {
	if len(q.Types) > 0 && !slices.Contains(q.Types, doc.Type) {
		return false
	}
	for name, value := range q.Facets {
		if !doc.HasFacet(name, value) {
			return false
		}
	}
	return true
}

// rank sorts hits by score, then reference code, then id, and cuts the page
func rank(hits []catalog.Hit, q catalog.Query) *catalog.Result {
	slices.SortFunc(hits, func(a, b catalog.Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		if c := strings.Compare(a.Document.ReferenceCode, b.Document.ReferenceCode); c != 0 {
			return c
		}
		return strings.Compare(a.Document.ID.String(), b.Document.ID.String())
	})

	result := &catalog.Result{Total: len(hits), Hits: []catalog.Hit{}}
	if q.Offset >= len(hits) {
		return result
	}
	end := min(q.Offset+q.Limit, len(hits))
	result.Hits = hits[q.Offset:end]
	return result
}
