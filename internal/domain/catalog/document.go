package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentType is the kind of archival record a catalog document describes
type DocumentType string

const (
	DocumentTypeIsaar        DocumentType = "isaar"
	DocumentTypeArchivalUnit DocumentType = "archival_unit"
	DocumentTypeFindingAids  DocumentType = "finding_aids"
)

// AllDocumentTypes lists every indexed type in rebuild order
var AllDocumentTypes = []DocumentType{
	DocumentTypeIsaar,
	DocumentTypeArchivalUnit,
	DocumentTypeFindingAids,
}

// IsValid reports whether t is an indexed type
func (t DocumentType) IsValid() bool {
	for _, known := range AllDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseDocumentType converts a string into a DocumentType
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown catalog document type %q", s)
	}
	return t, nil
}

// Facet names
const (
	FacetLevel          = "level"
	FacetLanguage       = "language"
	FacetCreator        = "creator"
	FacetEntityType     = "entity_type"
	FacetCarrierType    = "carrier_type"
	FacetDigitalVersion = "digital_version"
	FacetFonds          = "fonds"
)

// Document is the public, read-optimized representation of an archival record
type Document struct {
	ID            uuid.UUID           `json:"id"`
	Type          DocumentType        `json:"type"`
	ReferenceCode string              `json:"reference_code,omitempty"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	DateFrom      string              `json:"date_from,omitempty"`
	DateTo        string              `json:"date_to,omitempty"`
	Facets        map[string][]string `json:"facets,omitempty"`
	Body          string              `json:"body,omitempty"`
	IndexedAt     time.Time           `json:"indexed_at"`
}

// Key returns the document key, unique across types
func (d *Document) Key() string {
	return DocumentKey(d.Type, d.ID)
}

// DocumentKey formats the key for a document of type t with id
func DocumentKey(t DocumentType, id uuid.UUID) string {
	return string(t) + ":" + id.String()
}

// AddFacet appends non-empty values to a facet
func (d *Document) AddFacet(name string, values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if d.Facets == nil {
			d.Facets = make(map[string][]string)
		}
		d.Facets[name] = append(d.Facets[name], v)
	}
}

// HasFacet reports whether the document carries value under the facet
func (d *Document) HasFacet(name, value string) bool {
	for _, v := range d.Facets[name] {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// SearchableText returns everything the full-text index covers
func (d *Document) SearchableText() string {
	return strings.Join([]string{d.ReferenceCode, d.Title, d.Description, d.Body}, " ")
}

// Query is a catalog search request
type Query struct {
	Text   string
	Types  []DocumentType
	Facets map[string]string
	Offset int
	Limit  int
}

// Normalize applies default and maximum limits
func (q Query) Normalize() Query {
	if q.Offset < 0 {
		q.Offset = 0
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultSearchLimit
	case q.Limit > MaxSearchLimit:
		q.Limit = MaxSearchLimit
	}
	return q
}

// Search limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Hit is a matched document with its relevance score
type Hit struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
}

// Result is a page of search hits
type Result struct {
	Hits  []Hit `json:"hits"`
	Total int   `json:"total"`
}
