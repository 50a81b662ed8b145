// Package indexing keeps the public catalog in step with the archival
// database. Builders turn current database state into catalog documents,
// the IndexingHandler reacts to domain events from the outbox, and the
// reindex and search services serve operators and the public.
package indexing

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/catalog"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Facet values for the digital version facet
const (
	DigitalVersionOnline  = "online"
	DigitalVersionOnsite  = "onsite"
	DigitalVersionMissing = "none"
)

// Builder produces the catalog document of one record type. Build returns
// catalog.ErrNotIndexable or shared.ErrNotFound when the record must not be
// in the catalog.
type Builder interface {
	Type() catalog.DocumentType
	Build(ctx context.Context, id uuid.UUID) (*catalog.Document, error)
	// Candidates pages through the ids of records that may be indexable
	Candidates(ctx context.Context, page, pageSize int) ([]uuid.UUID, error)
}

// Builders holds one builder per document type
type Builders map[catalog.DocumentType]Builder

// NewBuilders indexes builders by their type
func NewBuilders(bs ...Builder) Builders {
	out := make(Builders, len(bs))
	for _, b := range bs {
		out[b.Type()] = b
	}
	return out
}

// Sources are the repositories the builders read from
type Sources struct {
	Isaar           authority.Repository
	Units           archivalunit.Repository
	Containers      container.Repository
	FindingAids     findingaids.Repository
	DigitalVersions digitization.Repository
}

// DefaultBuilders wires a builder for every document type
func DefaultBuilders(src Sources) Builders {
	return NewBuilders(
		NewIsaarBuilder(src.Isaar),
		NewArchivalUnitBuilder(src.Units, src.Isaar),
		NewFindingAidsBuilder(src.FindingAids, src.Units, src.Containers, src.DigitalVersions, src.Isaar),
	)
}

// IsaarBuilder builds authority record documents
type IsaarBuilder struct {
	repo authority.Repository
}

// NewIsaarBuilder creates an authority record builder
func NewIsaarBuilder(repo authority.Repository) *IsaarBuilder {
	return &IsaarBuilder{repo: repo}
}

// Type implements Builder
func (b *IsaarBuilder) Type() catalog.DocumentType { return catalog.DocumentTypeIsaar }

// Build implements Builder
func (b *IsaarBuilder) Build(ctx context.Context, id uuid.UUID) (*catalog.Document, error) {
	r, err := b.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Indexable() {
		return nil, catalog.ErrNotIndexable
	}
	doc := newDocument(catalog.DocumentTypeIsaar, r.ID)
	doc.Title = r.Name
	doc.Description = r.History
	doc.DateFrom = r.DateExistenceFrom
	doc.DateTo = r.DateExistenceTo
	doc.AddFacet(catalog.FacetEntityType, string(r.Type))
	doc.Body = body(r.ParallelNames, originalText(r))
	return doc, nil
}

// Candidates implements Builder
func (b *IsaarBuilder) Candidates(ctx context.Context, page, pageSize int) ([]uuid.UUID, error) {
	records, err := b.repo.FindAll(ctx, candidateFilter(page, pageSize, map[string]any{"status": string(authority.StatusFinal)}))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	return ids, nil
}

// ArchivalUnitBuilder builds fonds, subfonds and series documents
type ArchivalUnitBuilder struct {
	units    archivalunit.Repository
	creators authority.Repository
}

// NewArchivalUnitBuilder creates an archival unit builder
func NewArchivalUnitBuilder(units archivalunit.Repository, creators authority.Repository) *ArchivalUnitBuilder {
	return &ArchivalUnitBuilder{units: units, creators: creators}
}

// Type implements Builder
func (b *ArchivalUnitBuilder) Type() catalog.DocumentType { return catalog.DocumentTypeArchivalUnit }

// Build implements Builder
func (b *ArchivalUnitBuilder) Build(ctx context.Context, id uuid.UUID) (*catalog.Document, error) {
	u, err := b.units.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Indexable() {
		return nil, catalog.ErrNotIndexable
	}
	creators, err := creatorNames(ctx, b.creators, u.CreatorIDs)
	if err != nil {
		return nil, err
	}
	doc := newDocument(catalog.DocumentTypeArchivalUnit, u.ID)
	doc.ReferenceCode = u.ReferenceCode()
	doc.Title = u.Title
	doc.DateFrom = year(u.DateFrom)
	doc.DateTo = year(u.DateTo)
	doc.AddFacet(catalog.FacetLevel, string(u.Level))
	doc.AddFacet(catalog.FacetFonds, fondsCode(u.Fonds))
	doc.AddFacet(catalog.FacetCreator, creators...)
	doc.Body = body(creators, originalText(u))
	return doc, nil
}

// Candidates implements Builder
func (b *ArchivalUnitBuilder) Candidates(ctx context.Context, page, pageSize int) ([]uuid.UUID, error) {
	units, err := b.units.FindAll(ctx, candidateFilter(page, pageSize, map[string]any{"status": string(archivalunit.StatusFinal)}))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(units))
	for i := range units {
		ids[i] = units[i].ID
	}
	return ids, nil
}

// FindingAidsBuilder builds folder and item documents. The carrier type,
// the digital version facet and the creators come from the container, the
// digital versions and the series the record belongs to.
type FindingAidsBuilder struct {
	entities        findingaids.Repository
	units           archivalunit.Repository
	containers      container.Repository
	digitalVersions digitization.Repository
	creators        authority.Repository
}

// NewFindingAidsBuilder creates a finding aids builder
func NewFindingAidsBuilder(
	entities findingaids.Repository,
	units archivalunit.Repository,
	containers container.Repository,
	digitalVersions digitization.Repository,
	creators authority.Repository,
) *FindingAidsBuilder {
	return &FindingAidsBuilder{
		entities:        entities,
		units:           units,
		containers:      containers,
		digitalVersions: digitalVersions,
		creators:        creators,
	}
}

// Type implements Builder
func (b *FindingAidsBuilder) Type() catalog.DocumentType { return catalog.DocumentTypeFindingAids }

// Build implements Builder
func (b *FindingAidsBuilder) Build(ctx context.Context, id uuid.UUID) (*catalog.Document, error) {
	e, err := b.entities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.Indexable() {
		return nil, catalog.ErrNotIndexable
	}
	c, err := b.containers.FindByID(ctx, e.ContainerID)
	if err != nil {
		return nil, err
	}
	series, err := b.units.FindByID(ctx, e.ArchivalUnitID)
	if err != nil {
		return nil, err
	}
	creators, err := creatorNames(ctx, b.creators, series.CreatorIDs)
	if err != nil {
		return nil, err
	}
	digital, err := b.digitalVersionFacet(ctx, e)
	if err != nil {
		return nil, err
	}

	doc := newDocument(catalog.DocumentTypeFindingAids, e.ID)
	doc.ReferenceCode = e.ReferenceCode
	doc.Title = e.Title
	doc.Description = e.ContentsSummary
	doc.DateFrom = e.DateFrom
	doc.DateTo = e.DateTo
	doc.AddFacet(catalog.FacetLevel, string(e.Level))
	doc.AddFacet(catalog.FacetLanguage, e.Languages...)
	doc.AddFacet(catalog.FacetCarrierType, c.CarrierType)
	doc.AddFacet(catalog.FacetDigitalVersion, digital)
	doc.AddFacet(catalog.FacetFonds, fondsCode(series.Fonds))
	doc.AddFacet(catalog.FacetCreator, creators...)
	doc.Body = body([]string{series.Title}, creators, originalText(e))
	return doc, nil
}

// digitalVersionFacet is online when the record or its container can be
// viewed online, onsite when a digital version exists but only in the
// reading room, and none otherwise
func (b *FindingAidsBuilder) digitalVersionFacet(ctx context.Context, e *findingaids.FindingAidsEntity) (string, error) {
	for _, onlineOnly := range []bool{true, false} {
		own, err := b.digitalVersions.ExistsForFindingAids(ctx, e.ID, onlineOnly)
		if err != nil {
			return "", err
		}
		box, err := b.digitalVersions.ExistsForContainer(ctx, e.ContainerID, onlineOnly)
		if err != nil {
			return "", err
		}
		if own || box {
			if onlineOnly {
				return DigitalVersionOnline, nil
			}
			return DigitalVersionOnsite, nil
		}
	}
	return DigitalVersionMissing, nil
}

// Candidates implements Builder
func (b *FindingAidsBuilder) Candidates(ctx context.Context, page, pageSize int) ([]uuid.UUID, error) {
	entities, err := b.entities.FindAll(ctx, candidateFilter(page, pageSize, map[string]any{
		"published":    true,
		"confidential": false,
	}))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(entities))
	for i := range entities {
		ids[i] = entities[i].ID
	}
	return ids, nil
}

func newDocument(t catalog.DocumentType, id uuid.UUID) *catalog.Document {
	return &catalog.Document{ID: id, Type: t, IndexedAt: time.Now().UTC()}
}

func candidateFilter(page, pageSize int, filters map[string]any) shared.Filter {
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "asc",
		Filters:  filters,
	}
}

// creatorNames resolves creator ids to authority names, keeping only final
// records so draft names never leak into the catalog
func creatorNames(ctx context.Context, repo authority.Repository, ids []uuid.UUID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	records, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		if r.Indexable() {
			names = append(names, r.Name)
		}
	}
	return names, nil
}

// originalText returns the populated original-language values in a stable order
func originalText(src shared.OriginSource) []string {
	fields := shared.OriginalText(src.OriginalValues())
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fields[k]
	}
	return out
}

func body(parts ...[]string) string {
	var all []string
	for _, p := range parts {
		for _, s := range p {
			if s = strings.TrimSpace(s); s != "" {
				all = append(all, s)
			}
		}
	}
	return strings.Join(all, "\n")
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func fondsCode(fonds int) string {
	return archivalunit.ReferenceCode(archivalunit.LevelFonds, fonds, 0, 0)
}
