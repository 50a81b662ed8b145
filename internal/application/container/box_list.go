package container

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrPrintingDisabled is returned when no PDF renderer is configured
var ErrPrintingDisabled = shared.NewDomainError("PRINTING_DISABLED", "PDF rendering is not enabled on this server")

// BoxList is the printable inventory of one container
type BoxList struct {
	ReferenceCode string
	SeriesCode    string
	SeriesTitle   string
	CarrierType   string
	Barcode       string
	GeneratedAt   time.Time
	Entries       []BoxListEntry
}

// BoxListEntry is one folder or item line
type BoxListEntry struct {
	ReferenceCode string
	Level         findingaids.Level
	Title         string
	DateFrom      string
	DateTo        string
	Confidential  bool
}

// BoxListRenderer turns a box list into a PDF document
type BoxListRenderer interface {
	RenderBoxList(ctx context.Context, list *BoxList) ([]byte, error)
}

// FindingAidsLister lists the finding aids of a container
type FindingAidsLister interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]findingaids.FindingAidsEntity, error)
}

// BoxListService builds container box lists
type BoxListService struct {
	repo        container.Repository
	units       UnitFinder
	findingAids FindingAidsLister
	renderer    BoxListRenderer
	now         func() time.Time
}

// NewBoxListService creates a box list service. A nil renderer disables PDF output.
func NewBoxListService(repo container.Repository, units UnitFinder, findingAids FindingAidsLister, renderer BoxListRenderer) *BoxListService {
	return &BoxListService{repo: repo, units: units, findingAids: findingAids, renderer: renderer, now: time.Now}
}

// Build collects the box list of a container, folders and items in shelf order
func (s *BoxListService) Build(ctx context.Context, containerID uuid.UUID) (*BoxList, error) {
	c, err := s.repo.FindByID(ctx, containerID)
	if err != nil {
		return nil, err
	}
	unit, err := s.units.FindByID(ctx, c.ArchivalUnitID)
	if err != nil {
		return nil, err
	}

	filter := shared.Filter{Filters: map[string]any{"container_id": containerID}}
	entities, err := s.findingAids.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list finding aids: %w", err)
	}
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].FolderNo != entities[j].FolderNo {
			return entities[i].FolderNo < entities[j].FolderNo
		}
		return entities[i].SequenceNo < entities[j].SequenceNo
	})

	list := &BoxList{
		ReferenceCode: c.ReferenceCode,
		SeriesCode:    unit.ReferenceCode(),
		SeriesTitle:   unit.Title,
		CarrierType:   c.CarrierType,
		Barcode:       c.Barcode,
		GeneratedAt:   s.now(),
		Entries:       make([]BoxListEntry, len(entities)),
	}
	for i, e := range entities {
		list.Entries[i] = BoxListEntry{
			ReferenceCode: e.ReferenceCode,
			Level:         e.Level,
			Title:         e.Title,
			DateFrom:      e.DateFrom,
			DateTo:        e.DateTo,
			Confidential:  e.Confidential,
		}
	}
	return list, nil
}

// RenderPDF builds and renders the box list of a container
func (s *BoxListService) RenderPDF(ctx context.Context, containerID uuid.UUID) (*BoxList, []byte, error) {
	if s.renderer == nil {
		return nil, nil, ErrPrintingDisabled
	}
	list, err := s.Build(ctx, containerID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderer.RenderBoxList(ctx, list)
	if err != nil {
		return nil, nil, err
	}
	return list, pdf, nil
}
