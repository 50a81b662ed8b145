package findingaids

import (
	"fmt"
	"strings"
	"time"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeFindingAids identifies finding aids in events and outbox rows
const AggregateTypeFindingAids = "FindingAidsEntity"

// Level is the descriptive level of an entity
type Level string

const (
	LevelFolder Level = "F"
	LevelItem   Level = "I"
)

// FindingAidsEntity describes a folder or an item inside a container
type FindingAidsEntity struct {
	shared.BaseAggregateRoot
	ArchivalUnitID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ContainerID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_finding_aids_position,priority:1"`
	FolderNo                int       `gorm:"not null;uniqueIndex:idx_finding_aids_position,priority:2"`
	SequenceNo              int       `gorm:"not null;default:0;uniqueIndex:idx_finding_aids_position,priority:3"`
	Level                   Level     `gorm:"type:varchar(1);not null"`
	ReferenceCode           string    `gorm:"type:varchar(120);not null;index"`
	Title                   string    `gorm:"type:varchar(500);not null"`
	TitleOriginal           string    `gorm:"type:varchar(500)"`
	TitleGiven              bool      `gorm:"not null;default:false"`
	OriginalLocale          string    `gorm:"type:varchar(10)"`
	DateFrom                string    `gorm:"type:varchar(10)"`
	DateTo                  string    `gorm:"type:varchar(10)"`
	ContentsSummary         string    `gorm:"type:text"`
	ContentsSummaryOriginal string    `gorm:"type:text"`
	Languages               []string  `gorm:"serializer:json"`
	Confidential            bool      `gorm:"not null;default:false"`
	Published               bool      `gorm:"not null;default:false;index"`
	PublishedAt             *time.Time
}

// TableName returns the table name for GORM
func (FindingAidsEntity) TableName() string {
	return "finding_aids_entities"
}

// Placement locates an entity in its series and container
type Placement struct {
	ArchivalUnitID         uuid.UUID
	ContainerID            uuid.UUID
	ContainerReferenceCode string
	FolderNo               int
	SequenceNo             int
}

// Description holds the editable descriptive fields
type Description struct {
	Title                   string
	TitleOriginal           string
	TitleGiven              bool
	OriginalLocale          string
	DateFrom                string
	DateTo                  string
	ContentsSummary         string
	ContentsSummaryOriginal string
	Languages               []string
}

// NewFolder creates a folder-level description
func NewFolder(p Placement, d Description) (*FindingAidsEntity, error) {
	p.SequenceNo = 0
	return newEntity(LevelFolder, p, d)
}

// NewItem creates an item-level description inside a folder
func NewItem(p Placement, d Description) (*FindingAidsEntity, error) {
	if p.SequenceNo < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Item sequence number must be positive")
	}
	return newEntity(LevelItem, p, d)
}

func newEntity(level Level, p Placement, d Description) (*FindingAidsEntity, error) {
	if p.ArchivalUnitID == uuid.Nil || p.ContainerID == uuid.Nil || p.ContainerReferenceCode == "" {
		return nil, shared.NewDomainError("INVALID_PLACEMENT", "Finding aids must belong to a series and a container")
	}
	if p.FolderNo < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Folder number must be positive")
	}
	e := &FindingAidsEntity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ArchivalUnitID:    p.ArchivalUnitID,
		ContainerID:       p.ContainerID,
		FolderNo:          p.FolderNo,
		SequenceNo:        p.SequenceNo,
		Level:             level,
		ReferenceCode:     ReferenceCode(p.ContainerReferenceCode, p.FolderNo, p.SequenceNo),
	}
	if err := e.apply(d); err != nil {
		return nil, err
	}
	e.AddDomainEvent(NewFindingAidsCreatedEvent(e))
	return e, nil
}

// Update replaces the descriptive fields
func (e *FindingAidsEntity) Update(d Description) error {
	if err := e.apply(d); err != nil {
		return err
	}
	e.IncrementVersion()
	e.AddDomainEvent(NewFindingAidsUpdatedEvent(e))
	return nil
}

// Publish makes the description visible in the public catalog
func (e *FindingAidsEntity) Publish() error {
	if e.Published {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Finding aids record is already published")
	}
	now := time.Now()
	e.Published = true
	e.PublishedAt = &now
	e.IncrementVersion()
	e.AddDomainEvent(NewFindingAidsPublishedEvent(e))
	return nil
}

// Unpublish withdraws the description from the public catalog
func (e *FindingAidsEntity) Unpublish() error {
	if !e.Published {
		return shared.NewDomainError("NOT_PUBLISHED", "Finding aids record is not published")
	}
	e.Published = false
	e.PublishedAt = nil
	e.IncrementVersion()
	e.AddDomainEvent(NewFindingAidsUnpublishedEvent(e))
	return nil
}

// SetConfidential toggles the confidential flag. Confidential records are
// never indexed, even when published.
func (e *FindingAidsEntity) SetConfidential(confidential bool) {
	if e.Confidential == confidential {
		return
	}
	e.Confidential = confidential
	e.IncrementVersion()
	e.AddDomainEvent(NewFindingAidsUpdatedEvent(e))
}

// MarkDeleted records the deletion so the catalog entry is removed
func (e *FindingAidsEntity) MarkDeleted() {
	e.AddDomainEvent(NewFindingAidsDeletedEvent(e))
}

// Indexable reports whether the record belongs in the public catalog
func (e *FindingAidsEntity) Indexable() bool {
	return e.Published && !e.Confidential
}

// OriginalLocaleCode implements shared.OriginSource
func (e *FindingAidsEntity) OriginalLocaleCode() string {
	return e.OriginalLocale
}

// OriginalValues implements shared.OriginSource
func (e *FindingAidsEntity) OriginalValues() map[string]string {
	return map[string]string{
		"title":            e.TitleOriginal,
		"contents_summary": e.ContentsSummaryOriginal,
	}
}

// ReferenceCode formats a finding aids reference code: <container>/<folder>
// for folders and <container>/<folder>-<sequence> for items
func ReferenceCode(containerRef string, folderNo, sequenceNo int) string {
	if sequenceNo > 0 {
		return fmt.Sprintf("%s/%d-%d", containerRef, folderNo, sequenceNo)
	}
	return fmt.Sprintf("%s/%d", containerRef, folderNo)
}

func (e *FindingAidsEntity) apply(d Description) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 500 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 500 characters")
	}
	if err := shared.ValidateDateRange(d.DateFrom, d.DateTo); err != nil {
		return err
	}
	e.Title = title
	e.TitleOriginal = strings.TrimSpace(d.TitleOriginal)
	e.TitleGiven = d.TitleGiven
	e.OriginalLocale = d.OriginalLocale
	e.DateFrom = d.DateFrom
	e.DateTo = d.DateTo
	e.ContentsSummary = d.ContentsSummary
	e.ContentsSummaryOriginal = d.ContentsSummaryOriginal
	e.Languages = normalizeLanguages(d.Languages)
	return nil
}

func normalizeLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	seen := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
