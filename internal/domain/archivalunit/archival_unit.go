package archivalunit

import (
	"fmt"
	"strings"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeArchivalUnit identifies archival units in events and outbox rows
const AggregateTypeArchivalUnit = "ArchivalUnit"

// ReferencePrefix is the repository code that starts every reference code
const ReferencePrefix = "HU OSA"

// Level is the position of a unit in the fonds hierarchy
type Level string

const (
	LevelFonds    Level = "F"
	LevelSubfonds Level = "SF"
	LevelSeries   Level = "S"
)

// Status is the editorial status of a unit description
type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// ArchivalUnit is a fonds, subfonds or series
type ArchivalUnit struct {
	shared.BaseAggregateRoot
	Fonds          int         `gorm:"not null;uniqueIndex:idx_archival_unit_ref,priority:1"`
	Subfonds       int         `gorm:"not null;default:0;uniqueIndex:idx_archival_unit_ref,priority:2"`
	Series         int         `gorm:"not null;default:0;uniqueIndex:idx_archival_unit_ref,priority:3"`
	Level          Level       `gorm:"type:varchar(2);not null;index"`
	ParentID       *uuid.UUID  `gorm:"type:uuid;index"`
	Title          string      `gorm:"type:varchar(300);not null"`
	TitleOriginal  string      `gorm:"type:varchar(300)"`
	OriginalLocale string      `gorm:"type:varchar(10)"`
	DateFrom       int         `gorm:"not null;default:0"`
	DateTo         int         `gorm:"not null;default:0"`
	CreatorIDs     []uuid.UUID `gorm:"serializer:json"`
	Status         Status      `gorm:"type:varchar(10);not null;default:'draft';index"`
}

// TableName returns the table name for GORM
func (ArchivalUnit) TableName() string {
	return "archival_units"
}

// Description holds the editable descriptive fields
type Description struct {
	Title          string
	TitleOriginal  string
	OriginalLocale string
	DateFrom       int
	DateTo         int
	CreatorIDs     []uuid.UUID
}

// NewFonds creates a top-level unit
func NewFonds(fonds int, d Description) (*ArchivalUnit, error) {
	if fonds < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Fonds number must be positive")
	}
	return newUnit(LevelFonds, nil, fonds, 0, 0, d)
}

// NewSubfonds creates a subfonds under a fonds. Subfonds 0 is the implicit
// subfonds used by fonds that have no real subdivision.
func NewSubfonds(parent *ArchivalUnit, subfonds int, d Description) (*ArchivalUnit, error) {
	if parent == nil || parent.Level != LevelFonds {
		return nil, shared.NewDomainError("INVALID_PARENT", "Subfonds parent must be a fonds")
	}
	if subfonds < 0 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Subfonds number cannot be negative")
	}
	return newUnit(LevelSubfonds, &parent.ID, parent.Fonds, subfonds, 0, d)
}

// NewSeries creates a series under a subfonds
func NewSeries(parent *ArchivalUnit, series int, d Description) (*ArchivalUnit, error) {
	if parent == nil || parent.Level != LevelSubfonds {
		return nil, shared.NewDomainError("INVALID_PARENT", "Series parent must be a subfonds")
	}
	if series < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Series number must be positive")
	}
	return newUnit(LevelSeries, &parent.ID, parent.Fonds, parent.Subfonds, series, d)
}

func newUnit(level Level, parentID *uuid.UUID, fonds, subfonds, series int, d Description) (*ArchivalUnit, error) {
	u := &ArchivalUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Fonds:             fonds,
		Subfonds:          subfonds,
		Series:            series,
		Level:             level,
		ParentID:          parentID,
		Status:            StatusDraft,
	}
	if err := u.apply(d); err != nil {
		return nil, err
	}
	u.AddDomainEvent(NewArchivalUnitCreatedEvent(u))
	return u, nil
}

// Update replaces the descriptive fields
func (u *ArchivalUnit) Update(d Description) error {
	if err := u.apply(d); err != nil {
		return err
	}
	u.IncrementVersion()
	u.AddDomainEvent(NewArchivalUnitUpdatedEvent(u))
	return nil
}

// Finalize publishes the unit description
func (u *ArchivalUnit) Finalize() error {
	if u.Status == StatusFinal {
		return shared.NewDomainError("ALREADY_FINAL", "Archival unit is already final")
	}
	u.Status = StatusFinal
	u.IncrementVersion()
	u.AddDomainEvent(NewArchivalUnitUpdatedEvent(u))
	return nil
}

// MarkDeleted records the deletion so the catalog entry is removed
func (u *ArchivalUnit) MarkDeleted() {
	u.AddDomainEvent(NewArchivalUnitDeletedEvent(u))
}

// Indexable reports whether the unit belongs in the public catalog
func (u *ArchivalUnit) Indexable() bool {
	return u.Status == StatusFinal
}

// ReferenceCode returns the unit's archival reference code, e.g. HU OSA 300-1-2
func (u *ArchivalUnit) ReferenceCode() string {
	return ReferenceCode(u.Level, u.Fonds, u.Subfonds, u.Series)
}

// ReferenceCode formats the reference code for a unit at the given level
func ReferenceCode(level Level, fonds, subfonds, series int) string {
	switch level {
	case LevelSubfonds:
		return fmt.Sprintf("%s %d-%d", ReferencePrefix, fonds, subfonds)
	case LevelSeries:
		return fmt.Sprintf("%s %d-%d-%d", ReferencePrefix, fonds, subfonds, series)
	default:
		return fmt.Sprintf("%s %d", ReferencePrefix, fonds)
	}
}

// OriginalLocaleCode implements shared.OriginSource
func (u *ArchivalUnit) OriginalLocaleCode() string {
	return u.OriginalLocale
}

// OriginalValues implements shared.OriginSource
func (u *ArchivalUnit) OriginalValues() map[string]string {
	return map[string]string{"title": u.TitleOriginal}
}

func (u *ArchivalUnit) apply(d Description) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if d.DateFrom < 0 || d.DateTo < 0 {
		return shared.NewDomainError("INVALID_DATE", "Years cannot be negative")
	}
	if d.DateFrom != 0 && d.DateTo != 0 && d.DateFrom > d.DateTo {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Start year must not be after end year")
	}
	u.Title = title
	u.TitleOriginal = strings.TrimSpace(d.TitleOriginal)
	u.OriginalLocale = d.OriginalLocale
	u.DateFrom = d.DateFrom
	u.DateTo = d.DateTo
	u.CreatorIDs = d.CreatorIDs
	return nil
}
