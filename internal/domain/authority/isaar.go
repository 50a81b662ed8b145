package authority

import (
	"fmt"
	"strings"

	"github.com/ams/backend/internal/domain/shared"
)

// AggregateTypeIsaar identifies ISAAR records in events and outbox rows
const AggregateTypeIsaar = "Isaar"

// EntityType is the kind of entity an authority record describes
type EntityType string

const (
	EntityTypeCorporate EntityType = "corporate"
	EntityTypePerson    EntityType = "person"
	EntityTypeFamily    EntityType = "family"
)

// IsValid reports whether t is a known ISAAR entity type
func (t EntityType) IsValid() bool {
	return t == EntityTypeCorporate || t == EntityTypePerson || t == EntityTypeFamily
}

// Status is the editorial status of a record
type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// IsaarRecord is an authority record for a corporate body, person or family
type IsaarRecord struct {
	shared.BaseAggregateRoot
	Name              string     `gorm:"type:varchar(300);not null;uniqueIndex"`
	NameOriginal      string     `gorm:"type:varchar(300)"`
	OriginalLocale    string     `gorm:"type:varchar(10)"`
	ParallelNames     []string   `gorm:"serializer:json"`
	Type              EntityType `gorm:"type:varchar(20);not null"`
	DateExistenceFrom string     `gorm:"type:varchar(10)"`
	DateExistenceTo   string     `gorm:"type:varchar(10)"`
	History           string     `gorm:"type:text"`
	HistoryOriginal   string     `gorm:"type:text"`
	Status            Status     `gorm:"type:varchar(10);not null;default:'draft';index"`
}

// TableName returns the table name for GORM
func (IsaarRecord) TableName() string {
	return "isaar_records"
}

// Description holds the editable descriptive fields
type Description struct {
	Name              string
	NameOriginal      string
	OriginalLocale    string
	ParallelNames     []string
	Type              EntityType
	DateExistenceFrom string
	DateExistenceTo   string
	History           string
	HistoryOriginal   string
}

// NewIsaarRecord creates a draft authority record
func NewIsaarRecord(d Description) (*IsaarRecord, error) {
	r := &IsaarRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            StatusDraft,
	}
	if err := r.apply(d); err != nil {
		return nil, err
	}
	r.AddDomainEvent(NewIsaarCreatedEvent(r))
	return r, nil
}

// Update replaces the descriptive fields
func (r *IsaarRecord) Update(d Description) error {
	if err := r.apply(d); err != nil {
		return err
	}
	r.IncrementVersion()
	r.AddDomainEvent(NewIsaarUpdatedEvent(r))
	return nil
}

// Finalize makes the record public
func (r *IsaarRecord) Finalize() error {
	if r.Status == StatusFinal {
		return shared.NewDomainError("ALREADY_FINAL", "Authority record is already final")
	}
	r.Status = StatusFinal
	r.IncrementVersion()
	r.AddDomainEvent(NewIsaarUpdatedEvent(r))
	return nil
}

// Revert puts a final record back into draft, which removes it from the catalog
func (r *IsaarRecord) Revert() error {
	if r.Status == StatusDraft {
		return shared.NewDomainError("ALREADY_DRAFT", "Authority record is already a draft")
	}
	r.Status = StatusDraft
	r.IncrementVersion()
	r.AddDomainEvent(NewIsaarUpdatedEvent(r))
	return nil
}

// MarkDeleted records the deletion so the catalog entry is removed
func (r *IsaarRecord) MarkDeleted() {
	r.AddDomainEvent(NewIsaarDeletedEvent(r))
}

// Indexable reports whether the record belongs in the public catalog
func (r *IsaarRecord) Indexable() bool {
	return r.Status == StatusFinal
}

// OriginalLocaleCode implements shared.OriginSource
func (r *IsaarRecord) OriginalLocaleCode() string {
	return r.OriginalLocale
}

// OriginalValues implements shared.OriginSource
func (r *IsaarRecord) OriginalValues() map[string]string {
	return map[string]string{
		"name":    r.NameOriginal,
		"history": r.HistoryOriginal,
	}
}

func (r *IsaarRecord) apply(d Description) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Authorized name cannot be empty")
	}
	if len(name) > 300 {
		return shared.NewDomainError("INVALID_NAME", "Authorized name cannot exceed 300 characters")
	}
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Unknown entity type %q", d.Type))
	}
	if err := shared.ValidateDateRange(d.DateExistenceFrom, d.DateExistenceTo); err != nil {
		return err
	}
	r.Name = name
	r.NameOriginal = strings.TrimSpace(d.NameOriginal)
	r.OriginalLocale = d.OriginalLocale
	r.ParallelNames = compactNames(d.ParallelNames)
	r.Type = d.Type
	r.DateExistenceFrom = d.DateExistenceFrom
	r.DateExistenceTo = d.DateExistenceTo
	r.History = d.History
	r.HistoryOriginal = d.HistoryOriginal
	return nil
}

func compactNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
