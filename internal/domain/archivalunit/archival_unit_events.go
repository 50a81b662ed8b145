package archivalunit

import (
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeArchivalUnitCreated = "ArchivalUnitCreated"
	EventTypeArchivalUnitUpdated = "ArchivalUnitUpdated"
	EventTypeArchivalUnitDeleted = "ArchivalUnitDeleted"
)

// ArchivalUnitCreatedEvent is published when a unit is created
type ArchivalUnitCreatedEvent struct {
	shared.BaseDomainEvent
	UnitID        uuid.UUID `json:"unit_id"`
	ReferenceCode string    `json:"reference_code"`
	Level         Level     `json:"level"`
}

// NewArchivalUnitCreatedEvent creates a new ArchivalUnitCreatedEvent
func NewArchivalUnitCreatedEvent(u *ArchivalUnit) *ArchivalUnitCreatedEvent {
	return &ArchivalUnitCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArchivalUnitCreated, AggregateTypeArchivalUnit, u.ID),
		UnitID:          u.ID,
		ReferenceCode:   u.ReferenceCode(),
		Level:           u.Level,
	}
}

// ArchivalUnitUpdatedEvent is published when a unit description or status changes
type ArchivalUnitUpdatedEvent struct {
	shared.BaseDomainEvent
	UnitID        uuid.UUID `json:"unit_id"`
	ReferenceCode string    `json:"reference_code"`
	Status        Status    `json:"status"`
}

// NewArchivalUnitUpdatedEvent creates a new ArchivalUnitUpdatedEvent
func NewArchivalUnitUpdatedEvent(u *ArchivalUnit) *ArchivalUnitUpdatedEvent {
	return &ArchivalUnitUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArchivalUnitUpdated, AggregateTypeArchivalUnit, u.ID),
		UnitID:          u.ID,
		ReferenceCode:   u.ReferenceCode(),
		Status:          u.Status,
	}
}

// ArchivalUnitDeletedEvent is published when a unit is deleted
type ArchivalUnitDeletedEvent struct {
	shared.BaseDomainEvent
	UnitID        uuid.UUID `json:"unit_id"`
	ReferenceCode string    `json:"reference_code"`
}

// NewArchivalUnitDeletedEvent creates a new ArchivalUnitDeletedEvent
func NewArchivalUnitDeletedEvent(u *ArchivalUnit) *ArchivalUnitDeletedEvent {
	return &ArchivalUnitDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArchivalUnitDeleted, AggregateTypeArchivalUnit, u.ID),
		UnitID:          u.ID,
		ReferenceCode:   u.ReferenceCode(),
	}
}
