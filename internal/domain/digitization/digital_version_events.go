package digitization

import (
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeDigitalVersionCreated = "DigitalVersionCreated"
	EventTypeDigitalVersionUpdated = "DigitalVersionUpdated"
	EventTypeDigitalVersionDeleted = "DigitalVersionDeleted"
)

// DigitalVersionEvent carries the reproduced record so that it can be
// reindexed even after the digital version row is gone
type DigitalVersionEvent struct {
	shared.BaseDomainEvent
	DigitalVersionID    uuid.UUID  `json:"digital_version_id"`
	Level               Level      `json:"level"`
	ContainerID         *uuid.UUID `json:"container_id,omitempty"`
	FindingAidsEntityID *uuid.UUID `json:"finding_aids_entity_id,omitempty"`
	AvailableOnline     bool       `json:"available_online"`
}

func newDigitalVersionEvent(eventType string, v *DigitalVersion) DigitalVersionEvent {
	return DigitalVersionEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(eventType, AggregateTypeDigitalVersion, v.ID),
		DigitalVersionID:    v.ID,
		Level:               v.Level,
		ContainerID:         v.ContainerID,
		FindingAidsEntityID: v.FindingAidsEntityID,
		AvailableOnline:     v.AvailableOnline,
	}
}

// DigitalVersionCreatedEvent is published when a digital version is registered
type DigitalVersionCreatedEvent struct {
	DigitalVersionEvent
}

// NewDigitalVersionCreatedEvent creates a new DigitalVersionCreatedEvent
func NewDigitalVersionCreatedEvent(v *DigitalVersion) *DigitalVersionCreatedEvent {
	return &DigitalVersionCreatedEvent{newDigitalVersionEvent(EventTypeDigitalVersionCreated, v)}
}

// DigitalVersionUpdatedEvent is published when online availability changes
type DigitalVersionUpdatedEvent struct {
	DigitalVersionEvent
}

// NewDigitalVersionUpdatedEvent creates a new DigitalVersionUpdatedEvent
func NewDigitalVersionUpdatedEvent(v *DigitalVersion) *DigitalVersionUpdatedEvent {
	return &DigitalVersionUpdatedEvent{newDigitalVersionEvent(EventTypeDigitalVersionUpdated, v)}
}

// DigitalVersionDeletedEvent is published when a digital version is removed
type DigitalVersionDeletedEvent struct {
	DigitalVersionEvent
}

// NewDigitalVersionDeletedEvent creates a new DigitalVersionDeletedEvent
func NewDigitalVersionDeletedEvent(v *DigitalVersion) *DigitalVersionDeletedEvent {
	return &DigitalVersionDeletedEvent{newDigitalVersionEvent(EventTypeDigitalVersionDeleted, v)}
}
