package findingaids

import (
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeFindingAidsCreated     = "FindingAidsCreated"
	EventTypeFindingAidsUpdated     = "FindingAidsUpdated"
	EventTypeFindingAidsPublished   = "FindingAidsPublished"
	EventTypeFindingAidsUnpublished = "FindingAidsUnpublished"
	EventTypeFindingAidsDeleted     = "FindingAidsDeleted"
)

// FindingAidsEvent is the payload shared by all finding aids lifecycle events
type FindingAidsEvent struct {
	shared.BaseDomainEvent
	EntityID      uuid.UUID `json:"entity_id"`
	ContainerID   uuid.UUID `json:"container_id"`
	ReferenceCode string    `json:"reference_code"`
	Published     bool      `json:"published"`
	Confidential  bool      `json:"confidential"`
}

func newFindingAidsEvent(eventType string, e *FindingAidsEntity) FindingAidsEvent {
	return FindingAidsEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeFindingAids, e.ID),
		EntityID:        e.ID,
		ContainerID:     e.ContainerID,
		ReferenceCode:   e.ReferenceCode,
		Published:       e.Published,
		Confidential:    e.Confidential,
	}
}

// FindingAidsCreatedEvent is published when a folder or item is described
type FindingAidsCreatedEvent struct {
	FindingAidsEvent
}

// NewFindingAidsCreatedEvent creates a new FindingAidsCreatedEvent
func NewFindingAidsCreatedEvent(e *FindingAidsEntity) *FindingAidsCreatedEvent {
	return &FindingAidsCreatedEvent{newFindingAidsEvent(EventTypeFindingAidsCreated, e)}
}

// FindingAidsUpdatedEvent is published when a description or its confidentiality changes
type FindingAidsUpdatedEvent struct {
	FindingAidsEvent
}

// NewFindingAidsUpdatedEvent creates a new FindingAidsUpdatedEvent
func NewFindingAidsUpdatedEvent(e *FindingAidsEntity) *FindingAidsUpdatedEvent {
	return &FindingAidsUpdatedEvent{newFindingAidsEvent(EventTypeFindingAidsUpdated, e)}
}

// FindingAidsPublishedEvent is published when a record becomes public
type FindingAidsPublishedEvent struct {
	FindingAidsEvent
}

// NewFindingAidsPublishedEvent creates a new FindingAidsPublishedEvent
func NewFindingAidsPublishedEvent(e *FindingAidsEntity) *FindingAidsPublishedEvent {
	return &FindingAidsPublishedEvent{newFindingAidsEvent(EventTypeFindingAidsPublished, e)}
}

// FindingAidsUnpublishedEvent is published when a record is withdrawn
type FindingAidsUnpublishedEvent struct {
	FindingAidsEvent
}

// NewFindingAidsUnpublishedEvent creates a new FindingAidsUnpublishedEvent
func NewFindingAidsUnpublishedEvent(e *FindingAidsEntity) *FindingAidsUnpublishedEvent {
	return &FindingAidsUnpublishedEvent{newFindingAidsEvent(EventTypeFindingAidsUnpublished, e)}
}

// FindingAidsDeletedEvent is published when a record is deleted
type FindingAidsDeletedEvent struct {
	FindingAidsEvent
}

// NewFindingAidsDeletedEvent creates a new FindingAidsDeletedEvent
func NewFindingAidsDeletedEvent(e *FindingAidsEntity) *FindingAidsDeletedEvent {
	return &FindingAidsDeletedEvent{newFindingAidsEvent(EventTypeFindingAidsDeleted, e)}
}
