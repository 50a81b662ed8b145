package container

import (
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeContainerUpdated = "ContainerUpdated"
	EventTypeContainerDeleted = "ContainerDeleted"
)

// ContainerUpdatedEvent is published when a container's physical description changes
type ContainerUpdatedEvent struct {
	shared.BaseDomainEvent
	ContainerID   uuid.UUID `json:"container_id"`
	ReferenceCode string    `json:"reference_code"`
}

// NewContainerUpdatedEvent creates a new ContainerUpdatedEvent
func NewContainerUpdatedEvent(c *Container) *ContainerUpdatedEvent {
	return &ContainerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContainerUpdated, AggregateTypeContainer, c.ID),
		ContainerID:     c.ID,
		ReferenceCode:   c.ReferenceCode,
	}
}

// ContainerDeletedEvent is published when a container is deleted
type ContainerDeletedEvent struct {
	shared.BaseDomainEvent
	ContainerID uuid.UUID `json:"container_id"`
}

// NewContainerDeletedEvent creates a new ContainerDeletedEvent
func NewContainerDeletedEvent(c *Container) *ContainerDeletedEvent {
	return &ContainerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContainerDeleted, AggregateTypeContainer, c.ID),
		ContainerID:     c.ID,
	}
}
