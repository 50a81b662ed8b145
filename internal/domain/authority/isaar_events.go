package authority

import (
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeIsaarCreated = "IsaarCreated"
	EventTypeIsaarUpdated = "IsaarUpdated"
	EventTypeIsaarDeleted = "IsaarDeleted"
)

// IsaarCreatedEvent is published when an authority record is created
type IsaarCreatedEvent struct {
	shared.BaseDomainEvent
	IsaarID uuid.UUID `json:"isaar_id"`
	Name    string    `json:"name"`
}

// NewIsaarCreatedEvent creates a new IsaarCreatedEvent
func NewIsaarCreatedEvent(r *IsaarRecord) *IsaarCreatedEvent {
	return &IsaarCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIsaarCreated, AggregateTypeIsaar, r.ID),
		IsaarID:         r.ID,
		Name:            r.Name,
	}
}

// IsaarUpdatedEvent is published when an authority record changes, including status changes
type IsaarUpdatedEvent struct {
	shared.BaseDomainEvent
	IsaarID uuid.UUID `json:"isaar_id"`
	Name    string    `json:"name"`
	Status  Status    `json:"status"`
}

// NewIsaarUpdatedEvent creates a new IsaarUpdatedEvent
func NewIsaarUpdatedEvent(r *IsaarRecord) *IsaarUpdatedEvent {
	return &IsaarUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIsaarUpdated, AggregateTypeIsaar, r.ID),
		IsaarID:         r.ID,
		Name:            r.Name,
		Status:          r.Status,
	}
}

// IsaarDeletedEvent is published when an authority record is deleted
type IsaarDeletedEvent struct {
	shared.BaseDomainEvent
	IsaarID uuid.UUID `json:"isaar_id"`
}

// NewIsaarDeletedEvent creates a new IsaarDeletedEvent
func NewIsaarDeletedEvent(r *IsaarRecord) *IsaarDeletedEvent {
	return &IsaarDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIsaarDeleted, AggregateTypeIsaar, r.ID),
		IsaarID:         r.ID,
	}
}
