package event

import (
	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/findingaids"
)

// RegisterAllEvents registers every event type that repositories write to
// the outbox, so the processor can decode them
func RegisterAllEvents(serializer *EventSerializer) {
	// ISAAR authority records
	serializer.Register(authority.EventTypeIsaarCreated, &authority.IsaarCreatedEvent{})
	serializer.Register(authority.EventTypeIsaarUpdated, &authority.IsaarUpdatedEvent{})
	serializer.Register(authority.EventTypeIsaarDeleted, &authority.IsaarDeletedEvent{})

	// Archival units
	serializer.Register(archivalunit.EventTypeArchivalUnitCreated, &archivalunit.ArchivalUnitCreatedEvent{})
	serializer.Register(archivalunit.EventTypeArchivalUnitUpdated, &archivalunit.ArchivalUnitUpdatedEvent{})
	serializer.Register(archivalunit.EventTypeArchivalUnitDeleted, &archivalunit.ArchivalUnitDeletedEvent{})

	// Containers
	serializer.Register(container.EventTypeContainerUpdated, &container.ContainerUpdatedEvent{})
	serializer.Register(container.EventTypeContainerDeleted, &container.ContainerDeletedEvent{})

	// Finding aids
	serializer.Register(findingaids.EventTypeFindingAidsCreated, &findingaids.FindingAidsCreatedEvent{})
	serializer.Register(findingaids.EventTypeFindingAidsUpdated, &findingaids.FindingAidsUpdatedEvent{})
	serializer.Register(findingaids.EventTypeFindingAidsPublished, &findingaids.FindingAidsPublishedEvent{})
	serializer.Register(findingaids.EventTypeFindingAidsUnpublished, &findingaids.FindingAidsUnpublishedEvent{})
	serializer.Register(findingaids.EventTypeFindingAidsDeleted, &findingaids.FindingAidsDeletedEvent{})

	// Digital versions
	serializer.Register(digitization.EventTypeDigitalVersionCreated, &digitization.DigitalVersionCreatedEvent{})
	serializer.Register(digitization.EventTypeDigitalVersionUpdated, &digitization.DigitalVersionUpdatedEvent{})
	serializer.Register(digitization.EventTypeDigitalVersionDeleted, &digitization.DigitalVersionDeletedEvent{})
}
