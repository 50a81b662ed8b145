package indexing

import (
	"context"
	"errors"
	"fmt"

	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/catalog"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandlerName identifies the indexing handler, e.g. in idempotency keys
const HandlerName = "catalog-indexer"

// Index actions reported to Metrics
const (
	ActionUpsert = "upsert"
	ActionRemove = "remove"
	ActionBuild  = "build"
)

// Metrics receives one observation per catalog write
type Metrics interface {
	RecordIndexing(ctx context.Context, docType catalog.DocumentType, action string, err error)
}

// Contents lists the finding aids stored in a container or described
// under a series
type Contents interface {
	FindIDsByContainer(ctx context.Context, containerID uuid.UUID) ([]uuid.UUID, error)
	FindIDsByUnit(ctx context.Context, unitID uuid.UUID) ([]uuid.UUID, error)
}

// CreatorLinks lists the archival units that name an authority record as
// their creator
type CreatorLinks interface {
	FindIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error)
}

// IndexingHandler keeps the catalog in step with domain events. Documents
// are always rebuilt from the current database state, so a replayed or
// out-of-order event converges to the same catalog entry. Documents that
// copy data from another record (creator names, series titles) are rebuilt
// when that record changes.
type IndexingHandler struct {
	builders Builders
	index    catalog.Index
	contents Contents
	creators CreatorLinks
	logger   *zap.Logger
	metrics  Metrics
	onChange func()
}

// HandlerOption configures an IndexingHandler
type HandlerOption func(*IndexingHandler)

// WithMetrics reports catalog writes
func WithMetrics(m Metrics) HandlerOption {
	return func(h *IndexingHandler) { h.metrics = m }
}

// WithChangeHook runs fn after every catalog write, e.g. to drop cached
// search results
func WithChangeHook(fn func()) HandlerOption {
	return func(h *IndexingHandler) { h.onChange = fn }
}

// NewIndexingHandler creates the handler
func NewIndexingHandler(builders Builders, index catalog.Index, contents Contents, creators CreatorLinks, logger *zap.Logger, opts ...HandlerOption) *IndexingHandler {
	h := &IndexingHandler{
		builders: builders,
		index:    index,
		contents: contents,
		creators: creators,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes implements shared.EventHandler
func (h *IndexingHandler) EventTypes() []string {
	return []string{
		authority.EventTypeIsaarCreated,
		authority.EventTypeIsaarUpdated,
		authority.EventTypeIsaarDeleted,
		archivalunit.EventTypeArchivalUnitCreated,
		archivalunit.EventTypeArchivalUnitUpdated,
		archivalunit.EventTypeArchivalUnitDeleted,
		container.EventTypeContainerUpdated,
		container.EventTypeContainerDeleted,
		findingaids.EventTypeFindingAidsCreated,
		findingaids.EventTypeFindingAidsUpdated,
		findingaids.EventTypeFindingAidsPublished,
		findingaids.EventTypeFindingAidsUnpublished,
		findingaids.EventTypeFindingAidsDeleted,
		digitization.EventTypeDigitalVersionCreated,
		digitization.EventTypeDigitalVersionUpdated,
		digitization.EventTypeDigitalVersionDeleted,
	}
}

// Handle implements shared.EventHandler. A returned error leaves the outbox
// entry pending so the event is retried.
func (h *IndexingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ctx, span := telemetry.StartServiceSpan(ctx, HandlerName, "Handle",
		telemetry.WithAttribute(telemetry.SpanAttrEventType, event.EventType()),
		telemetry.WithAttribute(telemetry.SpanAttrAggregateID, event.AggregateID().String()),
	)
	defer span.End()

	if err := h.dispatch(ctx, event); err != nil {
		telemetry.RecordError(span, err)
		h.logger.Warn("catalog indexing failed",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}
	telemetry.SetOK(span)
	return nil
}

func (h *IndexingHandler) dispatch(ctx context.Context, event shared.DomainEvent) error {
	id := event.AggregateID()
	switch event.EventType() {
	case authority.EventTypeIsaarCreated:
		return h.Sync(ctx, catalog.DocumentTypeIsaar, id)
	case authority.EventTypeIsaarUpdated:
		return errors.Join(h.Sync(ctx, catalog.DocumentTypeIsaar, id), h.syncCreated(ctx, id))
	case authority.EventTypeIsaarDeleted:
		return errors.Join(h.remove(ctx, catalog.DocumentTypeIsaar, id), h.syncCreated(ctx, id))

	case archivalunit.EventTypeArchivalUnitCreated:
		return h.Sync(ctx, catalog.DocumentTypeArchivalUnit, id)
	case archivalunit.EventTypeArchivalUnitUpdated:
		return errors.Join(h.Sync(ctx, catalog.DocumentTypeArchivalUnit, id), h.syncUnitContents(ctx, id))
	case archivalunit.EventTypeArchivalUnitDeleted:
		return errors.Join(h.remove(ctx, catalog.DocumentTypeArchivalUnit, id), h.syncUnitContents(ctx, id))

	case findingaids.EventTypeFindingAidsCreated,
		findingaids.EventTypeFindingAidsUpdated,
		findingaids.EventTypeFindingAidsPublished,
		findingaids.EventTypeFindingAidsUnpublished:
		return h.Sync(ctx, catalog.DocumentTypeFindingAids, id)
	case findingaids.EventTypeFindingAidsDeleted:
		return h.remove(ctx, catalog.DocumentTypeFindingAids, id)

	case container.EventTypeContainerUpdated, container.EventTypeContainerDeleted:
		return h.syncContainer(ctx, id)

	case digitization.EventTypeDigitalVersionCreated,
		digitization.EventTypeDigitalVersionUpdated,
		digitization.EventTypeDigitalVersionDeleted:
		return h.syncDigitalVersion(ctx, event)
	}
	h.logger.Debug("event ignored by catalog indexer", zap.String("event_type", event.EventType()))
	return nil
}

// Sync rebuilds one document and writes it, or removes it when the record
// is gone or no longer public
func (h *IndexingHandler) Sync(ctx context.Context, docType catalog.DocumentType, id uuid.UUID) error {
	builder, ok := h.builders[docType]
	if !ok {
		return fmt.Errorf("no document builder for %s", docType)
	}
	doc, err := builder.Build(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNotIndexable), errors.Is(err, shared.ErrNotFound):
		return h.remove(ctx, docType, id)
	default:
		h.record(ctx, docType, ActionBuild, err)
		return fmt.Errorf("build %s: %w", catalog.DocumentKey(docType, id), err)
	}

	err = h.index.Upsert(ctx, doc)
	h.record(ctx, docType, ActionUpsert, err)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", doc.Key(), err)
	}
	h.changed()
	return nil
}

func (h *IndexingHandler) remove(ctx context.Context, docType catalog.DocumentType, id uuid.UUID) error {
	err := h.index.Remove(ctx, docType, id)
	h.record(ctx, docType, ActionRemove, err)
	if err != nil {
		return fmt.Errorf("remove %s: %w", catalog.DocumentKey(docType, id), err)
	}
	h.changed()
	return nil
}

// syncContainer rebuilds every finding aid stored in the container. The
// remaining records are still attempted when one fails.
func (h *IndexingHandler) syncContainer(ctx context.Context, containerID uuid.UUID) error {
	ids, err := h.contents.FindIDsByContainer(ctx, containerID)
	if err != nil {
		return fmt.Errorf("list finding aids of container %s: %w", containerID, err)
	}
	var errs []error
	for _, id := range ids {
		if err := h.Sync(ctx, catalog.DocumentTypeFindingAids, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// syncUnitContents rebuilds the finding aids described under a unit, which
// carry its title and creators
func (h *IndexingHandler) syncUnitContents(ctx context.Context, unitID uuid.UUID) error {
	ids, err := h.contents.FindIDsByUnit(ctx, unitID)
	if err != nil {
		return fmt.Errorf("list finding aids of unit %s: %w", unitID, err)
	}
	var errs []error
	for _, id := range ids {
		if err := h.Sync(ctx, catalog.DocumentTypeFindingAids, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// syncCreated rebuilds every unit naming the authority record as creator,
// and the finding aids under those units
func (h *IndexingHandler) syncCreated(ctx context.Context, creatorID uuid.UUID) error {
	ids, err := h.creators.FindIDsByCreator(ctx, creatorID)
	if err != nil {
		return fmt.Errorf("list units created by %s: %w", creatorID, err)
	}
	var errs []error
	for _, id := range ids {
		if err := h.Sync(ctx, catalog.DocumentTypeArchivalUnit, id); err != nil {
			errs = append(errs, err)
		}
		if err := h.syncUnitContents(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *IndexingHandler) syncDigitalVersion(ctx context.Context, event shared.DomainEvent) error {
	var payload digitization.DigitalVersionEvent
	switch e := event.(type) {
	case *digitization.DigitalVersionCreatedEvent:
		payload = e.DigitalVersionEvent
	case *digitization.DigitalVersionUpdatedEvent:
		payload = e.DigitalVersionEvent
	case *digitization.DigitalVersionDeletedEvent:
		payload = e.DigitalVersionEvent
	default:
		return fmt.Errorf("unexpected payload %T for %s", event, event.EventType())
	}
	switch {
	case payload.FindingAidsEntityID != nil:
		return h.Sync(ctx, catalog.DocumentTypeFindingAids, *payload.FindingAidsEntityID)
	case payload.ContainerID != nil:
		return h.syncContainer(ctx, *payload.ContainerID)
	}
	return nil
}

func (h *IndexingHandler) record(ctx context.Context, docType catalog.DocumentType, action string, err error) {
	if h.metrics != nil {
		h.metrics.RecordIndexing(ctx, docType, action, err)
	}
}

func (h *IndexingHandler) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}
