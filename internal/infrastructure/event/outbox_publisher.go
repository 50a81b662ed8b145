package event

import (
	"context"
	"fmt"

	"github.com/ams/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher enqueues domain events in the outbox inside the caller's
// transaction, so a record change and its indexing task commit together
type OutboxPublisher struct {
	serializer *EventSerializer
	maxRetries int
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer, maxRetries: shared.DefaultMaxRetries}
}

// SetMaxRetries sets the delivery attempts of new entries before they are dead-lettered
func (p *OutboxPublisher) SetMaxRetries(n int) {
	if n > 0 {
		p.maxRetries = n
	}
}

// PublishWithTx writes the events to the outbox using tx
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		if !p.serializer.IsRegistered(event.EventType()) {
			return fmt.Errorf("event type %s is not registered", event.EventType())
		}
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", event.EventType(), err)
		}
		entry := shared.NewOutboxEntry(event, payload)
		entry.MaxRetries = p.maxRetries
		entries = append(entries, entry)
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// SaveEvents implements shared.OutboxEventSaver
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider any, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}
	return p.PublishWithTx(ctx, tx, events...)
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
