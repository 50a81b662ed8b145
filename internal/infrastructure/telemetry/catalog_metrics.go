package telemetry

import (
	"context"
	"time"

	"github.com/ams/backend/internal/domain/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CatalogMetrics records catalog indexing and outbox delivery. It
// satisfies indexing.Metrics and event.OutboxMetrics.
type CatalogMetrics struct {
	indexed          *Counter
	indexFailures    *Counter
	deliveries       *Counter
	deliveryDuration *Histogram
}

// NewCatalogMetrics creates the instruments on meter
func NewCatalogMetrics(meter metric.Meter) (*CatalogMetrics, error) {
	indexed, err := NewCounter(meter, "catalog_index_operations_total", "Catalog documents written or removed", "{operation}")
	if err != nil {
		return nil, err
	}
	failures, err := NewCounter(meter, "catalog_index_failures_total", "Catalog index operations that failed", "{operation}")
	if err != nil {
		return nil, err
	}
	deliveries, err := NewCounter(meter, "outbox_deliveries_total", "Outbox entries processed by outcome", "{event}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "outbox_delivery_duration_seconds",
		Description: "Time spent delivering one outbox entry to its handlers",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &CatalogMetrics{
		indexed:          indexed,
		indexFailures:    failures,
		deliveries:       deliveries,
		deliveryDuration: duration,
	}, nil
}

// RecordIndexing counts one upsert, remove or build
func (m *CatalogMetrics) RecordIndexing(ctx context.Context, docType catalog.DocumentType, action string, err error) {
	attrs := []attribute.KeyValue{AttrDocumentType.String(string(docType)), AttrAction.String(action)}
	if err != nil {
		m.indexFailures.Inc(ctx, attrs...)
		return
	}
	m.indexed.Inc(ctx, attrs...)
}

// RecordDelivery counts one outbox entry and its delivery time
func (m *CatalogMetrics) RecordDelivery(ctx context.Context, eventType, outcome string, duration time.Duration) {
	m.deliveries.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(outcome))
	m.deliveryDuration.RecordDuration(ctx, duration, AttrEventType.String(eventType))
}
