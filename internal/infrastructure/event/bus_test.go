package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	published := newRecordingHandler("FindingAidsPublished")
	deleted := newRecordingHandler("FindingAidsDeleted")
	bus.Subscribe(published)
	bus.Subscribe(deleted)

	require.NoError(t, bus.Publish(context.Background(), newRecordSavedEvent("FindingAidsPublished")))

	assert.Equal(t, 1, published.count())
	assert.Equal(t, 0, deleted.count())
	assert.Equal(t, []string{"FindingAidsDeleted", "FindingAidsPublished"}, bus.SubscribedTypes())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler("IsaarCreated")
	bus.Subscribe(h, "IsaarDeleted")

	require.NoError(t, bus.Publish(context.Background(), newRecordSavedEvent("IsaarCreated")))
	require.NoError(t, bus.Publish(context.Background(), newRecordSavedEvent("IsaarDeleted")))

	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_ReturnsHandlerErrors(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newRecordingHandler("ContainerUpdated")
	failing.setError(errors.New("catalog unavailable"))
	healthy := newRecordingHandler("ContainerUpdated")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newRecordSavedEvent("ContainerUpdated"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog unavailable")
	assert.Equal(t, 1, healthy.count(), "other handlers still run")
}

func TestInMemoryEventBus_RecoversPanics(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler("IsaarUpdated")
	h.panicWith = "nil map"
	bus.Subscribe(h)

	var err error
	assert.NotPanics(t, func() {
		err = bus.Publish(context.Background(), newRecordSavedEvent("IsaarUpdated"))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil map")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler("IsaarUpdated")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newRecordSavedEvent("IsaarUpdated")))
	assert.Zero(t, h.count())
	assert.Empty(t, bus.SubscribedTypes())
}

func TestInMemoryEventBus_WildcardAndStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := newRecordingHandler()
	bus.Subscribe(all)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, newRecordSavedEvent("A"), newRecordSavedEvent("B")))
	assert.Equal(t, 2, all.count())

	require.NoError(t, bus.Stop(ctx))
	assert.ErrorIs(t, bus.Publish(ctx, newRecordSavedEvent("A")), ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Publish(ctx, newRecordSavedEvent("A")))
}
