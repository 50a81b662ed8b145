package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

type namedHandler struct {
	*recordingHandler
}

func (namedHandler) Name() string { return "catalog-indexer" }

func TestIdempotentHandler_FirstDeliveryIsHandled(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newRecordingHandler("RecordSaved")
	h := NewIdempotentHandler(inner, store, zap.NewNop())
	evt := newRecordSavedEvent("RecordSaved")

	store.On("MarkProcessed", mock.Anything, evt.EventID().String(), 24*time.Hour).Return(true, nil)

	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Equal(t, 1, inner.count())
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsProcessed)
	store.AssertExpectations(t)
}

func TestIdempotentHandler_DuplicateIsSkipped(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newRecordingHandler("RecordSaved")
	h := NewIdempotentHandler(inner, store, zap.NewNop())
	evt := newRecordSavedEvent("RecordSaved")

	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Zero(t, inner.count())
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsDuplicate)
}

func TestIdempotentHandler_FailureReleasesKey(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newRecordingHandler("RecordSaved")
	inner.setError(errors.New("catalog unavailable"))
	h := NewIdempotentHandler(namedHandler{inner}, store, zap.NewNop())
	evt := newRecordSavedEvent("RecordSaved")
	key := "catalog-indexer:" + evt.EventID().String()

	store.On("MarkProcessed", mock.Anything, key, mock.Anything).Return(true, nil)
	store.On("Release", mock.Anything, key).Return(nil)

	err := h.Handle(context.Background(), evt)
	assert.ErrorContains(t, err, "catalog unavailable")
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsFailed)
	store.AssertExpectations(t)
}

func TestIdempotentHandler_StoreErrorStillProcesses(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newRecordingHandler("RecordSaved")
	h := NewIdempotentHandler(inner, store, zap.NewNop())

	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	require.NoError(t, h.Handle(context.Background(), newRecordSavedEvent("RecordSaved")))
	assert.Equal(t, 1, inner.count())
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newRecordingHandler("RecordSaved")
	h := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

	require.NoError(t, h.Handle(context.Background(), newRecordSavedEvent("RecordSaved")))
	assert.Equal(t, 1, inner.count())
	assert.Equal(t, []string{"RecordSaved"}, h.EventTypes())
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}
