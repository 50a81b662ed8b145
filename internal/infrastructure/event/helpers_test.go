package event

import (
	"context"
	"sync"
	"testing"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordSavedEvent stands in for an archival record lifecycle event
type recordSavedEvent struct {
	shared.BaseDomainEvent
	ReferenceCode string `json:"reference_code"`
}

func newRecordSavedEvent(eventType string) *recordSavedEvent {
	return &recordSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "FindingAidsEntity", uuid.New()),
		ReferenceCode:   "HU OSA 300-1-2:14/3",
	}
}

// recordingHandler remembers every event it receives
type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func setupOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.OutboxEntryModel{}))
	return db
}
