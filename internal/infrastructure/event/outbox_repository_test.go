package event

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newEntry(t *testing.T) *shared.OutboxEntry {
	t.Helper()
	return shared.NewOutboxEntry(newRecordSavedEvent("RecordSaved"), []byte(`{"reference_code":"HU OSA 300"}`))
}

func TestGormOutboxRepository_SaveAndClaim(t *testing.T) {
	db := setupOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	a, b := newEntry(t), newEntry(t)
	require.NoError(t, repo.Save(ctx, a, b))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, claimed, 2)
	for _, e := range claimed {
		assert.Equal(t, shared.OutboxStatusProcessing, e.Status)
	}

	again, err := repo.MarkProcessing(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Empty(t, again, "entries already in processing are not claimed twice")

	pending, err = repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGormOutboxRepository_RetryableAndDead(t *testing.T) {
	db := setupOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	due, later, dead := newEntry(t), newEntry(t), newEntry(t)
	require.NoError(t, repo.Save(ctx, due, later, dead))

	due.MarkFailed("boom")
	past := time.Now().Add(-time.Minute)
	due.NextRetryAt = &past
	require.NoError(t, repo.Update(ctx, due))

	later.MarkFailed("boom")
	require.NoError(t, repo.Update(ctx, later))

	dead.RetryCount = shared.DefaultMaxRetries - 1
	dead.MarkFailed("boom")
	require.NoError(t, repo.Update(ctx, dead))

	retryable, err := repo.FindRetryable(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, due.ID, retryable[0].ID)

	deadEntries, total, err := repo.FindDead(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, dead.ID, deadEntries[0].ID)
	assert.Equal(t, "boom", deadEntries[0].LastError)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[shared.OutboxStatusFailed])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusDead])
}

func TestGormOutboxRepository_FindByIDAndCleanup(t *testing.T) {
	db := setupOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	entry := newEntry(t)
	require.NoError(t, repo.Save(ctx, entry))
	entry.MarkSent()
	old := time.Now().Add(-48 * time.Hour)
	entry.ProcessedAt = &old
	require.NoError(t, repo.Update(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.EventID, found.EventID)
	assert.Equal(t, "RecordSaved", found.EventType)

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestGormOutboxRepository_ReclaimStale(t *testing.T) {
	db := setupOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	stale, fresh, exhausted := newEntry(t), newEntry(t), newEntry(t)
	exhausted.RetryCount = shared.DefaultMaxRetries - 1
	require.NoError(t, repo.Save(ctx, stale, fresh, exhausted))
	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{stale.ID, fresh.ID, exhausted.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 3)

	old := time.Now().Add(-10 * time.Minute)
	require.NoError(t, db.Model(&models.OutboxEntryModel{}).
		Where("id IN ?", []uuid.UUID{stale.ID, exhausted.ID}).
		Update("updated_at", old).Error)

	n, err := repo.ReclaimStale(ctx, time.Now().Add(-5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, got.Status)
	assert.Equal(t, 1, got.RetryCount)
	assert.Equal(t, "delivery interrupted", got.LastError)

	got, err = repo.FindByID(ctx, exhausted.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDead())

	got, err = repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusProcessing, got.Status)

	retryable, err := repo.FindRetryable(ctx, time.Now().Add(time.Second), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, stale.ID, retryable[0].ID)
}

func TestGormOutboxRepository_ClaimUsesSkipLocked(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE .*id IN .*status IN .*FOR UPDATE SKIP LOCKED`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "status"}))
	mock.ExpectCommit()

	claimed, err := NewGormOutboxRepository(db).MarkProcessing(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
