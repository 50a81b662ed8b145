package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFolder(t *testing.T, series *archivalunit.ArchivalUnit, c *container.Container, folderNo int) *findingaids.FindingAidsEntity {
	t.Helper()
	e, err := findingaids.NewFolder(findingaids.Placement{
		ArchivalUnitID:         series.ID,
		ContainerID:            c.ID,
		ContainerReferenceCode: c.ReferenceCode,
		FolderNo:               folderNo,
	}, findingaids.Description{Title: "Correspondence", DateFrom: "1956"})
	require.NoError(t, err)
	return e
}

func newFindingAidsFixture(t *testing.T) (*gorm.DB, *GormFindingAidsRepository, *recordingOutbox, *archivalunit.ArchivalUnit, *container.Container) {
	t.Helper()
	db := setupTestDB(t)
	_, _, series := seedSeries(t, NewGormArchivalUnitRepository(db))
	c := seedContainer(t, db, series, 14)
	outbox := &recordingOutbox{}
	repo := NewGormFindingAidsRepository(db)
	repo.SetOutboxEventSaver(outbox)
	return db, repo, outbox, series, c
}

func TestAggregateStore_SaveWritesEventsAndClearsThem(t *testing.T) {
	_, repo, outbox, series, c := newFindingAidsFixture(t)
	ctx := context.Background()

	e := newFolder(t, series, c, 3)
	require.NoError(t, repo.Save(ctx, e))
	assert.Empty(t, e.GetDomainEvents())
	assert.Equal(t, []string{findingaids.EventTypeFindingAidsCreated}, outbox.types())

	require.NoError(t, e.Publish())
	require.NoError(t, repo.Save(ctx, e))
	assert.Equal(t, []string{
		findingaids.EventTypeFindingAidsCreated,
		findingaids.EventTypeFindingAidsPublished,
	}, outbox.types())

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, stored.Published)
	assert.Equal(t, 2, stored.GetVersion())
	assert.Equal(t, "HU OSA 300-1-2:14/3", stored.ReferenceCode)
}

func TestAggregateStore_OutboxFailureRollsBack(t *testing.T) {
	_, repo, outbox, series, c := newFindingAidsFixture(t)
	ctx := context.Background()
	outbox.err = errors.New("outbox unavailable")

	e := newFolder(t, series, c, 1)
	err := repo.Save(ctx, e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbox unavailable")
	assert.Len(t, e.GetDomainEvents(), 1, "events stay queued when the save fails")

	_, err = repo.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAggregateStore_StaleUpdateConflicts(t *testing.T) {
	_, repo, _, series, c := newFindingAidsFixture(t)
	ctx := context.Background()

	e := newFolder(t, series, c, 1)
	require.NoError(t, repo.Save(ctx, e))

	first, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)

	require.NoError(t, first.Publish())
	require.NoError(t, repo.Save(ctx, first))

	second.SetConfidential(true)
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, stored.Published)
	assert.False(t, stored.Confidential)
}

func TestAggregateStore_DuplicateMapsToAlreadyExists(t *testing.T) {
	_, repo, _, series, c := newFindingAidsFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newFolder(t, series, c, 5)))
	err := repo.Save(ctx, newFolder(t, series, c, 5))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestAggregateStore_RemoveWritesDeleteEvent(t *testing.T) {
	_, repo, outbox, series, c := newFindingAidsFixture(t)
	ctx := context.Background()

	e := newFolder(t, series, c, 2)
	require.NoError(t, repo.Save(ctx, e))

	e.MarkDeleted()
	require.NoError(t, repo.Delete(ctx, e))
	assert.Equal(t, []string{
		findingaids.EventTypeFindingAidsCreated,
		findingaids.EventTypeFindingAidsDeleted,
	}, outbox.types())

	_, err := repo.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	e.MarkDeleted()
	assert.ErrorIs(t, repo.Delete(ctx, e), shared.ErrNotFound)
	assert.Len(t, outbox.types(), 2)
}

func TestAggregateStore_WithoutOutboxSaver(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormArchivalUnitRepository(db)
	fonds, err := archivalunit.NewFonds(35, archivalunit.Description{Title: "Radio Free Europe"})
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), fonds))
	assert.Empty(t, fonds.GetDomainEvents())
}

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), shared.ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), shared.ErrAlreadyExists)
	assert.ErrorIs(t, translateError(gorm.ErrForeignKeyViolated), shared.ErrInUse)
	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
}
