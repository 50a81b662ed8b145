package indexing

import (
	"context"
	"testing"

	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/catalogindex"
	"github.com/ams/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture is an archive with one final fonds, a series and a container,
// backed by in-memory sqlite and a memory catalog index
type fixture struct {
	t   *testing.T
	ctx context.Context

	isaar       *persistence.GormIsaarRepository
	units       *persistence.GormArchivalUnitRepository
	containers  *persistence.GormContainerRepository
	findingAids *persistence.GormFindingAidsRepository
	versions    *persistence.GormDigitalVersionRepository

	index   *catalogindex.MemoryIndex
	handler *IndexingHandler

	creator *authority.IsaarRecord
	fonds   *archivalunit.ArchivalUnit
	series  *archivalunit.ArchivalUnit
	box     *container.Container
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), persistence.NewGormConfig(
		persistence.WithGormLogger(logger.Default.LogMode(logger.Silent)),
	))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&authority.IsaarRecord{},
		&archivalunit.ArchivalUnit{},
		&container.Container{},
		&findingaids.FindingAidsEntity{},
		&digitization.DigitalVersion{},
	))

	f := &fixture{
		t:           t,
		ctx:         context.Background(),
		isaar:       persistence.NewGormIsaarRepository(db),
		units:       persistence.NewGormArchivalUnitRepository(db),
		containers:  persistence.NewGormContainerRepository(db),
		findingAids: persistence.NewGormFindingAidsRepository(db),
		versions:    persistence.NewGormDigitalVersionRepository(db),
		index:       catalogindex.NewMemoryIndex(),
	}
	f.handler = NewIndexingHandler(f.builders(), f.index, f.findingAids, f.units, zap.NewNop())

	f.creator, err = authority.NewIsaarRecord(authority.Description{
		Name: "Radio Free Europe Research Institute",
		Type: authority.EntityTypeCorporate,
	})
	require.NoError(t, err)
	require.NoError(t, f.isaar.Save(f.ctx, f.creator))
	require.NoError(t, f.creator.Finalize())
	require.NoError(t, f.isaar.Save(f.ctx, f.creator))

	f.fonds, err = archivalunit.NewFonds(300, archivalunit.Description{
		Title:      "Records of the Research Institute",
		DateFrom:   1949,
		DateTo:     1995,
		CreatorIDs: []uuid.UUID{f.creator.ID},
	})
	require.NoError(t, err)
	require.NoError(t, f.units.Save(f.ctx, f.fonds))
	require.NoError(t, f.fonds.Finalize())
	require.NoError(t, f.units.Save(f.ctx, f.fonds))

	subfonds, err := archivalunit.NewSubfonds(f.fonds, 1, archivalunit.Description{Title: "Hungarian Unit"})
	require.NoError(t, err)
	require.NoError(t, f.units.Save(f.ctx, subfonds))

	f.series, err = archivalunit.NewSeries(subfonds, 2, archivalunit.Description{
		Title:      "Subject Files",
		CreatorIDs: []uuid.UUID{f.creator.ID},
	})
	require.NoError(t, err)
	require.NoError(t, f.units.Save(f.ctx, f.series))

	f.box, err = container.NewContainer(f.series.ID, f.series.ReferenceCode(), 1, "Archival Box", "")
	require.NoError(t, err)
	require.NoError(t, f.containers.Save(f.ctx, f.box))
	return f
}

func (f *fixture) builders() Builders {
	return DefaultBuilders(Sources{
		Isaar:           f.isaar,
		Units:           f.units,
		Containers:      f.containers,
		FindingAids:     f.findingAids,
		DigitalVersions: f.versions,
	})
}

// folder stores a folder in the fixture container and returns the events it raised
func (f *fixture) folder(no int, title string) (*findingaids.FindingAidsEntity, []shared.DomainEvent) {
	f.t.Helper()
	e, err := findingaids.NewFolder(findingaids.Placement{
		ArchivalUnitID:         f.series.ID,
		ContainerID:            f.box.ID,
		ContainerReferenceCode: f.box.ReferenceCode,
		FolderNo:               no,
	}, findingaids.Description{
		Title:         title,
		TitleOriginal: "Áttelepítések",
		DateFrom:      "1956-10",
		DateTo:        "1957",
		Languages:     []string{"hu", "en"},
	})
	require.NoError(f.t, err)
	events := pending(e)
	require.NoError(f.t, f.findingAids.Save(f.ctx, e))
	return e, events
}

// pending copies the events an aggregate will write on its next save
func pending(agg shared.AggregateRoot) []shared.DomainEvent {
	return append([]shared.DomainEvent(nil), agg.GetDomainEvents()...)
}

// handleAll feeds events to the handler in order
func (f *fixture) handleAll(events []shared.DomainEvent) {
	f.t.Helper()
	for _, e := range events {
		require.NoError(f.t, f.handler.Handle(f.ctx, e))
	}
}
