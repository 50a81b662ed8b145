package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/ams/backend/internal/domain/accession"
	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/donor"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/research"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingOutbox collects events written through the outbox saver
type recordingOutbox struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func (o *recordingOutbox) SaveEvents(_ context.Context, _ any, events ...shared.DomainEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.events = append(o.events, events...)
	return nil
}

func (o *recordingOutbox) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.EventType()
	}
	return out
}

// setupTestDB opens an in-memory sqlite database with every archival table
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), NewGormConfig(WithGormLogger(logger.Default.LogMode(logger.Silent))))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&donor.Donor{},
		&accession.Accession{},
		&authority.IsaarRecord{},
		&archivalunit.ArchivalUnit{},
		&container.Container{},
		&findingaids.FindingAidsEntity{},
		&digitization.DigitalVersion{},
		&research.Researcher{},
		&research.ResearchRequest{},
		&research.RequestItem{},
	))
	return db
}

// seedSeries stores fonds 300, subfonds 300-1 and series 300-1-2
func seedSeries(t *testing.T, repo *GormArchivalUnitRepository) (*archivalunit.ArchivalUnit, *archivalunit.ArchivalUnit, *archivalunit.ArchivalUnit) {
	t.Helper()
	ctx := context.Background()
	fonds, err := archivalunit.NewFonds(300, archivalunit.Description{Title: "Records of the Research Institute"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, fonds))
	subfonds, err := archivalunit.NewSubfonds(fonds, 1, archivalunit.Description{Title: "Research Department"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, subfonds))
	series, err := archivalunit.NewSeries(subfonds, 2, archivalunit.Description{Title: "Subject Files"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, series))
	return fonds, subfonds, series
}

func seedContainer(t *testing.T, db *gorm.DB, series *archivalunit.ArchivalUnit, no int) *container.Container {
	t.Helper()
	c, err := container.NewContainer(series.ID, series.ReferenceCode(), no, "Archival Box", "")
	require.NoError(t, err)
	require.NoError(t, NewGormContainerRepository(db).Save(context.Background(), c))
	return c
}
