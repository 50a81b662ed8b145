package telemetry_test

import (
	"testing"
	"time"

	"github.com/ams/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type shelf struct {
	ID   uint
	Name string
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&shelf{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openDB(t)
	core, logs := observer.New(zap.DebugLevel)

	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{}, zap.New(core)))
	require.NoError(t, db.Create(&shelf{Name: "A1"}).Error)
	assert.Zero(t, logs.FilterMessage("slow query").Len())
}

func TestRegisterDBTracing_LogsSlowQueries(t *testing.T) {
	db := openDB(t)
	core, logs := observer.New(zap.DebugLevel)

	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{
		Enabled:         true,
		DBName:          "ams",
		SlowQueryThresh: time.Nanosecond,
	}, zap.New(core)))

	require.NoError(t, db.Create(&shelf{Name: "A1"}).Error)
	var got []shelf
	require.NoError(t, db.Find(&got).Error)

	slow := logs.FilterMessage("slow query").All()
	require.GreaterOrEqual(t, len(slow), 2)
	assert.Equal(t, "shelves", slow[0].ContextMap()["table"])
}
