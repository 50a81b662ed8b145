package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB returns a postgres-dialect gorm DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, NewGormConfig())
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func TestGormContainerRepository_FindByID_Postgres(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormContainerRepository(db)

	id := uuid.New()
	unitID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "version", "archival_unit_id", "container_no", "carrier_type", "barcode", "reference_code"}).
		AddRow(id, 3, unitID, 14, "Archival Box", "HU-00042", "HU OSA 300-1-2:14")
	mock.ExpectQuery(`SELECT \* FROM "containers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnRows(rows)

	c, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 14, c.ContainerNo)
	assert.Equal(t, 3, c.GetVersion())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormContainerRepository_FindByID_NotFound_Postgres(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormContainerRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "containers" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormContainerRepository_StaleUpdate_Postgres(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormContainerRepository(db)

	c, err := container.NewContainer(uuid.New(), "HU OSA 300-1-2", 14, "Archival Box", "")
	require.NoError(t, err)
	require.NoError(t, c.Update("Film Can", ""))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "containers" SET .* WHERE version < \$\d+ AND .*"id" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.Save(context.Background(), c)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
