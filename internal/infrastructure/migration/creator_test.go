package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"add donors table", "add_donors_table"},
		{"Add-Finding Aids!", "add_finding_aids"},
		{"  __x__ ", "x"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.in))
		})
	}
}

func TestCreateMigration_EmptyDirStartsAtOne(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add shelf locations", "Shelf locations for containers")
	require.NoError(t, err)

	assert.Equal(t, "000001", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_shelf_locations.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_shelf_locations.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add shelf locations")
	assert.Contains(t, string(up), "-- Description: Shelf locations for containers")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(down), "-- Rollback: add shelf locations"))
}

func TestCreateMigration_NumbersAfterHighestVersion(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"000001_a.up.sql", "000001_a.down.sql", "000007_b.up.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}

	mf, err := CreateMigration(dir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, "000008", mf.Version)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(up), "Description")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "???", "")
	assert.Error(t, err)
}
