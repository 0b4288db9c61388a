package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestSQLite(t *testing.T) {
	slot, err := NewSQLite(setupTestDB(t))
	require.NoError(t, err)
	defer slot.Close()

	exerciseSlot(t, slot)
}

func TestSQLite_UpsertKeepsOneRow(t *testing.T) {
	db := setupTestDB(t)
	slot, err := NewSQLite(db)
	require.NoError(t, err)
	defer slot.Close()

	for _, v := range []string{"[1]", "[1,2]", "[1,2,3]"} {
		require.NoError(t, slot.Save("tasks", []byte(v)))
	}

	var count int64
	require.NoError(t, db.Model(&Entry{}).Where("name = ?", "tasks").Count(&count).Error)
	require.EqualValues(t, 1, count)

	got, err := slot.Load("tasks")
	require.NoError(t, err)
	require.Equal(t, "[1,2,3]", string(got))
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")

	slot, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, slot.Save("tasks", []byte(`[{"id":7}]`)))
	require.NoError(t, slot.Close())

	slot, err = OpenSQLite(path)
	require.NoError(t, err)
	defer slot.Close()

	got, err := slot.Load("tasks")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":7}]`, string(got))
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	require.Error(t, err)
}

func TestOpenSQLite_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	junk := []byte("this is not a sqlite file, just some text that is long enough to fill a header")
	require.NoError(t, os.WriteFile(path, junk, 0600))

	_, err := OpenSQLite(path)
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, junk, got)
}
