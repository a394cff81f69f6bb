package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// newTestDB creates a real SQLite file with a row in it.
func newTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "attackmode.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE marker (v TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO marker VALUES ('original')")
	require.NoError(t, err)
	return path
}

func readMarker(t *testing.T, path string) string {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var v string
	require.NoError(t, db.QueryRow("SELECT v FROM marker").Scan(&v))
	return v
}

func TestCreateAndList(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := NewManager(dbPath)

	snapshot, err := mgr.Create()
	require.NoError(t, err)
	assert.FileExists(t, snapshot)
	assert.Equal(t, "original", readMarker(t, snapshot), "snapshot must be a usable database")

	backups, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, snapshot, backups[0].Path)
	assert.Positive(t, backups[0].Size)
}

func TestCreate_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	_, err := mgr.Create()
	assert.Error(t, err)
}

func TestList_NoBackupDir(t *testing.T) {
	mgr := NewManager(newTestDB(t))
	backups, err := mgr.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestRestore(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := NewManager(dbPath)

	snapshot, err := mgr.Create()
	require.NoError(t, err)

	// Mutate the live database after the snapshot.
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE marker SET v = 'changed'")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Equal(t, "changed", readMarker(t, dbPath))

	require.NoError(t, mgr.Restore(snapshot))
	assert.Equal(t, "original", readMarker(t, dbPath))

	// Restore takes a safety snapshot of the pre-restore state.
	backups, err := mgr.List()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(backups), 2)
}

func TestRestore_MissingBackup(t *testing.T) {
	mgr := NewManager(newTestDB(t))
	assert.Error(t, mgr.Restore(filepath.Join(t.TempDir(), "nope.db")))
}

func TestRotation(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := NewManager(dbPath)

	// Seed more fake snapshots than the retention limit; stamps far in
	// the past so fresh snapshots sort newer.
	require.NoError(t, os.MkdirAll(mgr.BackupDir(), 0700))
	for i := 0; i < MaxBackups+3; i++ {
		name := fmt.Sprintf("%s20200101-1200%02d%s", filePrefix, i, fileSuffix)
		require.NoError(t, os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("stale"), 0600))
	}

	_, err := mgr.Create()
	require.NoError(t, err)

	backups, err := mgr.List()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(backups), MaxBackups)
}
