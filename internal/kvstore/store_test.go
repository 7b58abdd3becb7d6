package kvstore

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aristath/coindash/internal/database"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL, updated_at INTEGER NOT NULL);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// exerciseStore runs the shared contract against any Store implementation
func exerciseStore(t *testing.T, store Store) {
	value, found, err := store.Get("portfolio")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)

	require.NoError(t, store.Set("portfolio", []byte(`{"holdings":{},"transactions":[]}`)))
	value, found, err = store.Get("portfolio")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"holdings":{},"transactions":[]}`, string(value))

	// Overwrite keeps a single row per key
	require.NoError(t, store.Set("portfolio", []byte(`[]`)))
	value, _, err = store.Get("portfolio")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value))

	// Keys are independent
	require.NoError(t, store.Set("alerts", []byte(`[1]`)))
	value, _, err = store.Get("portfolio")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, store.Set("k", buf))
	buf[0] = 'x'

	got, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _, _ := store.Get("k")
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, NewSQLiteStore(setupTestDB(t), zerolog.Nop()))
}

func TestSQLiteStore_SingleRowPerKey(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteStore(db, zerolog.Nop())

	require.NoError(t, store.Set("alerts", []byte("[]")))
	require.NoError(t, store.Set("alerts", []byte("[{}]")))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM kv WHERE key = 'alerts'").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLiteStore_MissingTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLiteStore(db, zerolog.Nop())
	_, _, err = store.Get("portfolio")
	assert.Error(t, err)
	assert.Error(t, store.Set("portfolio", []byte("{}")))
}

func TestSQLiteStore_OnMigratedDatabase(t *testing.T) {
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "kv.db"),
		Name: "kv",
	})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	exerciseStore(t, NewSQLiteStore(db.Conn(), zerolog.Nop()))
}
