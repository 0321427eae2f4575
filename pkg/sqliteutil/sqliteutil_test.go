package sqliteutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	db, err := Config{File: path}.OpenDB()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, `create table if not exists kv (key text primary key, value text not null);`))
	require.NoError(t, Migrate(db, `create table if not exists kv (key text primary key, value text not null);`))

	_, err = db.Exec("insert into kv(key, value) values ('a', '1')")
	require.NoError(t, err)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestConfig(t *testing.T) {
	require.False(t, Config{}.Enabled())
	require.True(t, Config{File: "x.db"}.Enabled())

	_, err := Config{}.OpenDB()
	require.Error(t, err)
}
