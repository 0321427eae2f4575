package sqliteutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config picks between a local sqlite file and a remote libsql database,
// the remote one wins when both are given.
type Config struct {
	File      string `json:"file"`
	URL       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Enabled() bool {
	return c.File != "" || c.URL != ""
}

func (c Config) OpenDB() (*sql.DB, error) {
	if c.URL != "" {
		return OpenRemote(c.URL, c.AuthToken)
	}
	if c.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	return OpenFile(c.File)
}

// OpenFile opens (creating if necessary) a sqlite database at the given path.
func OpenFile(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer, see
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func OpenRemote(dbUrl, authToken string) (*sql.DB, error) {
	if authToken != "" {
		parsed, err := url.Parse(dbUrl)
		if err != nil {
			return nil, err
		}
		query := parsed.Query()
		query.Set("authToken", authToken)
		parsed.RawQuery = query.Encode()
		dbUrl = parsed.String()
	}
	return sql.Open("libsql", dbUrl)
}

// Migrate executes the given schema, it must be idempotent.
func Migrate(db *sql.DB, schema string) error {
	_, err := db.Exec(schema)
	return err
}
