package cursor

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "embed"

	"loginbot/pkg/sqliteutil"
)

//go:embed schema.sql
var Schema string

// Store is the durable key-value namespace the cursor lives in.
//
// note: fault injection point
type Store interface {
	// Get returns found=false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps values in a map, it is safe for concurrent use.
type MemoryStore struct {
	mutex  sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	value, found := s.values[key]
	return value, found, nil
}

func (s *MemoryStore) Put(ctx context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.values, key)
	return nil
}

// SQLStore keeps values in the kv table of a sqlite or libsql database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates the kv table if it doesn't exist yet.
func NewSQLStore(db *sql.DB) (SQLStore, error) {
	err := sqliteutil.Migrate(db, Schema)
	if err != nil {
		return SQLStore{}, err
	}
	return SQLStore{db: db}, nil
}

func (s SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "select value from kv where key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s SQLStore) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into kv(key, value) values (?, ?)
		on conflict(key) do update set value = excluded.value`,
		key, value,
	)
	return err
}

func (s SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "delete from kv where key = ?", key)
	return err
}
