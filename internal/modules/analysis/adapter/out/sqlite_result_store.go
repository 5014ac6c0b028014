package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resumedash/internal/modules/analysis/domain"
	analysisout "resumedash/internal/modules/analysis/port/out"

	_ "modernc.org/sqlite"
)

// resultKey names the one slot every save overwrites. It is not namespaced
// by user, so a new sign-in sees the previous user's result until the next
// upload.
const resultKey = "analysis"

type SQLiteResultStore struct {
	db *sql.DB
}

func NewSQLiteResultStore(dbPath string) (*SQLiteResultStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteResultStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var _ analysisout.ResultStore = (*SQLiteResultStore)(nil)

func (s *SQLiteResultStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLiteResultStore) Save(ctx context.Context, result domain.StoredResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	const stmt = `
INSERT INTO kv (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, resultKey, string(payload), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

func (s *SQLiteResultStore) Load(ctx context.Context) (domain.StoredResult, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, resultKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoredResult{}, false, nil
	}
	if err != nil {
		return domain.StoredResult{}, false, fmt.Errorf("load analysis: %w", err)
	}
	stored := domain.StoredResult{}
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return domain.StoredResult{}, false, fmt.Errorf("decode analysis: %w", err)
	}
	return stored, true, nil
}

func (s *SQLiteResultStore) Close() error {
	return s.db.Close()
}
