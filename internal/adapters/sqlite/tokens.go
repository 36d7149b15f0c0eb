package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/beneficiary-admin/internal/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// DefaultName is the row the admin token lives in.
const DefaultName = "admin"

const schema = `
CREATE TABLE IF NOT EXISTS session_tokens (
	name       TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`

// TokenStore keeps the session token in a SQLite file so a restart does not
// force a new login.
type TokenStore struct {
	db   *sql.DB
	name string
}

// New opens the SQLite database at dsn and creates the token table if
// needed.
func New(ctx context.Context, dsn string) (*TokenStore, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return &TokenStore{db: db, name: DefaultName}, nil
}

func (s *TokenStore) Close() error { return s.db.Close() }

// ── Tokens ────────────────────────────────────────────────────────────────────

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM session_tokens WHERE name=?`, s.name).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_tokens (name, token, updated_at) VALUES (?,?,?)
		ON CONFLICT(name) DO UPDATE SET token=excluded.token, updated_at=excluded.updated_at`,
		s.name, token, time.Now())
	return err
}

func (s *TokenStore) Delete(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE name=?`, s.name)
	return err
}

// UpdatedAt reports when the token was last saved, zero if none is stored.
func (s *TokenStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM session_tokens WHERE name=?`, s.name).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return at, err
}
