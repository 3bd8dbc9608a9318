package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct{ db *sqlx.DB }

func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: is per connection; one connection keeps a single database
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  data TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
`
	_, err := db.Exec(schema)
	return err
}

type sessionRow struct {
	Data      string `db:"data"`
	ExpiresAt int64  `db:"expires_at"`
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `SELECT data, expires_at FROM sessions WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if time.Now().Unix() >= row.ExpiresAt {
		return nil, ErrNotFound
	}
	var sess Session
	if err := json.Unmarshal([]byte(row.Data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLiteStore) Put(ctx context.Context, sess *Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	expires := time.Now().Add(ttl).Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions(id, data, expires_at) VALUES(?,?,?)
		ON CONFLICT(id) DO UPDATE SET data=excluded.data, expires_at=excluded.expires_at
	`, sess.ID, string(b), expires)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	return err
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
