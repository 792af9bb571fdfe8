// Package journal records boxed words in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/nanbox/box"
	"github.com/chazu/nanbox/box/wire"
)

var log = commonlog.GetLogger("nanbox.journal")

// ErrClosed is returned by operations on a closed Journal.
var ErrClosed = errors.New("journal closed")

const schema = `CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	word INTEGER NOT NULL,
	kind TEXT NOT NULL,
	payload BLOB,
	created_at INTEGER NOT NULL
)`

const sessionIndex = `CREATE INDEX IF NOT EXISTS entries_session ON entries (session, id)`

// Entry is one recorded word.
type Entry struct {
	ID        int64
	Session   string
	Value     box.Value
	Kind      string
	Payload   []byte
	CreatedAt time.Time
}

// Record returns the entry as a wire record.
func (e Entry) Record() *wire.Record {
	return &wire.Record{
		Session: e.Session,
		Word:    e.Value.Bits(),
		Kind:    e.Kind,
		Payload: e.Payload,
	}
}

// Journal is an append-only log of boxed words.
type Journal struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewSession returns a fresh session identifier.
func NewSession() string {
	return uuid.New().String()
}

// Open opens (creating if needed) the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	for _, stmt := range []string{schema, sessionIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	log.Debugf("opened journal %s", path)
	return &Journal{db: db, path: path, now: time.Now}, nil
}

// Path returns the database path.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the database connection.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Append records v under session.
func (j *Journal) Append(ctx context.Context, session string, v box.Value) (Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return Entry{}, ErrClosed
	}

	rec, err := wire.NewRecord(session, v)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding value: %w", err)
	}
	e := Entry{
		Session:   session,
		Value:     v,
		Kind:      rec.Kind,
		Payload:   rec.Payload,
		CreatedAt: j.now().UTC(),
	}

	res, err := j.db.ExecContext(ctx,
		"INSERT INTO entries (session, word, kind, payload, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Session, int64(v.Bits()), e.Kind, []byte(e.Payload), e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("saving entry: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("reading entry id: %w", err)
	}

	log.Debugf("appended %s %#016x to session %s", e.Kind, v.Bits(), session)
	return e, nil
}

// Entries returns the entries of session in insertion order. An empty
// session returns every entry.
func (j *Journal) Entries(ctx context.Context, session string) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}

	query := "SELECT id, session, word, kind, payload, created_at FROM entries"
	var args []any
	if session != "" {
		query += " WHERE session = ?"
		args = append(args, session)
	}
	query += " ORDER BY id"

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			word    int64
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Session, &word, &e.Kind, &e.Payload, &created); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Value = box.FromBits(uint64(word))
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	return entries, nil
}

// Sessions returns the distinct session ids in order of first use.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}

	rows, err := j.db.QueryContext(ctx,
		"SELECT session FROM entries GROUP BY session ORDER BY MIN(id)")
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
