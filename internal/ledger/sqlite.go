package ledger

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

var ErrBadName = errors.New("bad name for store")

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isLetters(s string) bool {
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return s != ""
}

// SQLiteStore keeps the ledger in a single SQLite table.
type SQLiteStore struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

// OpenSQLite opens the database file at path and checks that it is
// usable.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Creates a new [SQLiteStore] backed by table name. name may only contain
// upper- or lowercase Latin letters.
func NewSQLiteStore(db *sql.DB, name string) (*SQLiteStore, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + name + ` (
	position	INTEGER PRIMARY KEY,
	difficulty	TEXT NOT NULL UNIQUE,
	holder		TEXT NOT NULL,
	seconds		INTEGER NOT NULL
);`)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{name: name, db: db}, nil
}

func (s *SQLiteStore) Read(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT difficulty, holder, seconds FROM `+s.name+` ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Difficulty, &e.Name, &e.Seconds); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}

// Write replaces every row inside one transaction.
func (s *SQLiteStore) Write(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.name+`;`); err != nil {
		return err
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO `+s.name+` (position, difficulty, holder, seconds)
VALUES (?, ?, ?, ?);`,
			i, e.Difficulty, e.Name, e.Seconds); err != nil {
			return err
		}
	}
	return tx.Commit()
}
