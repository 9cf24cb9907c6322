package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and *pgx.Conn.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore keeps the ledger in the highscore table created by the
// database migrations.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

type highscore struct {
	Position   int    `db:"position"`
	Difficulty string `db:"difficulty"`
	Holder     string `db:"holder"`
	Seconds    int    `db:"seconds"`
}

func notFound(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Message)
	}
	return err
}

func (s *PostgresStore) Read(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT position, difficulty, holder, seconds
		FROM highscore
		ORDER BY position;`)
	if err != nil {
		return nil, notFound(err)
	}
	highscores, err := pgx.CollectRows(rows, pgx.RowToStructByName[highscore])
	if err != nil {
		return nil, notFound(err)
	}
	if len(highscores) == 0 {
		return nil, ErrNotFound
	}
	entries := make([]Entry, len(highscores))
	for i, h := range highscores {
		entries[i] = Entry{
			Difficulty: h.Difficulty,
			Record:     Record{Name: h.Holder, Seconds: h.Seconds},
		}
	}
	return entries, nil
}

func (s *PostgresStore) Write(ctx context.Context, entries []Entry) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM highscore;`); err != nil {
			return err
		}
		for i, e := range entries {
			if _, err := tx.Exec(ctx, `
				INSERT INTO highscore (position, difficulty, holder, seconds)
				VALUES (@position, @difficulty, @holder, @seconds);`,
				pgx.NamedArgs{
					"position":   i,
					"difficulty": e.Difficulty,
					"holder":     e.Name,
					"seconds":    e.Seconds,
				}); err != nil {
				return err
			}
		}
		return nil
	})
}
