package ledger

import (
	"context"
	"errors"
)

const (
	DefaultName    = "N/A"
	DefaultSeconds = 999
	AnonymousName  = "Anonymous"
)

var (
	ErrNotFound          = errors.New("no high scores stored")
	ErrMalformed         = errors.New("malformed high score storage")
	ErrUnknownDifficulty = errors.New("difficulty has no high score record")
)

// Record is the best time for one difficulty and who set it.
type Record struct {
	Name    string `json:"name"`
	Seconds int    `json:"seconds"`
}

var DefaultRecord = Record{Name: DefaultName, Seconds: DefaultSeconds}

// Entry ties a record to the name of its difficulty.
type Entry struct {
	Difficulty string `json:"difficulty"`
	Record
}

// Records maps difficulty names to their record.
type Records map[string]Record

// Store persists the whole ledger. Write replaces everything previously
// written in one step: a reader sees either the old or the new ledger.
// Read returns [ErrNotFound] when nothing has been written yet.
type Store interface {
	Read(ctx context.Context) ([]Entry, error)
	Write(ctx context.Context, entries []Entry) error
}
