package ledger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/yourssweeper/internal/mines"
	"github.com/vancomm/yourssweeper/internal/strutil"
)

// Ledger holds the best time per tracked difficulty and mirrors every
// change to its [Store]. It is safe for concurrent use.
type Ledger struct {
	mu           sync.RWMutex
	store        Store
	log          logrus.FieldLogger
	difficulties []mines.Difficulty
	records      Records
}

// New creates a ledger tracking difficulties, or the presets when none
// are given. Records start at [DefaultRecord] until [Ledger.Load].
func New(store Store, log logrus.FieldLogger, difficulties ...mines.Difficulty) *Ledger {
	if len(difficulties) == 0 {
		difficulties = mines.Presets()
	}
	l := &Ledger{
		store:        store,
		log:          log,
		difficulties: difficulties,
	}
	l.records = l.defaults()
	return l
}

func (l *Ledger) defaults() Records {
	records := make(Records, len(l.difficulties))
	for _, d := range l.difficulties {
		records[d.Name] = DefaultRecord
	}
	return records
}

func (l *Ledger) entries(records Records) []Entry {
	entries := make([]Entry, len(l.difficulties))
	for i, d := range l.difficulties {
		entries[i] = Entry{Difficulty: d.Name, Record: records[d.Name]}
	}
	return entries
}

// Load reads the store. Storage that is missing, malformed or lacks a
// tracked difficulty is rewritten with defaults filling the gaps; other
// read errors fall back to defaults without touching the store.
func (l *Ledger) Load(ctx context.Context) []Entry {
	records := l.defaults()
	stored, err := l.store.Read(ctx)

	complete := false
	switch {
	case errors.Is(err, ErrNotFound):
		l.log.Info("no high scores stored, starting from defaults")
	case errors.Is(err, ErrMalformed):
		l.log.WithError(err).Warn("discarding malformed high scores")
	case err != nil:
		l.log.WithError(err).Warn("unable to read high scores, using defaults")
		complete = true
	default:
		missing := maps.Clone(records)
		for _, e := range stored {
			if _, ok := records[e.Difficulty]; !ok {
				l.log.WithField("difficulty", e.Difficulty).
					Debug("ignoring record for untracked difficulty")
				continue
			}
			records[e.Difficulty] = e.Record
			delete(missing, e.Difficulty)
		}
		complete = len(missing) == 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !complete {
		if err := l.store.Write(ctx, l.entries(records)); err != nil {
			l.log.WithError(err).Warn("unable to store default high scores")
		}
	}
	l.records = records
	return l.entries(records)
}

// Tracked reports whether d has a record.
func (l *Ledger) Tracked(d mines.Difficulty) bool {
	for _, td := range l.difficulties {
		if td == d {
			return true
		}
	}
	return false
}

func (l *Ledger) Record(d mines.Difficulty) (Record, bool) {
	if !l.Tracked(d) {
		return Record{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records[d.Name], true
}

// Entries returns all records in tracking order.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries(l.records)
}

// IsNewHighScore reports whether a game on d finished in seconds beats the
// stored record. Lost games and untracked difficulties never do.
func (l *Ledger) IsNewHighScore(d mines.Difficulty, seconds int, won bool) bool {
	if !won {
		return false
	}
	record, ok := l.Record(d)
	return ok && seconds < record.Seconds
}

// Commit replaces the record for d. An empty name is stored as
// [AnonymousName]. The in-memory record only changes once the store
// accepted the whole ledger.
func (l *Ledger) Commit(ctx context.Context, d mines.Difficulty, name string, seconds int) error {
	if err := l.check(d, seconds); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit(ctx, d, name, seconds)
}

// Submit commits the result when it is a new high score and reports
// whether it was. The comparison and the write happen under one lock.
func (l *Ledger) Submit(ctx context.Context, d mines.Difficulty, name string, seconds int, won bool) (bool, error) {
	if !won || !l.Tracked(d) {
		return false, nil
	}
	if err := l.check(d, seconds); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if seconds >= l.records[d.Name].Seconds {
		return false, nil
	}
	if err := l.commit(ctx, d, name, seconds); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Ledger) check(d mines.Difficulty, seconds int) error {
	if !l.Tracked(d) {
		return fmt.Errorf("%w: %s", ErrUnknownDifficulty, d)
	}
	if seconds < 0 {
		return fmt.Errorf("negative time: %d seconds", seconds)
	}
	return nil
}

// commit must be called with l.mu held.
func (l *Ledger) commit(ctx context.Context, d mines.Difficulty, name string, seconds int) error {
	name = strutil.OneLine(name)
	if name == "" {
		name = AnonymousName
	}
	next := maps.Clone(l.records)
	next[d.Name] = Record{Name: name, Seconds: seconds}
	if err := l.store.Write(ctx, l.entries(next)); err != nil {
		return fmt.Errorf("unable to store high scores: %w", err)
	}
	l.records = next

	l.log.WithFields(logrus.Fields{
		"difficulty": d.Name,
		"holder":     name,
		"seconds":    seconds,
	}).Info("new high score")
	return nil
}
