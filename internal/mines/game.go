package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// TicksPerSecond is the rate at which the driver calls [Session.Tick].
const TicksPerSecond = 10

// Session is one game in play: the board, what the player sees of it,
// the clock and the click counter. It is not safe for concurrent use.
type Session struct {
	difficulty Difficulty
	board      *Board
	grid       Grid
	rnd        *rand.Rand

	clicks int
	ticks  int
	flags  int

	over, hitMine, won bool
}

type Option func(*Session)

// WithRand sets the generator used for mine placement.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.rnd = r
	}
}

func NewSession(d Difficulty, opts ...Option) (*Session, error) {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = NewRand()
	}
	if err := s.Reset(d); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset starts a new game on d. On error the current game is kept.
func (s *Session) Reset(d Difficulty) error {
	board, err := Generate(d, nil, s.rnd)
	if err != nil {
		return err
	}
	s.difficulty = d
	s.board = board
	s.grid = newGrid(d.Cells())
	s.clicks, s.ticks, s.flags = 0, 0, 0
	s.over, s.hitMine, s.won = false, false, false
	return nil
}

// mustGenerate regenerates the board for the current difficulty, which
// was validated by Reset.
func (s *Session) mustGenerate(exclude *Point) *Board {
	board, err := Generate(s.difficulty, exclude, s.rnd)
	if err != nil {
		panic(err)
	}
	return board
}

// settle records the result of a move.
func (s *Session) settle(hitMine bool) {
	switch Evaluate(s.board, s.grid, hitMine) {
	case Lost:
		s.over, s.hitMine = true, true
		Log.WithFields(logrus.Fields{
			"difficulty": s.difficulty.String(),
			"clicks":     s.clicks,
		}).Debug("game lost")
	case Won:
		s.over, s.won = true, true
		Log.WithFields(logrus.Fields{
			"difficulty": s.difficulty.String(),
			"clicks":     s.clicks,
			"seconds":    s.ElapsedSeconds(),
		}).Debug("game won")
	}
}

// Tick advances the game clock by one step while the game is running.
func (s *Session) Tick() {
	if !s.over {
		s.ticks++
	}
}

func (s *Session) Status() Status {
	switch {
	case s.won:
		return Won
	case s.hitMine:
		return Lost
	case s.clicks == 0:
		return AwaitingFirstMove
	default:
		return InProgress
	}
}

func (s *Session) Difficulty() Difficulty {
	return s.difficulty
}

func (s *Session) Clicks() int {
	return s.clicks
}

func (s *Session) ElapsedSeconds() int {
	return s.ticks / TicksPerSecond
}

func (s *Session) RemainingFlags() int {
	return s.difficulty.MineCount - s.flags
}

// Snapshot is a copy of the player-visible state.
type Snapshot struct {
	Difficulty     Difficulty `json:"difficulty"`
	Grid           Grid       `json:"grid"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	RemainingFlags int        `json:"remaining_flags"`
	Clicks         int        `json:"clicks"`
	Status         Status     `json:"status"`
	// Solution is the full board, filled in once the game is over.
	Solution []Cell `json:"solution,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	grid := make(Grid, len(s.grid))
	copy(grid, s.grid)
	snap := Snapshot{
		Difficulty:     s.difficulty,
		Grid:           grid,
		ElapsedSeconds: s.ElapsedSeconds(),
		RemainingFlags: s.RemainingFlags(),
		Clicks:         s.clicks,
		Status:         s.Status(),
	}
	if s.over {
		snap.Solution = s.board.Cells()
	}
	return snap
}
