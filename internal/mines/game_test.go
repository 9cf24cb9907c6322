package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var floodBoard = []string{
	".....",
	".....",
	"...**",
	"...*.",
	"...*.",
}

func TestNewSessionInvalid(t *testing.T) {
	_, err := NewSession(Difficulty{Rows: 2, Cols: 2, MineCount: 4})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSafeFirstClick(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	t.Parallel()

	tests := []Difficulty{
		Easy,
		Medium,
		Hard,
		{Name: "dense", Rows: 4, Cols: 4, MineCount: 15},
	}

	for _, d := range tests {
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for row := range d.Rows {
				for col := range d.Cols {
					s, err := NewSession(d, WithRand(r))
					require.NoError(t, err)
					outcome := s.Reveal(row, col)
					require.Equal(t, Safe, outcome, "%s @ %d:%d", d, row, col)
					require.Equal(t, d.MineCount, s.board.Mines())
				}
			}
		})
	}
}

func TestFirstClickOnMineRegenerates(t *testing.T) {
	mined := make([]bool, Easy.Cells())
	for _, i := range []int{0, 9, 18, 27, 36, 45, 54, 63, 7, 56} {
		mined[i] = true
	}
	s, err := NewSession(Easy, WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	s.board = newBoard(Easy, mined)
	require.True(t, s.board.At(0, 0).IsMine())

	assert.Equal(t, Safe, s.Reveal(0, 0))
	assert.False(t, s.board.At(0, 0).IsMine())
	assert.Equal(t, Easy.MineCount, s.board.Mines())
	assert.Equal(t, 1, s.Clicks())
	assert.NotEqual(t, Lost, s.Status())
}

func TestSecondClickOnMineLoses(t *testing.T) {
	s := sessionWithBoard(t, layout(
		"*..",
		"...",
		"..*",
	))
	assert.Equal(t, Safe, s.Reveal(0, 1))
	assert.Equal(t, InProgress, s.Status())
	assert.Equal(t, HitMine, s.Reveal(0, 0))
	assert.Equal(t, Lost, s.Status())
	assert.Equal(t, Tile{State: Revealed, Value: Mine}, s.grid[0])
}

func TestFloodReveal(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))

	assert.Equal(t, Safe, s.Reveal(0, 0))

	hidden := map[Point]bool{
		{2, 3}: true, {2, 4}: true, {3, 3}: true, {4, 3}: true, // mines
		{3, 4}: true, {4, 4}: true,
	}
	for row := range 5 {
		for col := range 5 {
			tile := s.grid[s.difficulty.index(row, col)]
			if hidden[Point{row, col}] {
				assert.Equal(t, Covered, tile.State, "%d:%d", row, col)
			} else {
				assert.Equal(t, Revealed, tile.State, "%d:%d", row, col)
				assert.Equal(t, s.board.At(row, col), tile.Value)
			}
		}
	}
	assert.Equal(t, 1, s.Clicks())
	assert.Equal(t, InProgress, s.Status())
}

func TestFloodMatchesConnectedRegion(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for range 25 {
		b, err := Generate(Hard, nil, r)
		require.NoError(t, err)

		start := -1
		for i, c := range b.cells {
			if c == 0 {
				start = i
				break
			}
		}
		if start < 0 {
			continue
		}

		s := sessionWithBoard(t, b)
		p := b.point(start)
		require.Equal(t, Safe, s.Reveal(p.Row, p.Col))
		assert.Equal(t, expectedFlood(b, start), revealedSet(s.grid))
	}
}

func expectedFlood(b *Board, start int) map[int]bool {
	seen := make(map[int]bool)
	var visit func(i int)
	visit = func(i int) {
		if seen[i] {
			return
		}
		seen[i] = true
		if b.cells[i] == 0 {
			for j := range b.neighbors(i) {
				visit(j)
			}
		}
	}
	visit(start)
	return seen
}

func TestFlagThenRevealThrough(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))

	s.ToggleFlag(2, 2)
	i := s.difficulty.index(2, 2)
	require.Equal(t, Flagged, s.grid[i].State)
	require.Equal(t, 3, s.RemainingFlags())

	assert.Equal(t, NoOp, s.Reveal(2, 2))
	assert.Equal(t, Flagged, s.grid[i].State)
	assert.Equal(t, 0, s.Clicks())

	assert.Equal(t, Safe, s.Reveal(0, 0))
	assert.Equal(t, Tile{State: Revealed, Value: 2}, s.grid[i])
	assert.Equal(t, 4, s.RemainingFlags())
}

func TestFlagCap(t *testing.T) {
	s := sessionWithBoard(t, layout(
		"*.*",
		"...",
		"...",
	))
	s.ToggleFlag(2, 0)
	s.ToggleFlag(2, 1)
	require.Equal(t, 0, s.RemainingFlags())

	before := s.Snapshot().Grid
	s.ToggleFlag(2, 2)
	assert.Equal(t, before, s.Snapshot().Grid)
	assert.Equal(t, 0, s.RemainingFlags())

	s.ToggleFlag(2, 1)
	assert.Equal(t, 1, s.RemainingFlags())
	s.ToggleFlag(2, 2)
	assert.Equal(t, Flagged, s.grid[s.difficulty.index(2, 2)].State)
}

func TestToggleFlagNoOps(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	s.Reveal(0, 0)
	before := s.Snapshot()

	s.ToggleFlag(0, 0)  // revealed
	s.ToggleFlag(-1, 0) // out of bounds
	s.ToggleFlag(0, 5)

	assert.Equal(t, before, s.Snapshot())
}

func TestRevealOutOfBounds(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	for _, p := range []Point{{-1, 0}, {0, -1}, {5, 0}, {0, 5}} {
		assert.Equal(t, NoOp, s.Reveal(p.Row, p.Col))
	}
	assert.Equal(t, 0, s.Clicks())
	assert.Equal(t, AwaitingFirstMove, s.Status())
}

func TestWinByRevealingEverySafeCell(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	s.Reveal(0, 0)
	s.Reveal(3, 4)
	require.Equal(t, InProgress, s.Status())
	assert.Equal(t, Safe, s.Reveal(4, 4))
	assert.Equal(t, Won, s.Status())
	assert.NotNil(t, s.Snapshot().Solution)
}

func TestFlaggedSafeCellBlocksRevealWin(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	s.Reveal(0, 0)
	s.ToggleFlag(4, 4)
	s.Reveal(3, 4)
	assert.Equal(t, InProgress, s.Status())

	s.ToggleFlag(4, 4)
	s.Reveal(4, 4)
	assert.Equal(t, Won, s.Status())
}

func TestWinByFlaggingEveryMine(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	s.Reveal(0, 0)
	s.ToggleFlag(2, 3)
	s.ToggleFlag(2, 4)
	s.ToggleFlag(3, 3)
	require.Equal(t, InProgress, s.Status())
	s.ToggleFlag(4, 3)
	assert.Equal(t, Won, s.Status())
}

func TestEvaluate(t *testing.T) {
	b := layout(
		"*.",
		"..",
	)
	all := func(state TileState) Grid {
		g := newGrid(4)
		for i := range g {
			g[i] = Tile{State: state, Value: b.cells[i]}
		}
		return g
	}

	revealedSafe := all(Revealed)
	revealedSafe[0] = Tile{State: Covered}

	onlyMineFlagged := all(Covered)
	onlyMineFlagged[0] = Tile{State: Flagged}

	overFlagged := all(Flagged)

	tests := []struct {
		name    string
		grid    Grid
		hitMine bool
		want    Status
	}{
		{"fresh", all(Covered), false, InProgress},
		{"all safe revealed", revealedSafe, false, Won},
		{"exactly the mines flagged", onlyMineFlagged, false, Won},
		{"everything flagged", overFlagged, false, InProgress},
		{"hit mine", revealedSafe, true, Lost},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Evaluate(b, test.grid, test.hitMine))
		})
	}
}

func TestGameOverIsTerminal(t *testing.T) {
	s := sessionWithBoard(t, layout(
		"*..",
		"...",
		"..*",
	))
	s.Reveal(0, 1)
	s.Tick()
	require.Equal(t, HitMine, s.Reveal(0, 0))

	before := s.Snapshot()
	assert.Equal(t, NoOp, s.Reveal(2, 0))
	assert.Equal(t, NoOp, s.Chord(0, 1))
	s.ToggleFlag(2, 2)
	s.Tick()
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, Lost, s.Status())
}

func TestTickAndElapsedSeconds(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	for range 42 {
		s.Tick()
	}
	assert.Equal(t, 4, s.ElapsedSeconds())
	assert.Equal(t, 4, s.Snapshot().ElapsedSeconds)
}

func TestReset(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	s.Reveal(0, 0)
	s.ToggleFlag(2, 3)
	s.Tick()

	require.NoError(t, s.Reset(Medium))
	snap := s.Snapshot()
	assert.Equal(t, Medium, snap.Difficulty)
	assert.Equal(t, AwaitingFirstMove, snap.Status)
	assert.Equal(t, 0, snap.Clicks)
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, Medium.MineCount, snap.RemainingFlags)
	assert.Len(t, snap.Grid, Medium.Cells())
	assert.Nil(t, snap.Solution)
	for _, tile := range snap.Grid {
		assert.Equal(t, Covered, tile.State)
	}

	err := s.Reset(Difficulty{Rows: 1, Cols: 1, MineCount: 1})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, Medium, s.Difficulty())
}

func TestChordOpensNeighbours(t *testing.T) {
	s := sessionWithBoard(t, layout(
		"*...",
		"....",
		"...*",
	))
	require.Equal(t, Safe, s.Reveal(0, 1))
	assert.Equal(t, NoOp, s.Chord(0, 1), "no flags placed yet")

	s.ToggleFlag(0, 0)
	assert.Equal(t, Safe, s.Chord(0, 1))
	assert.Equal(t, 2, s.Clicks())
	assert.Equal(t, InProgress, s.Status())
	assert.Len(t, revealedSet(s.grid), 7)
	assert.Equal(t, Covered, s.grid[s.difficulty.index(2, 0)].State)

	s.Reveal(2, 0)
	assert.Equal(t, Won, s.Status())
}

func TestChordOnWrongFlagLoses(t *testing.T) {
	s := sessionWithBoard(t, layout("*.."))
	require.Equal(t, Safe, s.Reveal(0, 1))
	s.ToggleFlag(0, 2)
	assert.Equal(t, HitMine, s.Chord(0, 1))
	assert.Equal(t, Lost, s.Status())
}

func TestChordNoOps(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	assert.Equal(t, NoOp, s.Chord(0, 0), "covered")
	s.Reveal(0, 0)
	assert.Equal(t, NoOp, s.Chord(0, 0), "zero")
	assert.Equal(t, NoOp, s.Chord(9, 9), "out of bounds")
	assert.Equal(t, 1, s.Clicks())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := sessionWithBoard(t, layout(floodBoard...))
	snap := s.Snapshot()
	snap.Grid[0] = Tile{State: Flagged}
	assert.Equal(t, Covered, s.grid[0].State)
	assert.Nil(t, snap.Solution)
}
