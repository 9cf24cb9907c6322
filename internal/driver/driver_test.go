package driver

import (
	"context"
	"io"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/yourssweeper/internal/ledger"
	"github.com/vancomm/yourssweeper/internal/mines"
)

func TestMain(m *testing.M) {
	mines.Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	mines.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// tiny is won by any first reveal: the only safe cell is the one clicked.
var tiny = mines.Difficulty{Name: "Tiny", Rows: 1, Cols: 2, MineCount: 1}

func newDriver(t *testing.T, d mines.Difficulty) (*Driver, *ledger.Ledger) {
	t.Helper()
	log, _ := test.NewNullLogger()
	session, err := mines.NewSession(d, mines.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	l := ledger.New(
		ledger.NewFileStore(afero.NewMemMapFs(), "highscores.txt"),
		log, tiny, mines.Easy,
	)
	return New(session, l, log, WithStep(time.Millisecond)), l
}

func startDriver(t *testing.T, d mines.Difficulty) (*Driver, *ledger.Ledger) {
	t.Helper()
	drv, l := newDriver(t, d)
	ctx, cancel := context.WithCancel(context.Background())
	go drv.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-drv.Done()
	})
	return drv, l
}

func TestDriverInitialView(t *testing.T) {
	drv, _ := newDriver(t, mines.Easy)
	v := drv.View()
	assert.Equal(t, mines.Easy, v.Difficulty)
	assert.Equal(t, mines.AwaitingFirstMove, v.Status)
	assert.Equal(t, 10, v.RemainingFlags)
	require.NotNil(t, v.Record)
	assert.Equal(t, ledger.DefaultRecord, *v.Record)
	assert.False(t, v.HighScorePending)
}

func TestDriverWinAndClaim(t *testing.T) {
	drv, l := startDriver(t, tiny)
	ctx := context.Background()

	v, err := drv.Do(ctx, Reveal{mines.Point{Row: 0, Col: 0}})
	require.NoError(t, err)
	assert.Equal(t, mines.Won, v.Status)
	assert.True(t, v.HighScorePending)
	assert.NotNil(t, v.Solution)

	v, err = drv.Do(ctx, ClaimHighScore{Name: "ann"})
	require.NoError(t, err)
	assert.False(t, v.HighScorePending)
	require.NotNil(t, v.Record)
	assert.Equal(t, ledger.Record{Name: "ann", Seconds: v.ElapsedSeconds}, *v.Record)

	record, ok := l.Record(tiny)
	assert.True(t, ok)
	assert.Equal(t, "ann", record.Name)

	_, err = drv.Do(ctx, ClaimHighScore{Name: "bob"})
	assert.ErrorIs(t, err, ErrNoHighScore)
}

func TestDriverUntrackedWinIsNotPending(t *testing.T) {
	other := mines.Difficulty{Name: "Other", Rows: 2, Cols: 1, MineCount: 1}
	drv, _ := startDriver(t, other)

	v, err := drv.Do(context.Background(), Reveal{mines.Point{Row: 1, Col: 0}})
	require.NoError(t, err)
	assert.Equal(t, mines.Won, v.Status)
	assert.False(t, v.HighScorePending)
	assert.Nil(t, v.Record)
}

func TestDriverNewGame(t *testing.T) {
	drv, _ := startDriver(t, tiny)
	ctx := context.Background()
	first := drv.View().Game

	v, err := drv.Do(ctx, NewGame{Difficulty: mines.Easy})
	require.NoError(t, err)
	assert.NotEqual(t, first, v.Game)
	assert.Equal(t, mines.Easy, v.Difficulty)
	assert.Equal(t, mines.AwaitingFirstMove, v.Status)

	bad := mines.Difficulty{Rows: 2, Cols: 2, MineCount: 4}
	v, err = drv.Do(ctx, NewGame{Difficulty: bad})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
	assert.Equal(t, mines.Easy, v.Difficulty)
}

func TestDriverNewGameClearsPending(t *testing.T) {
	drv, _ := startDriver(t, tiny)
	ctx := context.Background()

	v, err := drv.Do(ctx, Reveal{mines.Point{Row: 0, Col: 1}})
	require.NoError(t, err)
	require.True(t, v.HighScorePending)

	v, err = drv.Do(ctx, NewGame{Difficulty: tiny})
	require.NoError(t, err)
	assert.False(t, v.HighScorePending)

	_, err = drv.Do(ctx, ClaimHighScore{Name: "late"})
	assert.ErrorIs(t, err, ErrNoHighScore)
}

func TestDriverBatch(t *testing.T) {
	drv, _ := startDriver(t, mines.Easy)
	ctx := context.Background()

	v, err := drv.Do(ctx, Batch{
		ToggleFlag{mines.Point{Row: 7, Col: 7}},
		ToggleFlag{mines.Point{Row: 7, Col: 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, v.RemainingFlags)
	assert.Equal(t, mines.Flagged, v.Grid[63].State)

	v, err = drv.Do(ctx, Batch{
		ToggleFlag{mines.Point{Row: 7, Col: 7}},
		ClaimHighScore{Name: "nobody"},
		ToggleFlag{mines.Point{Row: 7, Col: 6}},
	})
	assert.ErrorIs(t, err, ErrNoHighScore)
	assert.ErrorContains(t, err, "command 2")
	assert.Equal(t, 9, v.RemainingFlags)
}

func TestDriverPointer(t *testing.T) {
	drv, _ := startDriver(t, mines.Easy)
	ctx := context.Background()
	g := drv.Geometry()

	x, y := g.Center(mines.Point{Row: 3, Col: 4})
	v, err := drv.Do(ctx, Pointer{X: x, Y: y, Button: ButtonRight})
	require.NoError(t, err)
	assert.Equal(t, mines.Flagged, v.Grid[3*8+4].State)

	v, err = drv.Do(ctx, Pointer{X: -5, Y: y, Button: ButtonLeft})
	require.NoError(t, err)
	assert.Equal(t, 0, v.Clicks)

	x, y = g.Center(mines.Point{Row: 0, Col: 0})
	v, err = drv.Do(ctx, Pointer{X: x, Y: y, Button: ButtonLeft})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Clicks)
	assert.Equal(t, mines.Revealed, v.Grid[0].State)
}

func TestDriverTicks(t *testing.T) {
	drv, _ := startDriver(t, mines.Easy)
	assert.Eventually(t, func() bool {
		return drv.View().ElapsedSeconds >= 1
	}, 5*time.Second, 5*time.Millisecond)
}

func TestDriverSendAndSubscribe(t *testing.T) {
	drv, _ := startDriver(t, tiny)
	views, cancel := drv.Subscribe()
	defer cancel()

	initial := <-views
	assert.Equal(t, mines.AwaitingFirstMove, initial.Status)

	require.NoError(t, drv.Send(Reveal{mines.Point{Row: 0, Col: 0}}))
	timeout := time.After(5 * time.Second)
	for {
		select {
		case v := <-views:
			if v.Status == mines.Won {
				return
			}
		case <-timeout:
			t.Fatal("no view reported the win")
		}
	}
}

func TestDriverQuit(t *testing.T) {
	drv, _ := newDriver(t, tiny)
	errc := make(chan error, 1)
	go func() { errc <- drv.Run(context.Background()) }()

	views, _ := drv.Subscribe()
	_, err := drv.Do(context.Background(), Quit{})
	require.NoError(t, err)
	require.NoError(t, <-errc)

	_, err = drv.Do(context.Background(), Look{})
	assert.ErrorIs(t, err, ErrStopped)
	assert.ErrorIs(t, drv.Send(Look{}), ErrStopped)

	for range views {
	}
	closed, _ := drv.Subscribe()
	_, ok := <-closed
	assert.False(t, ok)
}

func TestDriverCancel(t *testing.T) {
	drv, _ := newDriver(t, tiny)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- drv.Run(ctx) }()

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	<-drv.Done()
}

func TestDriverDoContext(t *testing.T) {
	drv, _ := newDriver(t, tiny)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := drv.Do(ctx, Look{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
