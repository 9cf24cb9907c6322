package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/yourssweeper/internal/ledger"
	"github.com/vancomm/yourssweeper/internal/mines"
)

// Step is the fixed time step of the game loop.
const Step = time.Second / mines.TicksPerSecond

var (
	ErrStopped     = errors.New("driver stopped")
	ErrNoHighScore = errors.New("no high score to claim")
)

// View is what a renderer draws after a step.
type View struct {
	Game uuid.UUID `json:"game"`
	mines.Snapshot
	Record           *ledger.Record `json:"record,omitempty"`
	HighScorePending bool           `json:"high_score_pending"`
}

type result struct {
	view View
	err  error
}

type request struct {
	cmd   Command
	reply chan result
}

// Driver owns a [mines.Session] and runs it in fixed steps: every
// command queued since the previous step is applied, then the clock
// ticks once. Commands reach the session only through the loop in
// [Driver.Run].
type Driver struct {
	session  *mines.Session
	ledger   *ledger.Ledger
	log      logrus.FieldLogger
	geometry Geometry
	step     time.Duration

	game    uuid.UUID
	pending bool

	requests chan request
	done     chan struct{}
	stopOnce sync.Once

	mu          sync.RWMutex
	latest      View
	subscribers map[chan View]struct{}
}

type Option func(*Driver)

func WithStep(step time.Duration) Option {
	return func(d *Driver) {
		d.step = step
	}
}

func WithGeometry(g Geometry) Option {
	return func(d *Driver) {
		d.geometry = g
	}
}

// New drives session. The ledger decides which wins are high scores.
func New(
	session *mines.Session, l *ledger.Ledger, log logrus.FieldLogger, opts ...Option,
) *Driver {
	d := &Driver{
		session:     session,
		ledger:      l,
		log:         log,
		geometry:    DefaultGeometry,
		step:        Step,
		game:        uuid.New(),
		requests:    make(chan request, 64),
		done:        make(chan struct{}),
		subscribers: make(map[chan View]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.latest = d.view()
	return d
}

func (d *Driver) Geometry() Geometry {
	return d.geometry
}

// View returns the view published by the most recent step.
func (d *Driver) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest
}

// Subscribe delivers every published view. A slow subscriber only misses
// intermediate views, never the latest one. The channel is closed when
// the driver stops or cancel is called.
func (d *Driver) Subscribe() (views <-chan View, cancel func()) {
	ch := make(chan View, 1)
	d.mu.Lock()
	select {
	case <-d.done:
		close(ch)
		d.mu.Unlock()
		return ch, func() {}
	default:
	}
	d.subscribers[ch] = struct{}{}
	ch <- d.latest
	d.mu.Unlock()

	return ch, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.subscribers[ch]; ok {
			delete(d.subscribers, ch)
			close(ch)
		}
	}
}

// Send queues cmd for the next step without waiting for it.
func (d *Driver) Send(cmd Command) error {
	select {
	case <-d.done:
		return ErrStopped
	default:
	}
	select {
	case d.requests <- request{cmd: cmd}:
		return nil
	case <-d.done:
		return ErrStopped
	}
}

// Do queues cmd and waits for the step that applied it.
func (d *Driver) Do(ctx context.Context, cmd Command) (View, error) {
	reply := make(chan result, 1)
	select {
	case <-d.done:
		return View{}, ErrStopped
	default:
	}
	select {
	case d.requests <- request{cmd: cmd, reply: reply}:
	case <-d.done:
		return View{}, ErrStopped
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.view, res.err
	case <-d.done:
		select {
		case res := <-reply:
			return res.view, res.err
		default:
			return View{}, ErrStopped
		}
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Done is closed once [Driver.Run] has returned.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Run drives the session until ctx is cancelled or a [Quit] command is
// applied, in which case it returns nil.
func (d *Driver) Run(ctx context.Context) error {
	defer d.stop()

	ticker := time.NewTicker(d.step)
	defer ticker.Stop()

	d.log.WithFields(logrus.Fields{
		"game":       d.game,
		"difficulty": d.session.Difficulty(),
	}).Info("game loop started")

	var queued []request
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-d.requests:
			queued = append(queued, req)
		case <-ticker.C:
			quit := d.advance(ctx, queued)
			clear(queued)
			queued = queued[:0]
			if quit {
				d.log.WithField("game", d.game).Info("quit")
				return nil
			}
		}
	}
}

func (d *Driver) stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		close(d.done)
		for ch := range d.subscribers {
			close(ch)
		}
		clear(d.subscribers)
	})
}

var errQuit = errors.New("quit")

// advance runs one step and reports whether a Quit was applied. Commands
// queued after a Quit are answered with ErrStopped.
func (d *Driver) advance(ctx context.Context, queued []request) (quit bool) {
	changed := false
	errs := make([]error, len(queued))
	for i, req := range queued {
		if quit {
			errs[i] = ErrStopped
			continue
		}
		err := d.apply(ctx, req.cmd)
		if errors.Is(err, errQuit) {
			quit, err = true, nil
		}
		errs[i] = err
		changed = true
	}

	before := d.session.ElapsedSeconds()
	d.session.Tick()
	if d.session.ElapsedSeconds() != before {
		changed = true
	}

	view := d.view()
	d.publish(view, changed)
	for i, req := range queued {
		if req.reply != nil {
			req.reply <- result{view: view, err: errs[i]}
		} else if errs[i] != nil && !errors.Is(errs[i], ErrStopped) {
			d.log.WithError(errs[i]).Warn("command failed")
		}
	}
	return quit
}

func (d *Driver) apply(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case Batch:
		for i, c := range cmd {
			if err := d.apply(ctx, c); err != nil {
				if errors.Is(err, errQuit) {
					return err
				}
				return fmt.Errorf("command %d: %w", i+1, err)
			}
		}
		return nil
	case NewGame:
		return d.newGame(cmd.Difficulty)
	case Reveal:
		d.move(func() { d.session.Reveal(cmd.Row, cmd.Col) })
	case ToggleFlag:
		d.move(func() { d.session.ToggleFlag(cmd.Row, cmd.Col) })
	case Chord:
		d.move(func() { d.session.Chord(cmd.Row, cmd.Col) })
	case Pointer:
		return d.pointer(ctx, cmd)
	case ClaimHighScore:
		return d.claim(ctx, cmd.Name)
	case Look:
	case Quit:
		return errQuit
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return nil
}

func (d *Driver) newGame(difficulty mines.Difficulty) error {
	if err := d.session.Reset(difficulty); err != nil {
		return err
	}
	d.game = uuid.New()
	d.pending = false
	d.log.WithFields(logrus.Fields{
		"game":       d.game,
		"difficulty": difficulty,
	}).Info("new game")
	return nil
}

// move applies a board move and checks a fresh win against the ledger.
func (d *Driver) move(fn func()) {
	wasOver := d.session.Status().Over()
	fn()
	status := d.session.Status()
	if wasOver || !status.Over() {
		return
	}

	fields := logrus.Fields{
		"game":       d.game,
		"difficulty": d.session.Difficulty(),
		"seconds":    d.session.ElapsedSeconds(),
		"clicks":     d.session.Clicks(),
	}
	d.log.WithFields(fields).Infof("game %s", status)
	if status == mines.Won && d.ledger.IsNewHighScore(
		d.session.Difficulty(), d.session.ElapsedSeconds(), true,
	) {
		d.pending = true
		d.log.WithFields(fields).Info("high score pending")
	}
}

func (d *Driver) pointer(ctx context.Context, p Pointer) error {
	point, ok := d.geometry.Project(d.session.Difficulty(), p.X, p.Y)
	if !ok {
		return nil
	}
	switch p.Button {
	case ButtonLeft:
		return d.apply(ctx, Reveal{point})
	case ButtonRight:
		return d.apply(ctx, ToggleFlag{point})
	case ButtonMiddle:
		return d.apply(ctx, Chord{point})
	}
	return fmt.Errorf("%w: unknown button %s", ErrArguments, p.Button)
}

func (d *Driver) claim(ctx context.Context, name string) error {
	if !d.pending {
		return ErrNoHighScore
	}
	err := d.ledger.Commit(
		ctx, d.session.Difficulty(), name, d.session.ElapsedSeconds(),
	)
	if err != nil {
		return err
	}
	d.pending = false
	return nil
}

func (d *Driver) view() View {
	v := View{
		Game:             d.game,
		Snapshot:         d.session.Snapshot(),
		HighScorePending: d.pending,
	}
	if record, ok := d.ledger.Record(v.Difficulty); ok {
		v.Record = &record
	}
	return v
}

func (d *Driver) publish(v View, notify bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest = v
	if !notify {
		return
	}
	for ch := range d.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}
