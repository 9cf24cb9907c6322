package driver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/yourssweeper/internal/mines"
	"github.com/vancomm/yourssweeper/internal/strutil"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArguments      = errors.New("invalid arguments")
)

// Command is an engine-level input produced by an input adapter.
type Command interface {
	command()
}

type (
	NewGame        struct{ Difficulty mines.Difficulty }
	Reveal         struct{ mines.Point }
	ToggleFlag     struct{ mines.Point }
	Chord          struct{ mines.Point }
	ClaimHighScore struct{ Name string }
	// Pointer is a raw pointer event, projected onto the grid with the
	// driver's [Geometry].
	Pointer struct {
		X, Y   int
		Button Button
	}
	// Look applies nothing; the reply carries the current view.
	Look struct{}
	Quit struct{}
	// Batch applies its commands in order within one step and stops at
	// the first that fails.
	Batch []Command
)

func (NewGame) command()        {}
func (Reveal) command()         {}
func (ToggleFlag) command()     {}
func (Chord) command()          {}
func (ClaimHighScore) command() {}
func (Pointer) command()        {}
func (Look) command()           {}
func (Quit) command()           {}
func (Batch) command()          {}

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

var buttonNames = map[string]Button{
	"left":   ButtonLeft,
	"right":  ButtonRight,
	"middle": ButtonMiddle,
}

func ParseButton(s string) (Button, error) {
	b, ok := buttonNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown button %q", ErrArguments, s)
	}
	return b, nil
}

func (b Button) String() string {
	for name, v := range buttonNames {
		if v == b {
			return name
		}
	}
	return "Button(" + strconv.Itoa(int(b)) + ")"
}

// Maps known commands to number of arguments. "h" takes the rest of the
// line, which may be empty.
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"c": 2,
	"n": 1,
	"p": 3,
	"h": -1,
	"q": 0,
}

func parsePoint(twoStrings []string) (p mines.Point, err error) {
	if p.Row, err = strconv.Atoi(twoStrings[0]); err != nil {
		return p, fmt.Errorf("%w: first argument must be an int", ErrArguments)
	}
	if p.Col, err = strconv.Atoi(twoStrings[1]); err != nil {
		return p, fmt.Errorf("%w: second argument must be an int", ErrArguments)
	}
	return p, nil
}

// ParseCommand reads one command line:
//
//	o <row> <col>   reveal
//	f <row> <col>   toggle flag
//	c <row> <col>   chord
//	n <difficulty>  new game (preset name or rows:cols:mines)
//	p <x> <y> <button>  pointer event (left, right or middle)
//	h [name]        claim a pending high score
//	g               look
//	q               quit
func ParseCommand(line string) (Command, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	nargs, ok := commandNargs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if nargs < 0 {
		return ClaimHighScore{Name: strings.TrimSpace(rest)}, nil
	}
	args := strings.Fields(rest)
	if len(args) != nargs {
		return nil, fmt.Errorf(
			"%w: %s takes %d, got %d", ErrArguments, name, nargs, len(args),
		)
	}

	switch name {
	case "g":
		return Look{}, nil
	case "q":
		return Quit{}, nil
	case "n":
		d, err := mines.LookupDifficulty(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArguments, err)
		}
		return NewGame{Difficulty: d}, nil
	case "p":
		xy, err := parsePoint(args[:2])
		if err != nil {
			return nil, err
		}
		b, err := ParseButton(args[2])
		if err != nil {
			return nil, err
		}
		return Pointer{X: xy.Row, Y: xy.Col, Button: b}, nil
	}

	p, err := parsePoint(args)
	if err != nil {
		return nil, err
	}
	switch name {
	case "o":
		return Reveal{p}, nil
	case "f":
		return ToggleFlag{p}, nil
	default:
		return Chord{p}, nil
	}
}

// ParseBatch parses newline separated commands, skipping blank lines.
func ParseBatch(text string) (Batch, error) {
	var batch Batch
	for i, line := range strutil.ByPiece(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := ParseCommand(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		batch = append(batch, c)
	}
	return batch, nil
}
