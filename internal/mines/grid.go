package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is the content of a board square: [Mine] or the number of mines
// among its neighbours.
type Cell int8

const Mine Cell = -1

func (c Cell) IsMine() bool {
	return c == Mine
}

func (c Cell) String() string {
	if c.IsMine() {
		return "*"
	}
	return strconv.Itoa(int(c))
}

type TileState int8

const (
	Covered TileState = iota
	Flagged
	Revealed
)

func (s TileState) String() string {
	switch s {
	case Covered:
		return "covered"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return "unknown"
	}
}

func (s TileState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TileState) UnmarshalText(text []byte) error {
	for _, v := range []TileState{Covered, Flagged, Revealed} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown tile state %q", text)
}

// Tile is what the player sees of a square. Value is meaningful only
// when State is [Revealed].
type Tile struct {
	State TileState `json:"state"`
	Value Cell      `json:"value"`
}

func (t Tile) String() string {
	switch t.State {
	case Covered:
		return "#"
	case Flagged:
		return "F"
	case Revealed:
		if t.Value == 0 {
			return "."
		}
		return t.Value.String()
	default:
		return "!"
	}
}

// Grid is the visibility grid, row-major.
type Grid []Tile

func (g Grid) ToString(cols int) string {
	var b strings.Builder
	for y := range len(g) / cols {
		for x := range cols {
			i := y*cols + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

func newGrid(cells int) Grid {
	return make(Grid, cells)
}

// Point addresses a square by row and column.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
