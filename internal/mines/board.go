package mines

import (
	"iter"
	"strings"
)

// Board is the mine layout of one game. It is never modified after
// generation.
type Board struct {
	Difficulty
	cells []Cell
}

// newBoard places mines where mined is true and fills in the neighbour
// counts of every other square.
func newBoard(d Difficulty, mined []bool) *Board {
	b := &Board{Difficulty: d, cells: make([]Cell, d.Cells())}
	for i := range b.cells {
		if mined[i] {
			b.cells[i] = Mine
		}
	}
	for i := range b.cells {
		if b.cells[i].IsMine() {
			continue
		}
		n := 0
		for j := range b.neighbors(i) {
			if b.cells[j].IsMine() {
				n++
			}
		}
		b.cells[i] = Cell(n)
	}
	return b
}

// At returns the cell at row:col. Callers check bounds first.
func (b *Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

func (b *Board) Mines() (count int) {
	for _, c := range b.cells {
		if c.IsMine() {
			count++
		}
	}
	return
}

// Cells returns a copy of the board, row-major.
func (b *Board) Cells() []Cell {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return cells
}

// neighbors yields the indices of the up to 8 squares around i, clipped
// at the edges.
func (b *Board) neighbors(i int) iter.Seq[int] {
	p := b.point(i)
	return func(yield func(int) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				r, c := p.Row+dr, p.Col+dc
				if !b.InBounds(r, c) {
					continue
				}
				if !yield(b.index(r, c)) {
					return
				}
			}
		}
	}
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := range b.Rows {
		for c := range b.Cols {
			cell := b.At(r, c)
			if cell == 0 {
				sb.WriteString("- ")
			} else {
				sb.WriteString(cell.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
