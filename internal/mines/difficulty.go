package mines

import (
	"fmt"
	"math"
	"strings"
)

// Difficulty describes the board a session is played on.
type Difficulty struct {
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	MineCount int    `json:"mine_count"`
}

var (
	Easy   = Difficulty{Name: "Easy", Rows: 8, Cols: 8, MineCount: 10}
	Medium = Difficulty{Name: "Medium", Rows: 16, Cols: 16, MineCount: 40}
	Hard   = Difficulty{Name: "Hard", Rows: 16, Cols: 31, MineCount: 99}
)

// MaxSide bounds both board dimensions.
const MaxSide = 1024

// Presets returns the built-in difficulties in ledger order.
func Presets() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func (d Difficulty) Cells() int {
	return d.Rows * d.Cols
}

func (d Difficulty) Validate() error {
	if d.Rows <= 0 || d.Cols <= 0 || d.Rows > MaxSide || d.Cols > MaxSide ||
		d.Rows > math.MaxInt/d.Cols ||
		d.MineCount < 0 || d.MineCount >= d.Cells() {
		return &InvalidConfigurationError{
			Rows: d.Rows, Cols: d.Cols, MineCount: d.MineCount,
		}
	}
	return nil
}

func (d Difficulty) InBounds(row, col int) bool {
	return 0 <= row && row < d.Rows && 0 <= col && col < d.Cols
}

func (d Difficulty) index(row, col int) int {
	return row*d.Cols + col
}

func (d Difficulty) point(i int) Point {
	return Point{Row: i / d.Cols, Col: i % d.Cols}
}

func (d Difficulty) Seed() string {
	return fmt.Sprintf("%d:%d:%d", d.Rows, d.Cols, d.MineCount)
}

func (d Difficulty) String() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Seed()
}

// ParseSeed reads a "rows:cols:mines" seed produced by [Difficulty.Seed].
// The result is validated.
func ParseSeed(seed string) (Difficulty, error) {
	d := Difficulty{Name: "Custom"}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &d.Rows, &d.Cols, &d.MineCount)
	if n != 3 || err != nil {
		return Difficulty{}, fmt.Errorf(
			`invalid difficulty seed (seed = "%s", n = %d, err = %w)`,
			seed, n, err,
		)
	}
	if err := d.Validate(); err != nil {
		return Difficulty{}, err
	}
	return d, nil
}

// LookupDifficulty resolves a preset name (case-insensitive) or a seed.
func LookupDifficulty(name string) (Difficulty, error) {
	name = strings.TrimSpace(name)
	for _, d := range Presets() {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return ParseSeed(name)
}
