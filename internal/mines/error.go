package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid board configuration")

// InvalidConfigurationError reports board dimensions or a mine count that
// no board can satisfy. It matches [ErrInvalidConfiguration].
type InvalidConfigurationError struct {
	Rows, Cols, MineCount int
}

// [InvalidConfigurationError] implements [error]
func (e *InvalidConfigurationError) Error() string {
	switch {
	case e.Rows <= 0:
		return fmt.Sprintf("cannot create a board with %d rows", e.Rows)
	case e.Cols <= 0:
		return fmt.Sprintf("cannot create a board with %d columns", e.Cols)
	case e.MineCount < 0:
		return fmt.Sprintf("cannot create a board with %d mines", e.MineCount)
	default:
		return fmt.Sprintf(
			"not enough space for %d mines on a %dx%d board",
			e.MineCount, e.Rows, e.Cols,
		)
	}
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
