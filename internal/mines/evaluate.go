package mines

// Evaluate decides the game from the board and what the player sees.
// A hit mine is reported by the caller; otherwise the game is won when
// every safe square is revealed or when exactly the mines are flagged.
// It returns [InProgress] while neither holds.
func Evaluate(b *Board, g Grid, hitMine bool) Status {
	switch {
	case hitMine:
		return Lost
	case allClicked(b, g), allMinesFlagged(b, g):
		return Won
	default:
		return InProgress
	}
}

// A flagged safe square counts as hidden.
func allClicked(b *Board, g Grid) bool {
	for i, t := range g {
		if t.State != Revealed && !b.cells[i].IsMine() {
			return false
		}
	}
	return true
}

func allMinesFlagged(b *Board, g Grid) bool {
	flags := 0
	for i, t := range g {
		flagged := t.State == Flagged
		if flagged {
			flags++
		}
		if b.cells[i].IsMine() && !flagged {
			return false
		}
	}
	return flags == b.MineCount
}
