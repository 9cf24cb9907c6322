package mines

// ToggleFlag flags a covered square or clears an existing flag. No more
// squares than there are mines can be flagged at once.
func (s *Session) ToggleFlag(row, col int) {
	if s.over || !s.difficulty.InBounds(row, col) {
		return
	}
	i := s.difficulty.index(row, col)
	switch s.grid[i].State {
	case Covered:
		if s.flags >= s.difficulty.MineCount {
			return
		}
		s.grid[i].State = Flagged
		s.flags++
	case Flagged:
		s.grid[i].State = Covered
		s.flags--
	default:
		return
	}
	s.settle(false)
}
