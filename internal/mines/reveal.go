package mines

// open reveals square i. A mine is exposed on its own; a zero floods
// outwards through every connected zero and its numbered border, clearing
// any flags on the way.
func (s *Session) open(i int) RevealOutcome {
	if s.board.cells[i].IsMine() {
		s.grid[i] = Tile{State: Revealed, Value: Mine}
		return HitMine
	}

	todo := newCelltodo(len(s.grid))
	todo.add(i)
	for j, ok := todo.pop(); ok; j, ok = todo.pop() {
		if s.grid[j].State == Flagged {
			s.flags--
		}
		v := s.board.cells[j]
		s.grid[j] = Tile{State: Revealed, Value: v}
		if v != 0 {
			continue
		}
		for k := range s.board.neighbors(j) {
			if s.grid[k].State != Revealed {
				todo.add(k)
			}
		}
	}
	return Safe
}

// Reveal uncovers the square at row:col. Out-of-bounds and flagged
// squares are left alone, as is everything once the game is over.
//
// The first reveal of a game never hits a mine: if it would, the board
// is regenerated with that square kept clear.
func (s *Session) Reveal(row, col int) RevealOutcome {
	if s.over || !s.difficulty.InBounds(row, col) {
		return NoOp
	}
	i := s.difficulty.index(row, col)
	if s.grid[i].State == Flagged {
		return NoOp
	}

	if s.clicks == 0 && s.board.cells[i].IsMine() {
		p := Point{Row: row, Col: col}
		Log.WithField("cell", p).Debug("first click on a mine, regenerating board")
		s.board = s.mustGenerate(&p)
	}

	s.clicks++
	outcome := s.open(i)
	s.settle(outcome == HitMine)
	return outcome
}

// Chord reveals the covered neighbours of a revealed number once the
// player has flagged as many of its neighbours as the number says.
func (s *Session) Chord(row, col int) RevealOutcome {
	if s.over || !s.difficulty.InBounds(row, col) {
		return NoOp
	}
	i := s.difficulty.index(row, col)
	t := s.grid[i]
	if t.State != Revealed || t.Value <= 0 {
		return NoOp
	}

	flags := 0
	covered := make([]int, 0, 8)
	for j := range s.board.neighbors(i) {
		switch s.grid[j].State {
		case Flagged:
			flags++
		case Covered:
			covered = append(covered, j)
		}
	}
	if flags != int(t.Value) || len(covered) == 0 {
		return NoOp
	}

	s.clicks++
	outcome := Safe
	for _, j := range covered {
		if s.grid[j].State != Covered {
			continue // opened by an earlier flood
		}
		if s.open(j) == HitMine {
			outcome = HitMine
			break
		}
	}
	s.settle(outcome == HitMine)
	return outcome
}
