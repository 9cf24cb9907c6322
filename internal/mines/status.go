package mines

import "fmt"

type RevealOutcome int

const (
	NoOp RevealOutcome = iota
	Safe
	HitMine
)

func (o RevealOutcome) String() string {
	switch o {
	case NoOp:
		return "noop"
	case Safe:
		return "safe"
	case HitMine:
		return "hit_mine"
	default:
		return "unknown"
	}
}

type Status int

const (
	AwaitingFirstMove Status = iota
	InProgress
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case AwaitingFirstMove:
		return "awaiting_first_move"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{AwaitingFirstMove, InProgress, Won, Lost} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Over reports whether s is terminal.
func (s Status) Over() bool {
	return s == Won || s == Lost
}
