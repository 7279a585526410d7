package model

import "encoding/json"

type SelectionState int

const (
	Idle SelectionState = iota
	SourceChosen
	ReadyToCommit
)

func (s SelectionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case SourceChosen:
		return "sourceChosen"
	case ReadyToCommit:
		return "readyToCommit"
	default:
		return "unknown"
	}
}

func (s SelectionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Selection is the cursor used to pick a move before it is committed.
// Source is set in SourceChosen and ReadyToCommit, Target only in ReadyToCommit.
type Selection struct {
	State  SelectionState `json:"state"`
	Source *Position      `json:"source"`
	Target *Position      `json:"target"`
}

// Highlights reports whether p is one of the selected cells.
func (s Selection) Highlights(p Position) bool {
	return (s.Source != nil && *s.Source == p) || (s.Target != nil && *s.Target == p)
}

func idleSelection() Selection {
	return Selection{State: Idle}
}

func (s Selection) next(p Position) Selection {
	switch s.State {
	case Idle:
		return Selection{State: SourceChosen, Source: &p}
	case SourceChosen:
		if *s.Source == p {
			return idleSelection()
		}
		source := *s.Source
		return Selection{State: ReadyToCommit, Source: &source, Target: &p}
	default:
		return idleSelection()
	}
}
