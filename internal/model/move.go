package model

import "fmt"

// Move records a committed relocation. It does not remember what was standing
// on To before the move, so undoing a move that overwrote a piece leaves To
// empty.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (m Move) Notation() string {
	return m.From.Notation() + m.To.Notation()
}

func (m Move) String() string {
	return fmt.Sprintf("Moved from %s to %s", m.From.Tag(), m.To.Tag())
}
