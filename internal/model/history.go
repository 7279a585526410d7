package model

import (
	"errors"
	"fmt"
)

// MoveHistory drives a BoardState through the selection protocol and keeps
// the undo and redo stacks. It is not safe for concurrent use.
type MoveHistory struct {
	board     *BoardState
	selection Selection
	undoStack []Move
	redoStack []Move
}

func NewMoveHistory(board *BoardState) *MoveHistory {
	return &MoveHistory{
		board:     board,
		selection: idleSelection(),
		undoStack: make([]Move, 0),
		redoStack: make([]Move, 0),
	}
}

func (h *MoveHistory) Board() *BoardState {
	return h.board
}

func (h *MoveHistory) Selection() Selection {
	return h.selection
}

// SelectCell feeds one tap into the selection cursor and returns the result.
// Occupancy is not checked here; Commit does that. Taps off the grid are
// ignored and leave the cursor as it was.
func (h *MoveHistory) SelectCell(p Position) Selection {
	if !p.Valid() {
		return h.selection
	}
	h.selection = h.selection.next(p)
	return h.selection
}

func (h *MoveHistory) CancelSelection() {
	h.selection = idleSelection()
}

// Commit relocates the selected source onto the selected target. Any attempt
// that reaches the board resets the cursor, whether or not it succeeds.
func (h *MoveHistory) Commit() (Move, error) {
	if h.selection.State != ReadyToCommit {
		return Move{}, ErrSelectionIncomplete
	}
	move := Move{From: *h.selection.Source, To: *h.selection.Target}
	h.CancelSelection()

	if err := h.board.Relocate(move.From, move.To); err != nil {
		if errors.Is(err, ErrEmptySource) {
			return Move{}, ErrNoPieceAtSource
		}
		return Move{}, err
	}

	h.undoStack = append(h.undoStack, move)
	// A new move prunes the redo branch.
	h.redoStack = h.redoStack[:0]
	return move, nil
}

func (h *MoveHistory) Undo() (Move, error) {
	if len(h.undoStack) == 0 {
		return Move{}, ErrNothingToUndo
	}
	last := h.undoStack[len(h.undoStack)-1]
	if err := h.replay(last.To, last.From); err != nil {
		return Move{}, fmt.Errorf("undo %s: %w", last.Notation(), err)
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, last)
	return last, nil
}

func (h *MoveHistory) Redo() (Move, error) {
	if len(h.redoStack) == 0 {
		return Move{}, ErrNothingToRedo
	}
	last := h.redoStack[len(h.redoStack)-1]
	if err := h.replay(last.From, last.To); err != nil {
		return Move{}, fmt.Errorf("redo %s: %w", last.Notation(), err)
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, last)
	return last, nil
}

// replay moves whatever stands on from onto to. Unlike Relocate an empty from
// is not an error: to is cleared, so a move whose piece was later overwritten
// still leaves the stacks.
func (h *MoveHistory) replay(from, to Position) error {
	if h.board.PieceAt(from).IsEmpty() {
		return h.board.Place(to, NoPiece)
	}
	return h.board.Relocate(from, to)
}

func (h *MoveHistory) UndoDepth() int {
	return len(h.undoStack)
}

func (h *MoveHistory) RedoDepth() int {
	return len(h.redoStack)
}

// Moves returns the committed moves, oldest first.
func (h *MoveHistory) Moves() []Move {
	return append(make([]Move, 0, len(h.undoStack)), h.undoStack...)
}

// RedoMoves returns the undone moves, the next one to redo last.
func (h *MoveHistory) RedoMoves() []Move {
	return append(make([]Move, 0, len(h.redoStack)), h.redoStack...)
}
