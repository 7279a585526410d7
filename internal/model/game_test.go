package model

import (
	"errors"
	"testing"
)

func TestGameCommitUpdatesState(t *testing.T) {
	g := NewGame("g1", "brave-otter")
	if _, err := g.SelectCell(pos(6, 4)); err != nil {
		t.Fatalf("select: %v", err)
	}
	state, err := g.SelectCell(pos(4, 4))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if state.Selection.State != ReadyToCommit {
		t.Fatalf("expected ReadyToCommit, got %s", state.Selection.State)
	}

	state, err = g.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if state.Notice != "Moved from 6,4 to 4,4" {
		t.Fatalf("unexpected notice %q", state.Notice)
	}
	if state.LastMove == nil || state.LastMove.To != pos(4, 4) {
		t.Fatalf("expected last move to (4,4), got %+v", state.LastMove)
	}
	if state.Board[4][4] == nil || state.Board[6][4] != nil {
		t.Fatalf("expected the pawn on (4,4) in the state board")
	}
	if state.UndoDepth != 1 || len(state.Moves) != 1 {
		t.Fatalf("expected one move in history, got %d", state.UndoDepth)
	}
}

func TestGameFailuresCarryNotice(t *testing.T) {
	g := NewGame("g1", "brave-otter")

	state, err := g.Undo()
	if !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	if state.Notice != "No moves to undo" {
		t.Fatalf("unexpected notice %q", state.Notice)
	}

	state, err = g.Commit()
	if !errors.Is(err, ErrSelectionIncomplete) || state.Notice != "Select a piece and a target cell first" {
		t.Fatalf("unexpected commit result %v %q", err, state.Notice)
	}

	g.SelectCell(pos(4, 0))
	g.SelectCell(pos(3, 0))
	state, err = g.Commit()
	if !errors.Is(err, ErrNoPieceAtSource) || state.Notice != "No piece selected to move" {
		t.Fatalf("unexpected commit result %v %q", err, state.Notice)
	}
	if state.Selection.State != Idle {
		t.Fatalf("expected selection reset, got %s", state.Selection.State)
	}
}

func TestGameRejectsOffBoardSelection(t *testing.T) {
	g := NewGame("g1", "brave-otter")
	if _, err := g.SelectCell(pos(8, 8)); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if g.GetState().Selection.State != Idle {
		t.Fatalf("expected selection untouched")
	}
}

func TestGameVersionIncreases(t *testing.T) {
	g := NewGame("g1", "brave-otter")
	v0 := g.GetState().Version
	g.SelectCell(pos(6, 4))
	state := g.CancelSelection()
	if state.Version != v0+2 {
		t.Fatalf("expected version %d, got %d", v0+2, state.Version)
	}
}
