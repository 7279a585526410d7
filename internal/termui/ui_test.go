package termui

import (
	"strings"
	"testing"

	"github.com/benbeisheim/movelog-backend/internal/model"
	"github.com/benbeisheim/movelog-backend/internal/render"
	"github.com/gdamore/tcell/v2"
)

func TestCellsFollowTheBoard(t *testing.T) {
	ui := New(model.NewGame("local", "local"))

	// Table column 0 holds the rank labels.
	if got := ui.Board.GetCell(6, 5).Text; !strings.Contains(got, "♙") {
		t.Fatalf("expected a white pawn at (6,4), got %q", got)
	}
	if got := ui.Board.GetCell(8, 1).Text; got != "a" {
		t.Fatalf("expected file label a, got %q", got)
	}

	ui.HandleCell(6, 5)
	if got := ui.Board.GetCell(6, 5).BackgroundColor; got != tcell.NewHexColor(render.HighlightHex) {
		t.Fatalf("expected the source to be highlighted")
	}
	ui.HandleCell(4, 5)
	ui.Commit()

	if got := ui.Board.GetCell(4, 5).Text; !strings.Contains(got, "♙") {
		t.Fatalf("expected the pawn on (4,4) after commit, got %q", got)
	}
	if got := ui.Board.GetCell(6, 5).BackgroundColor; got != tcell.NewHexColor(render.LightSquare) {
		t.Fatalf("expected highlight cleared after commit")
	}
	if got := ui.Notice.GetText(true); got != "Moved from 6,4 to 4,4" {
		t.Fatalf("unexpected notice %q", got)
	}
	if got := ui.Moves.GetText(true); got != "1. e2e4" {
		t.Fatalf("unexpected move list %q", got)
	}
}

func TestUndoWithoutMovesShowsNotice(t *testing.T) {
	ui := New(model.NewGame("local", "local"))
	ui.Undo()
	if got := ui.Notice.GetText(true); got != "No moves to undo" {
		t.Fatalf("unexpected notice %q", got)
	}
	ui.Redo()
	if got := ui.Notice.GetText(true); got != "No moves to redo" {
		t.Fatalf("unexpected notice %q", got)
	}
}

func TestLabelCellsAreIgnored(t *testing.T) {
	game := model.NewGame("local", "local")
	ui := New(game)
	ui.HandleCell(3, 0)
	if got := game.GetState().Selection.State; got != model.Idle {
		t.Fatalf("expected label taps to be ignored, got %s", got)
	}
}
