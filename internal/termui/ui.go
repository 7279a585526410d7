// Package termui is a terminal front end for a single local game: a tview
// table for the board, buttons for commit, undo and redo, and a notice line.
package termui

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/movelog-backend/internal/model"
	"github.com/benbeisheim/movelog-backend/internal/render"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const labelColor = tcell.ColorGray

type UI struct {
	App    *tview.Application
	Board  *tview.Table
	Notice *tview.TextView
	Moves  *tview.TextView
	Layout *tview.Grid
	game   *model.Game
}

func New(game *model.Game) *UI {
	app := tview.NewApplication()
	ui := &UI{
		App:    app,
		Board:  tview.NewTable(),
		Notice: tview.NewTextView(),
		Moves:  tview.NewTextView(),
		game:   game,
	}

	moveBtn := tview.NewButton("Move (m)").SetSelectedFunc(ui.Commit)
	undoBtn := tview.NewButton("Undo (u)").SetSelectedFunc(ui.Undo)
	redoBtn := tview.NewButton("Redo (r)").SetSelectedFunc(ui.Redo)
	cancelBtn := tview.NewButton("Cancel (c)").SetSelectedFunc(ui.Cancel)

	controls := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(moveBtn, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(undoBtn, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(redoBtn, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(cancelBtn, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(ui.Moves, 0, 1, false)
	ui.Moves.SetBorder(true).SetTitle(" moves ")

	ui.Layout = tview.NewGrid().
		SetRows(-1, 11, 1, -1).
		SetColumns(-1, 30, 20, -1).
		AddItem(ui.Board, 1, 1, 1, 1, 0, 0, true).
		AddItem(controls, 1, 2, 1, 1, 0, 0, false).
		AddItem(ui.Notice, 2, 1, 1, 2, 0, 0, false)

	ui.Board.SetSelectable(true, true)
	ui.Board.Select(1, 1).SetSelectedFunc(ui.HandleCell)
	ui.Board.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			app.Stop()
		}
	})

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'm':
			ui.Commit()
		case 'u':
			ui.Undo()
		case 'r':
			ui.Redo()
		case 'c':
			ui.Cancel()
		case 'q':
			app.Stop()
		default:
			return event
		}
		return nil
	})

	ui.refresh(game.GetState())
	return ui
}

func (ui *UI) Run() error {
	return ui.App.SetRoot(ui.Layout, true).EnableMouse(true).Run()
}

// HandleCell turns a table selection into a cell tap. Column 0 and the last
// row hold labels.
func (ui *UI) HandleCell(row, col int) {
	p := model.Position{Row: row, Col: col - 1}
	state, err := ui.game.SelectCell(p)
	if err != nil {
		return
	}
	ui.refresh(state)
}

func (ui *UI) Commit() {
	state, _ := ui.game.Commit()
	ui.refresh(state)
}

func (ui *UI) Undo() {
	state, _ := ui.game.Undo()
	ui.refresh(state)
}

func (ui *UI) Redo() {
	state, _ := ui.game.Redo()
	ui.refresh(state)
}

func (ui *UI) Cancel() {
	ui.refresh(ui.game.CancelSelection())
}

func (ui *UI) refresh(state model.GameState) {
	for row := 0; row < model.BoardSize; row++ {
		rank := tview.NewTableCell(fmt.Sprintf("%d", model.BoardSize-row)).
			SetTextColor(labelColor).
			SetAlign(tview.AlignCenter).
			SetSelectable(false)
		ui.Board.SetCell(row, 0, rank)

		for col := 0; col < model.BoardSize; col++ {
			p := model.Position{Row: row, Col: col}
			text := " "
			if piece := state.Board[row][col]; piece != nil {
				text = piece.Symbol()
			}
			cell := tview.NewTableCell(" " + text + " ").
				SetTextColor(tcell.ColorBlack).
				SetAlign(tview.AlignCenter).
				SetBackgroundColor(tcell.NewHexColor(render.Background(p, state.Selection)))
			ui.Board.SetCell(row, col+1, cell)
		}
	}
	for col := 0; col < model.BoardSize; col++ {
		file := tview.NewTableCell(string(rune('a' + col))).
			SetTextColor(labelColor).
			SetAlign(tview.AlignCenter).
			SetSelectable(false)
		ui.Board.SetCell(model.BoardSize, col+1, file)
	}
	ui.Board.SetCell(model.BoardSize, 0, tview.NewTableCell("").SetSelectable(false))

	ui.Notice.SetText(state.Notice)

	lines := make([]string, 0, len(state.Moves))
	for i, m := range state.Moves {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, m.Notation()))
	}
	if state.RedoDepth > 0 {
		lines = append(lines, fmt.Sprintf("(%d to redo)", state.RedoDepth))
	}
	ui.Moves.SetText(strings.Join(lines, "\n"))
}
