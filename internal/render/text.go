package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/movelog-backend/internal/model"
	"github.com/fatih/color"
)

// Text writes the board as rows of two-character cells, rank labels on the
// left and file labels underneath.
type Text struct {
	light     *color.Color
	dark      *color.Color
	highlight *color.Color
}

func NewText(colored bool) *Text {
	t := &Text{
		light:     color.New(color.BgHiWhite, color.FgBlack),
		dark:      color.New(color.BgHiBlack, color.FgWhite),
		highlight: color.New(color.BgYellow, color.FgBlack),
	}
	if !colored {
		t.light.DisableColor()
		t.dark.DisableColor()
		t.highlight.DisableColor()
	} else {
		t.light.EnableColor()
		t.dark.EnableColor()
		t.highlight.EnableColor()
	}
	return t
}

func (t *Text) cellColor(p model.Position, sel model.Selection) *color.Color {
	switch Background(p, sel) {
	case HighlightHex:
		return t.highlight
	case LightSquare:
		return t.light
	default:
		return t.dark
	}
}

func (t *Text) Render(w io.Writer, board PieceSource, sel model.Selection) error {
	var b strings.Builder
	for row := 0; row < model.BoardSize; row++ {
		fmt.Fprintf(&b, "%d ", model.BoardSize-row)
		for col := 0; col < model.BoardSize; col++ {
			p := model.Position{Row: row, Col: col}
			cell := board.PieceAt(p).Symbol() + " "
			if sel.Highlights(p) && board.PieceAt(p).IsEmpty() {
				cell = "* "
			}
			b.WriteString(t.cellColor(p, sel).Sprint(cell))
		}
		b.WriteString("\n")
	}
	b.WriteString("  a b c d e f g h\n")
	_, err := io.WriteString(w, b.String())
	return err
}
