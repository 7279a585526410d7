// Package render draws a board for humans. It only reads the board through
// PieceAt and the current selection.
package render

import "github.com/benbeisheim/movelog-backend/internal/model"

// Cell colours as 0xRRGGBB.
const (
	LightSquare  int32 = 0xCCCCCC
	DarkSquare   int32 = 0x333333
	HighlightHex int32 = 0xFFD700
)

type PieceSource interface {
	PieceAt(p model.Position) model.Piece
}

// Background picks the highlight for selected cells and the checkerboard
// colour for the rest.
func Background(p model.Position, sel model.Selection) int32 {
	if sel.Highlights(p) {
		return HighlightHex
	}
	if p.IsLight() {
		return LightSquare
	}
	return DarkSquare
}
