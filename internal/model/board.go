package model

import (
	"fmt"

	"github.com/notnil/chess"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type PieceColor string

const (
	White PieceColor = "white"
	Black PieceColor = "black"
)

// Piece is the occupant of a cell. The zero value is an empty cell.
type Piece struct {
	Type  PieceType  `json:"type"`
	Color PieceColor `json:"color"`
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p == NoPiece
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%s_%s", p.Color, p.Type)
}

var chessPieces = map[Piece]chess.Piece{
	{King, White}:   chess.WhiteKing,
	{Queen, White}:  chess.WhiteQueen,
	{Rook, White}:   chess.WhiteRook,
	{Bishop, White}: chess.WhiteBishop,
	{Knight, White}: chess.WhiteKnight,
	{Pawn, White}:   chess.WhitePawn,
	{King, Black}:   chess.BlackKing,
	{Queen, Black}:  chess.BlackQueen,
	{Rook, Black}:   chess.BlackRook,
	{Bishop, Black}: chess.BlackBishop,
	{Knight, Black}: chess.BlackKnight,
	{Pawn, Black}:   chess.BlackPawn,
}

// Symbol returns the figurine used by text renderers, or a space for an
// empty cell. Unknown occupants render as '?'.
func (p Piece) Symbol() string {
	if p.IsEmpty() {
		return " "
	}
	if cp, ok := chessPieces[p]; ok {
		return cp.String()
	}
	return "?"
}

// BoardState owns one occupant entry for each of the 64 cells.
type BoardState struct {
	squares [BoardSize][BoardSize]Piece
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board in the standard starting layout, black on rows 0-1.
func NewBoard() *BoardState {
	board := &BoardState{}
	for col := 0; col < BoardSize; col++ {
		board.squares[0][col] = Piece{Type: backRank[col], Color: Black}
		board.squares[1][col] = Piece{Type: Pawn, Color: Black}
		board.squares[6][col] = Piece{Type: Pawn, Color: White}
		board.squares[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return board
}

func NewEmptyBoard() *BoardState {
	return &BoardState{}
}

// PieceAt never fails; cells off the grid read as empty.
func (b *BoardState) PieceAt(p Position) Piece {
	if !p.Valid() {
		return NoPiece
	}
	return b.squares[p.Row][p.Col]
}

// Place puts an occupant on a cell directly, without history. Used to set up
// positions other than the starting layout.
func (b *BoardState) Place(p Position, piece Piece) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	b.squares[p.Row][p.Col] = piece
	return nil
}

// Relocate moves the occupant of from onto to, overwriting whatever is there.
// Relocating a cell onto itself leaves the occupant in place.
func (b *BoardState) Relocate(from, to Position) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %s -> %s", ErrOutOfBounds, from, to)
	}
	piece := b.squares[from.Row][from.Col]
	if piece.IsEmpty() {
		return ErrEmptySource
	}
	if from == to {
		return nil
	}
	b.squares[to.Row][to.Col] = piece
	b.squares[from.Row][from.Col] = NoPiece
	return nil
}

// Rows returns a copy of the grid with empty cells as nil, row 0 first.
func (b *BoardState) Rows() [][]*Piece {
	rows := make([][]*Piece, BoardSize)
	for row := 0; row < BoardSize; row++ {
		rows[row] = make([]*Piece, BoardSize)
		for col := 0; col < BoardSize; col++ {
			if piece := b.squares[row][col]; !piece.IsEmpty() {
				rows[row][col] = &piece
			}
		}
	}
	return rows
}

// FEN returns the piece placement field of a FEN record for the board.
// Occupants with no chess equivalent are left out.
func (b *BoardState) FEN() string {
	placement := make(map[chess.Square]chess.Piece)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if cp, ok := chessPieces[b.squares[row][col]]; ok {
				placement[Position{Row: row, Col: col}.square()] = cp
			}
		}
	}
	return chess.NewBoard(placement).String()
}
