package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

const BoardSize = 8

// Position addresses a cell by row and column. Row 0 is the black back rank.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewPosition(row, col int) (Position, error) {
	p := Position{Row: row, Col: col}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	return p, nil
}

// ParsePosition reads the "row,col" tag form used to label cells.
func ParsePosition(tag string) (Position, error) {
	parts := strings.Split(tag, ",")
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, tag)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, tag)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, tag)
	}
	return NewPosition(row, col)
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Tag is the inverse of ParsePosition.
func (p Position) Tag() string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

// IsLight reports the checkerboard parity of the cell: (row+col) even is light.
func (p Position) IsLight() bool {
	return (p.Row+p.Col)%2 == 0
}

func (p Position) square() chess.Square {
	file := chess.File(p.Col)
	rank := chess.Rank(BoardSize - 1 - p.Row)
	return chess.Square(int(rank)*BoardSize + int(file))
}

// Notation returns the algebraic name of the cell, e.g. (6,4) is "e2".
func (p Position) Notation() string {
	if !p.Valid() {
		return ""
	}
	return p.square().String()
}

func (p Position) String() string {
	return p.Tag()
}
