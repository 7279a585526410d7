package model

import "errors"

var (
	ErrOutOfBounds         = errors.New("position out of bounds")
	ErrBadPosition         = errors.New("malformed position")
	ErrEmptySource         = errors.New("no piece at source cell")
	ErrSelectionIncomplete = errors.New("select a piece and a target cell first")
	ErrNoPieceAtSource     = errors.New("no piece selected to move")
	ErrNothingToUndo       = errors.New("no moves to undo")
	ErrNothingToRedo       = errors.New("no moves to redo")
)
