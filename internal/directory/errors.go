package directory

import "errors"

var (
	// ErrInvalidShape is returned when a Shape cannot be turned into a tree.
	ErrInvalidShape = errors.New("invalid directory shape")

	// ErrUnknownChild is returned when a child was never declared in the shape.
	ErrUnknownChild = errors.New("unknown child directory")
)
