package converter

import "errors"

var (
	// ErrUnknownStencil is returned for shapes no converter reads.
	ErrUnknownStencil = errors.New("unknown stencil")
	// ErrUnknownElement is returned for model elements no converter writes.
	ErrUnknownElement = errors.New("unknown element type")
)
