package uniformgrid

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a position or index lies outside the grid.
	ErrOutOfRange = errors.New("out of grid range")
	// ErrDimensionMismatch is returned when a caller-supplied mask has the wrong shape.
	ErrDimensionMismatch = errors.New("mask dimensions do not match grid")
	// ErrInvalidSideLength is returned by the constructors for a non-positive cell size.
	ErrInvalidSideLength = errors.New("cell side length must be positive")
	// ErrNoFreeCell is returned when the fallback search finds no free cell in the layer.
	ErrNoFreeCell = errors.New("no free cell within search radius")
	// ErrNoPath is returned when no free cell reachable from the start exists near the finish.
	ErrNoPath = errors.New("no path found")

	ErrDuplicateKey     = errors.New("duplicate key")
	ErrKeyNotFound      = errors.New("key not found")
	ErrMapInconsistency = errors.New("bidirectional map out of sync")
)

// RangeError reports the axis and value that fell outside the grid.
type RangeError struct {
	Axis  string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s axis value %.4f outside [%.4f, %.4f]", e.Axis, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }
