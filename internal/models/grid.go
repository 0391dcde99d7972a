package models

import "fmt"

// Cell identifies a grid point by its integer coordinates
type Cell struct {
	X, Y, Z int
}

// String formats the cell as "(x,y,z)"
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Coord returns the coordinate of the cell along the given axis
func (c Cell) Coord(axis Axis) int {
	switch axis {
	case AxisX:
		return c.X
	case AxisY:
		return c.Y
	default:
		return c.Z
	}
}

// Offset returns the cell moved by delta along the given axis
func (c Cell) Offset(axis Axis, delta int) Cell {
	switch axis {
	case AxisX:
		c.X += delta
	case AxisY:
		c.Y += delta
	default:
		c.Z += delta
	}
	return c
}

// Sample is a cell with its measured value
type Sample struct {
	Cell
	Value float64
}

// Sparse maps observed cells to their values. It may have gaps relative
// to the full box spanned by its per-axis ranges.
type Sparse map[Cell]float64

// Axis selects one of the three grid dimensions
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the grid dimensions in storage order (x outermost, z innermost)
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// String returns the lowercase axis name
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis accepts "x", "y" or "z" in either case
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", s)
}

// AxisRange describes the observed coordinates along one axis
type AxisRange struct {
	// Min and Max are the smallest and largest observed coordinates
	Min, Max int

	// Count is the number of distinct observed coordinates. It is smaller
	// than Span when whole planes are absent from the data.
	Count int
}

// Span is the number of integer coordinates in [Min, Max]
func (r AxisRange) Span() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

// HasGaps reports whether some coordinates inside [Min, Max] were never observed
func (r AxisRange) HasGaps() bool {
	return r.Count < r.Span()
}

// Contains reports whether v lies within [Min, Max]
func (r AxisRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}
