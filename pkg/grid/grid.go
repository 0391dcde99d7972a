// Package grid provides the dense cuboid used by the reconstruction pipeline.
// Values are stored as a flat array in Cartesian-product order: x is the
// outermost axis and z varies fastest, matching the order rows are written in.
package grid

import (
	"errors"
	"fmt"

	"gridgrad/internal/models"
)

// ErrOutOfRange is returned when a cell lies outside the grid box
var ErrOutOfRange = errors.New("grid: cell outside grid bounds")

// Grid is a dense 3D array over the inclusive box described by three axis
// ranges. Each cell either holds a value or is marked missing.
type Grid struct {
	ranges [3]models.AxisRange

	// shape holds the span of each axis
	shape [3]int

	values []float64
	valid  []bool
}

// New creates a grid over the given ranges with every cell missing
func New(ranges [3]models.AxisRange) *Grid {
	g := &Grid{ranges: ranges}
	size := 1
	for i, r := range ranges {
		g.shape[i] = r.Span()
		size *= g.shape[i]
	}
	g.values = make([]float64, size)
	g.valid = make([]bool, size)
	return g
}

// NewLike creates an empty grid with the same ranges as g
func NewLike(g *Grid) *Grid {
	return New(g.ranges)
}

// FromSparse reindexes sparse samples onto the full box. Samples outside
// the ranges are ignored; cells without a sample are left missing.
func FromSparse(s models.Sparse, ranges [3]models.AxisRange) *Grid {
	g := New(ranges)
	for c, v := range s {
		if idx, ok := g.Index(c); ok {
			g.values[idx] = v
			g.valid[idx] = true
		}
	}
	return g
}

// Ranges returns the per-axis ranges of the grid
func (g *Grid) Ranges() [3]models.AxisRange { return g.ranges }

// Shape returns the number of cells along each axis
func (g *Grid) Shape() [3]int { return g.shape }

// Len returns the total number of cells
func (g *Grid) Len() int { return len(g.values) }

// Stride returns the distance in the flat array between neighbours along axis
func (g *Grid) Stride(axis models.Axis) int {
	switch axis {
	case models.AxisX:
		return g.shape[1] * g.shape[2]
	case models.AxisY:
		return g.shape[2]
	default:
		return 1
	}
}

// Index converts a cell to its flat position
func (g *Grid) Index(c models.Cell) (int, bool) {
	for _, axis := range models.Axes {
		if !g.ranges[axis].Contains(c.Coord(axis)) {
			return 0, false
		}
	}
	i := c.X - g.ranges[0].Min
	j := c.Y - g.ranges[1].Min
	k := c.Z - g.ranges[2].Min
	return (i*g.shape[1]+j)*g.shape[2] + k, true
}

// Cell converts a flat position back to a cell
func (g *Grid) Cell(idx int) models.Cell {
	k := idx % g.shape[2]
	idx /= g.shape[2]
	j := idx % g.shape[1]
	i := idx / g.shape[1]
	return models.Cell{
		X: i + g.ranges[0].Min,
		Y: j + g.ranges[1].Min,
		Z: k + g.ranges[2].Min,
	}
}

// At returns the value of a cell and whether it holds one
func (g *Grid) At(c models.Cell) (float64, bool) {
	idx, ok := g.Index(c)
	if !ok || !g.valid[idx] {
		return 0, false
	}
	return g.values[idx], true
}

// Set stores a value for a cell, marking it present
func (g *Grid) Set(c models.Cell, v float64) error {
	idx, ok := g.Index(c)
	if !ok {
		return fmt.Errorf("%w: %s", ErrOutOfRange, c)
	}
	g.values[idx] = v
	g.valid[idx] = true
	return nil
}

// AtIndex returns the value at a flat position and whether it holds one
func (g *Grid) AtIndex(idx int) (float64, bool) {
	return g.values[idx], g.valid[idx]
}

// SetIndex stores a value at a flat position, marking it present
func (g *Grid) SetIndex(idx int, v float64) {
	g.values[idx] = v
	g.valid[idx] = true
}

// Missing lists the cells without a value in Cartesian-product order
func (g *Grid) Missing() []models.Cell {
	var missing []models.Cell
	for idx, ok := range g.valid {
		if !ok {
			missing = append(missing, g.Cell(idx))
		}
	}
	return missing
}

// Complete reports whether every cell holds a value
func (g *Grid) Complete() bool {
	for _, ok := range g.valid {
		if !ok {
			return false
		}
	}
	return true
}

// Values returns the backing array. Entries of missing cells are zero.
func (g *Grid) Values() []float64 { return g.values }
