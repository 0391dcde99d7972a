package interpolation

import (
	"errors"

	"gridgrad/internal/models"
	"gridgrad/pkg/grid"
)

// ErrUnfilled is returned when cells are still missing after the neighbour pass
var ErrUnfilled = errors.New("interpolation: missing cells remain after filling from 6 neighbours, consider other fill-in strategies")

// Neighbors returns the up to 6 axis-aligned unit neighbours of c that lie
// within the ranges, in the order x-1, x+1, y-1, y+1, z-1, z+1.
func Neighbors(c models.Cell, ranges [3]models.AxisRange) []models.Cell {
	res := make([]models.Cell, 0, 6)
	for _, axis := range models.Axes {
		r := ranges[axis]
		if c.Coord(axis)-1 >= r.Min {
			res = append(res, c.Offset(axis, -1))
		}
		if c.Coord(axis)+1 <= r.Max {
			res = append(res, c.Offset(axis, 1))
		}
	}
	return res
}

// FillNeighbors performs a single pass over the missing cells in the order
// given, setting each to the mean of its neighbours that hold a value at the
// time it is visited. Cells filled earlier in the pass count as valued for
// later ones. A cell with no valued neighbour is left missing.
//
// It returns the number of cells that were filled.
func FillNeighbors(g *grid.Grid, missing []models.Cell) int {
	ranges := g.Ranges()
	filled := 0
	for _, cell := range missing {
		if _, ok := g.At(cell); ok {
			continue
		}

		sum := 0.0
		count := 0
		for _, n := range Neighbors(cell, ranges) {
			if v, ok := g.At(n); ok {
				sum += v
				count++
			}
		}
		if count == 0 {
			continue
		}
		if err := g.Set(cell, sum/float64(count)); err != nil {
			continue
		}
		filled++
	}
	return filled
}
