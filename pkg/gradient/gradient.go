// Package gradient computes finite-difference derivatives of a dense grid.
//
// Along each axis the derivative uses unit spacing: the central difference
// (f[i+1]-f[i-1])/2 at interior points and the one-sided differences
// f[1]-f[0] and f[n-1]-f[n-2] at the two ends.
package gradient

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gridgrad/internal/models"
	"gridgrad/pkg/grid"
)

var (
	// ErrAxisTooShort is returned when an axis has fewer than 2 points
	ErrAxisTooShort = errors.New("gradient: shape of array too small to calculate a numerical gradient, at least 2 elements are required")
	// ErrIncomplete is returned when the source grid still has missing cells
	ErrIncomplete = errors.New("gradient: grid has missing cells")
)

// Along returns the derivative of g along axis as a new grid of the same shape
func Along(g *grid.Grid, axis models.Axis) (*grid.Grid, error) {
	if !g.Complete() {
		return nil, ErrIncomplete
	}
	shape := g.Shape()
	n := shape[axis]
	if n < 2 {
		return nil, fmt.Errorf("%w: axis %s has %d", ErrAxisTooShort, axis, n)
	}

	src := g.Values()
	out := grid.NewLike(g)
	stride := g.Stride(axis)

	// Every line along axis starts at a cell whose coordinate on that axis is
	// the minimum; visit those starts and walk each line with the stride.
	for start := 0; start < g.Len(); start++ {
		if (start/stride)%n != 0 {
			continue
		}
		last := start + (n-1)*stride
		out.SetIndex(start, src[start+stride]-src[start])
		for i := start + stride; i < last; i += stride {
			out.SetIndex(i, (src[i+stride]-src[i-stride])/2)
		}
		out.SetIndex(last, src[last]-src[last-stride])
	}
	return out, nil
}

// All computes the derivative along x, y and z. The axes run as independent
// tasks, at most workers at a time; workers <= 0 means no limit.
func All(ctx context.Context, g *grid.Grid, workers int) ([3]*grid.Grid, error) {
	var res [3]*grid.Grid

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for _, axis := range models.Axes {
		axis := axis
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := Along(g, axis)
			if err != nil {
				return err
			}
			res[axis] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return [3]*grid.Grid{}, err
	}
	return res, nil
}

// Stats summarises the values of a gradient grid
type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize returns descriptive statistics of the grid values
func Summarize(g *grid.Grid) Stats {
	values := g.Values()
	if len(values) == 0 {
		return Stats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return Stats{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}
