package visualization

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gridgrad/internal/models"
	"gridgrad/pkg/grid"
)

// Viewer extracts 2D planes from a dense grid and renders them as heat maps
type Viewer struct {
	grid *grid.Grid

	// name prefixes titles and file names, e.g. "dfx"
	name string
}

// NewViewer creates a viewer over a complete grid
func NewViewer(g *grid.Grid, name string) *Viewer {
	return &Viewer{grid: g, name: name}
}

// planeAxes returns the two axes spanning the plane orthogonal to axis,
// as (row axis, column axis)
func planeAxes(axis models.Axis) (models.Axis, models.Axis) {
	switch axis {
	case models.AxisX:
		return models.AxisY, models.AxisZ
	case models.AxisY:
		return models.AxisX, models.AxisZ
	default:
		return models.AxisX, models.AxisY
	}
}

// ExtractSlice returns the plane at the given index along axis. Rows follow
// the first remaining axis and columns the second, in storage order.
func (v *Viewer) ExtractSlice(axis models.Axis, position int) (*mat.Dense, error) {
	shape := v.grid.Shape()
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}
	if position >= shape[axis] {
		return nil, fmt.Errorf("position %d exceeds %s size %d", position, axis, shape[axis])
	}

	rowAxis, colAxis := planeAxes(axis)
	ranges := v.grid.Ranges()
	rows, cols := shape[rowAxis], shape[colAxis]
	m := mat.NewDense(rows, cols, nil)

	base := models.Cell{X: ranges[0].Min, Y: ranges[1].Min, Z: ranges[2].Min}.Offset(axis, position)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := base.Offset(rowAxis, r).Offset(colAxis, c)
			val, ok := v.grid.At(cell)
			if !ok {
				return nil, fmt.Errorf("cell %s has no value", cell)
			}
			m.Set(r, c, val)
		}
	}
	return m, nil
}

// sliceGrid adapts an extracted plane to plotter.GridXYZ, using grid
// coordinates for the axes
type sliceGrid struct {
	m        *mat.Dense
	row, col models.AxisRange
}

func (s sliceGrid) Dims() (c, r int) {
	r, c = s.m.Dims()
	return c, r
}

func (s sliceGrid) Z(c, r int) float64 { return s.m.At(r, c) }
func (s sliceGrid) X(c int) float64    { return float64(s.col.Min + c) }
func (s sliceGrid) Y(r int) float64    { return float64(s.row.Min + r) }

// SaveSlice renders the plane at position along axis as a PNG heat map
func (v *Viewer) SaveSlice(axis models.Axis, position int, filename string) error {
	m, err := v.ExtractSlice(axis, position)
	if err != nil {
		return err
	}

	rowAxis, colAxis := planeAxes(axis)
	ranges := v.grid.Ranges()
	hm := plotter.NewHeatMap(sliceGrid{m: m, row: ranges[rowAxis], col: ranges[colAxis]}, palette.Heat(12, 1))
	if hm.Min == hm.Max {
		// a flat plane would give a zero-width colour scale
		hm.Min -= 0.5
		hm.Max += 0.5
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s=%d", v.name, axis, ranges[axis].Min+position)
	p.X.Label.Text = colAxis.String()
	p.Y.Label.Text = rowAxis.String()
	p.Add(hm)

	return p.Save(4*vg.Inch, 4*vg.Inch, filename)
}

// SaveSliceSequence renders every plane along axis into outputDir
func (v *Viewer) SaveSliceSequence(axis models.Axis, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	n := v.grid.Shape()[axis]
	for pos := 0; pos < n; pos++ {
		filename := filepath.Join(outputDir, fmt.Sprintf("%s_%s_%03d.png", v.name, axis, pos))
		if err := v.SaveSlice(axis, pos, filename); err != nil {
			return err
		}
	}

	return nil
}
