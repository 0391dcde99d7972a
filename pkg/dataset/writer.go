package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gridgrad/internal/models"
	"gridgrad/pkg/grid"
)

// WriteSamples writes one "x y z value" line per sample
func WriteSamples(w io.Writer, samples []models.Sample, bits int) error {
	bw := bufio.NewWriter(w)
	for _, s := range samples {
		if err := writeRow(bw, s.Cell, s.Value, bits); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteGrid writes every cell of g in Cartesian-product order, one
// "x y z value" line per cell and no header. Missing cells are an error.
func WriteGrid(w io.Writer, g *grid.Grid, bits int) error {
	bw := bufio.NewWriter(w)
	for idx := 0; idx < g.Len(); idx++ {
		v, ok := g.AtIndex(idx)
		if !ok {
			return fmt.Errorf("cell %s has no value", g.Cell(idx))
		}
		if err := writeRow(bw, g.Cell(idx), v, bits); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveGrid writes g to path, creating the parent directory if needed
func SaveGrid(path string, g *grid.Grid, bits int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := WriteGrid(f, g, bits); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}

func writeRow(w *bufio.Writer, c models.Cell, v float64, bits int) error {
	_, err := fmt.Fprintf(w, "%d %d %d %s\n", c.X, c.Y, c.Z, FormatValue(v, bits))
	return err
}
