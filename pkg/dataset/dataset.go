// Package dataset reads sparse (x,y,z,value) samples, infers their axis
// ranges and writes grids back out as space-separated rows.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gridgrad/internal/models"
)

var (
	// ErrInvalidData is wrapped by every validation failure of the input file
	ErrInvalidData = errors.New("dataset: invalid data")
	// ErrNoData is returned when the input has no rows
	ErrNoData = fmt.Errorf("%w: no data", ErrInvalidData)
	// ErrColumnCount is returned when a row does not have exactly 4 columns
	ErrColumnCount = fmt.Errorf("%w: should have 4 columns", ErrInvalidData)
	// ErrParse is returned when a field cannot be parsed
	ErrParse = fmt.Errorf("%w: unparsable field", ErrInvalidData)
)

// CoordinateBits is the integer width of x, y and z. Coordinates outside
// [-128, 127] are rejected, which also bounds the dense box at 256^3 cells.
const CoordinateBits = 8

// Load reads a sparse dataset from a file. A missing file yields an error
// matching os.ErrNotExist.
func Load(path string) (models.Sparse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening data file: %w", err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Read parses whitespace-separated rows of x y z value. Coordinates are
// 8-bit integers and values are 32-bit floats. Samples sharing a cell are
// averaged.
func Read(r io.Reader) (models.Sparse, error) {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[models.Cell]*acc)

	scanner := bufio.NewScanner(r)
	line := 0
	rows := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: %w, got %d", line, ErrColumnCount, len(fields))
		}

		var coords [3]int
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseInt(fields[i], 10, CoordinateBits)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %q", line, ErrParse, fields[i])
			}
			coords[i] = int(v)
		}
		value, err := strconv.ParseFloat(fields[3], 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", line, ErrParse, fields[3])
		}

		cell := models.Cell{X: coords[0], Y: coords[1], Z: coords[2]}
		a, ok := groups[cell]
		if !ok {
			a = &acc{}
			groups[cell] = a
		}
		a.sum += value
		a.count++
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading data: %w", err)
	}
	if rows == 0 {
		return nil, ErrNoData
	}

	sparse := make(models.Sparse, len(groups))
	for cell, a := range groups {
		sparse[cell] = a.sum / float64(a.count)
	}
	return sparse, nil
}

// InferRanges computes, per axis, the smallest and largest observed
// coordinate and the number of distinct coordinates.
func InferRanges(s models.Sparse) ([3]models.AxisRange, error) {
	var ranges [3]models.AxisRange
	if len(s) == 0 {
		return ranges, ErrNoData
	}

	var seen [3]map[int]struct{}
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}
	first := true
	for cell := range s {
		for _, axis := range models.Axes {
			v := cell.Coord(axis)
			seen[axis][v] = struct{}{}
			if first || v < ranges[axis].Min {
				ranges[axis].Min = v
			}
			if first || v > ranges[axis].Max {
				ranges[axis].Max = v
			}
		}
		first = false
	}
	for _, axis := range models.Axes {
		ranges[axis].Count = len(seen[axis])
	}
	return ranges, nil
}
