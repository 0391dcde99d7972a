// Package generator produces synthetic grid samples for exercising the
// reconstruction pipeline. Each cell of a box gets its sequential number of
// visit as value, and selected cells can be left out to simulate missing data.
package generator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gridgrad/internal/models"
)

var (
	// ErrExcludedArity is returned when the excluded cell list is not made of triples
	ErrExcludedArity = errors.New("generator: missing cells indices must be multiples of 3")
	// ErrTriple is returned when a min/max argument is not three integers
	ErrTriple = errors.New("generator: expected three comma-separated integers")
)

// ParseTriple parses "i,j,k"
func ParseTriple(s string) ([3]int, error) {
	var res [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return res, fmt.Errorf("%w: %q", ErrTriple, s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return res, fmt.Errorf("%w: %q", ErrTriple, s)
		}
		res[i] = v
	}
	return res, nil
}

// ParseExcluded parses "i1,j1,k1,i2,j2,k2,..." into cells. An empty string
// yields no cells.
func ParseExcluded(s string) ([]models.Cell, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d values", ErrExcludedArity, len(parts))
	}

	cells := make([]models.Cell, 0, len(parts)/3)
	var coords [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid missing cell index %q: %w", p, err)
		}
		coords[i%3] = v
		if i%3 == 2 {
			cells = append(cells, models.Cell{X: coords[0], Y: coords[1], Z: coords[2]})
		}
	}
	return cells, nil
}

// Generate visits every cell of [min[0],max[0]) x [min[1],max[1]) x [min[2],max[2])
// with i outermost and k innermost, emitting a sample for each cell not in
// excluded. The value is the visit counter starting at 0, and it advances for
// excluded cells as well, so a sample's value never depends on which other
// cells were left out.
func Generate(min, max [3]int, excluded []models.Cell) []models.Sample {
	skip := make(map[models.Cell]struct{}, len(excluded))
	for _, c := range excluded {
		skip[c] = struct{}{}
	}

	var samples []models.Sample
	if volume := boxVolume(min, max); volume > 0 {
		samples = make([]models.Sample, 0, volume)
	}

	x := 0.0
	for i := min[0]; i < max[0]; i++ {
		for j := min[1]; j < max[1]; j++ {
			for k := min[2]; k < max[2]; k++ {
				c := models.Cell{X: i, Y: j, Z: k}
				if _, ok := skip[c]; !ok {
					samples = append(samples, models.Sample{Cell: c, Value: x})
				}
				x++
			}
		}
	}
	return samples
}

func boxVolume(min, max [3]int) int {
	v := 1
	for i := range min {
		if max[i] <= min[i] {
			return 0
		}
		v *= max[i] - min[i]
	}
	return v
}
