package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgrad/internal/models"
	"gridgrad/pkg/grid"
)

func TestRead(t *testing.T) {
	input := "0 0 0 1.5\n0 0 1 2\n\n1 0 0 -3.25\n"
	sparse, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, models.Sparse{
		{X: 0, Y: 0, Z: 0}: 1.5,
		{X: 0, Y: 0, Z: 1}: 2,
		{X: 1, Y: 0, Z: 0}: -3.25,
	}, sparse)
}

func TestReadAveragesDuplicates(t *testing.T) {
	input := "1 2 3 1.0\n1 2 3 2.0\n1 2 3 6.0\n0 0 0 4\n"
	sparse, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sparse, 2)
	assert.InDelta(t, 3.0, sparse[models.Cell{X: 1, Y: 2, Z: 3}], 1e-9)
}

func TestReadValueIsFloat32(t *testing.T) {
	sparse, err := Read(strings.NewReader("0 0 0 0.1\n"))
	require.NoError(t, err)
	assert.Equal(t, float64(float32(0.1)), sparse[models.Cell{}])
}

func TestReadErrors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected error
	}{
		{"empty", "", ErrNoData},
		{"blank lines only", "\n\n  \n", ErrNoData},
		{"three columns", "0 0 0\n", ErrColumnCount},
		{"five columns", "0 0 0 1 2\n", ErrColumnCount},
		{"bad coordinate", "0 a 0 1\n", ErrParse},
		{"fractional coordinate", "0 0.5 0 1\n", ErrParse},
		{"bad value", "0 0 0 x\n", ErrParse},
		{"coordinate above int8", "0 0 128 1\n", ErrParse},
		{"coordinate below int8", "-129 0 0 1\n", ErrParse},
		{"huge coordinate", "0 0 0 1\n3000000 3000000 3000000 2\n", ErrParse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
			assert.ErrorIs(t, err, ErrInvalidData)
		})
	}
}

func TestReadCoordinateBounds(t *testing.T) {
	sparse, err := Read(strings.NewReader("-128 0 127 1.0\n127 -128 0 2.0\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, sparse[models.Cell{X: -128, Y: 0, Z: 127}])
	assert.Equal(t, 2.0, sparse[models.Cell{X: 127, Y: -128, Z: 0}])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 0 0 1.0\n0 0 1 2.0\n"), 0644))

	sparse, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, sparse, 2)
}

func TestInferRanges(t *testing.T) {
	sparse := models.Sparse{
		{X: 0, Y: -2, Z: 5}: 1,
		{X: 3, Y: -2, Z: 5}: 1,
		{X: 1, Y: 4, Z: 5}:  1,
		{X: 1, Y: 0, Z: 5}:  1,
	}
	ranges, err := InferRanges(sparse)
	require.NoError(t, err)

	assert.Equal(t, models.AxisRange{Min: 0, Max: 3, Count: 3}, ranges[models.AxisX])
	assert.Equal(t, models.AxisRange{Min: -2, Max: 4, Count: 3}, ranges[models.AxisY])
	assert.Equal(t, models.AxisRange{Min: 5, Max: 5, Count: 1}, ranges[models.AxisZ])

	// x skips coordinate 2, so the span is larger than the distinct count
	assert.True(t, ranges[models.AxisX].HasGaps())
	assert.Equal(t, 4, ranges[models.AxisX].Span())
	assert.False(t, ranges[models.AxisZ].HasGaps())
}

func TestInferRangesEmpty(t *testing.T) {
	_, err := InferRanges(models.Sparse{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWriteGrid(t *testing.T) {
	r := models.AxisRange{Min: 0, Max: 1, Count: 2}
	g := grid.New([3]models.AxisRange{r, {Min: 0, Max: 0, Count: 1}, {Min: 3, Max: 3, Count: 1}})
	require.NoError(t, g.Set(models.Cell{X: 0, Y: 0, Z: 3}, 0.5))

	var buf bytes.Buffer
	assert.Error(t, WriteGrid(&buf, g, 64))

	require.NoError(t, g.Set(models.Cell{X: 1, Y: 0, Z: 3}, 2))
	buf.Reset()
	require.NoError(t, WriteGrid(&buf, g, 64))
	assert.Equal(t, "0 0 3 0.5\n1 0 3 2.0\n", buf.String())
}

func TestSaveGridCreatesDirectory(t *testing.T) {
	r := models.AxisRange{Min: 0, Max: 0, Count: 1}
	g := grid.New([3]models.AxisRange{r, r, r})
	require.NoError(t, g.Set(models.Cell{}, 1))

	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	require.NoError(t, SaveGrid(path, g, 32))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0 0 0 1.0\n", string(data))
}

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		value    float64
		bits     int
		expected string
	}{
		{0, 64, "0.0"},
		{1, 64, "1.0"},
		{-4.5, 64, "-4.5"},
		{1000000, 64, "1000000.0"},
		{1e16, 64, "1e+16"},
		{0.00001, 64, "1e-05"},
		{0.0001, 64, "0.0001"},
		{float64(float32(0.1)), 32, "0.1"},
		{float64(float32(0.1)), 64, "0.10000000149011612"},
		{13.76, 32, "13.76"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatValue(tc.value, tc.bits), "FormatValue(%v, %d)", tc.value, tc.bits)
	}
}
