package dataset

import (
	"math"
	"strconv"
	"strings"
)

// FormatValue renders v in default floating-point notation: the shortest
// representation at the given bit size, with ".0" appended to integral
// values and exponent form outside [1e-4, 1e16).
func FormatValue(v float64, bits int) string {
	if bits != 32 {
		bits = 64
	}
	if math.IsNaN(v) {
		return "nan"
	}
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}

	abs := math.Abs(v)
	if bits == 32 {
		abs = math.Abs(float64(float32(v)))
	}
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, bits)
	}

	s := strconv.FormatFloat(v, 'f', -1, bits)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
