// Package runname builds and decodes the names under which experiment runs
// store their results, e.g. "60000-0.001/tap-4-p0.04-r0.01-ld-vj".
package runname

import (
	"math"
	"strconv"
)

// Expand returns prefix+v+suffix for every value, in order.
func Expand(prefix string, values []string, suffix string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, prefix+v+suffix)
	}
	return out
}

// ExpandFloats is Expand over numeric values.
func ExpandFloats(prefix string, values []float64, suffix string) []string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = FormatValue(v)
	}
	return Expand(prefix, s, suffix)
}

// ExpandInts is Expand over integer values.
func ExpandInts(prefix string, values []int, suffix string) []string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return Expand(prefix, s, suffix)
}

// Prio2BS converts a priority fraction of a base batch into a batch size:
// a run that updates with the top 1% of 60000 points is compared against
// plain SGD with batch size 600.
func Prio2BS(base int, fraction float64) int {
	bs := int(math.Round(float64(base) * fraction))
	if bs < 1 {
		bs = 1
	}
	return bs
}

// FormatValue prints v in its shortest form, 4 rather than 4.0.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
