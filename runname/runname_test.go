package runname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	assert.Equal(t, []string{"bsp-4", "bsp-12", "bsp-24"}, ExpandInts("bsp-", []int{4, 12, 24}, ""))
	assert.Equal(t,
		[]string{"tap-4-p0.01-r0.01-ld", "tap-4-p0.02-r0.01-ld"},
		ExpandFloats("tap-4-p", []float64{0.01, 0.02}, "-r0.01-ld"))
	assert.Equal(t, []string{"decay-0.99"}, ExpandFloats("decay-", []float64{1 - 0.01}, ""))
	assert.Empty(t, Expand("x", nil, "y"))
}

func TestPrio2BS(t *testing.T) {
	for _, c := range []struct {
		base int
		frac float64
		want int
	}{
		{60000, 0.01, 600},
		{60000, 0.05, 3000},
		{60000, 0.29, 17400},
		{60000, 0.07, 4200},
		{100, 0.001, 1},
	} {
		assert.Equal(t, c.want, Prio2BS(c.base, c.frac), "%d*%g", c.base, c.frac)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "4", FormatValue(4))
	assert.Equal(t, "0.01", FormatValue(0.01))
	assert.Equal(t, "1000000", FormatValue(1e6))
	assert.Equal(t, "0.0001", FormatValue(0.0001))
}

func TestParse(t *testing.T) {
	r, err := Parse("60000-0.001/tap-4-p0.04-r0.01-ld-vj")
	require.NoError(t, err)
	assert.Equal(t, 60000, r.Batch)
	assert.Equal(t, 0.001, r.LearningRate)
	assert.Equal(t, "tap", r.Mode)
	assert.Equal(t, 4, r.Workers)
	assert.Equal(t, 0.04, r.TopK)
	assert.Equal(t, 0.01, r.Random)
	assert.Equal(t, []string{"ld", "vj"}, r.Flags)
	assert.Equal(t, "PSGD-k:4%,r:1%+D+A", r.Label())
}

func TestParseRelative(t *testing.T) {
	r, err := Parse("60000-0.001/../600-0.001/bsp-4.txt")
	require.NoError(t, err)
	assert.Equal(t, 600, r.Batch)
	assert.Equal(t, "bsp", r.Mode)
	assert.Equal(t, "SGD", r.Label())

	r, err = Parse("aap-24")
	require.NoError(t, err)
	assert.Zero(t, r.Batch)
	assert.Equal(t, 24, r.Workers)
}

func TestParsePriority(t *testing.T) {
	r, err := Parse("60000-0.001/bsp-4-pgr0.01-0.05")
	require.NoError(t, err)
	require.NotNil(t, r.Priority)
	assert.Equal(t, byte('g'), r.Priority.Selection)
	assert.Equal(t, byte('r'), r.Priority.Order)
	assert.Equal(t, 0.01, r.Priority.Fraction)
	assert.Equal(t, 0.05, r.Priority.Rate)
	assert.Empty(t, r.Flags)
	assert.Equal(t, "PSGD-gr:1%,lr:0.05", r.Label())

	r, err = Parse("bsp-4-pso0.15")
	require.NoError(t, err)
	assert.Equal(t, "PSGD-so:15%", r.Label())
}

func TestParseDecay(t *testing.T) {
	r, err := Parse("tap-4-p0.01-r0.01-d0.9")
	require.NoError(t, err)
	assert.Equal(t, 0.9, r.Decay)
	assert.Equal(t, "PSGD-k:1%,r:1%,d:0.9", r.Label())
	assert.False(t, r.HasFlag("ld"))
}

func TestParseExponent(t *testing.T) {
	r, err := Parse("60000-1e-05/tap-4-p1e-05-r0.01-ld")
	require.NoError(t, err)
	assert.Equal(t, 60000, r.Batch)
	assert.Equal(t, 1e-05, r.LearningRate)
	assert.Equal(t, 4, r.Workers)
	assert.Equal(t, 1e-05, r.TopK)
	assert.Equal(t, 0.01, r.Random)
	assert.Equal(t, []string{"ld"}, r.Flags)
	assert.Equal(t, "PSGD-k:0.001%,r:1%+D", r.Label())

	r, err = Parse("bsp-4-pgr0.01-1e-05")
	require.NoError(t, err)
	require.NotNil(t, r.Priority)
	assert.Equal(t, 1e-05, r.Priority.Rate)
	assert.Empty(t, r.Flags)

	// names built by Expand round-trip
	for _, name := range ExpandFloats("tap-4-p0.01-r", []float64{1e-05, 0.001}, "-ld") {
		r, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"ld"}, r.Flags, name)
	}
}

func TestParseErrors(t *testing.T) {
	for _, name := range []string{"bsp", "xyz-4", "tap-x", "tap-0", ""} {
		_, err := Parse(name)
		assert.Error(t, err, name)
	}
}
