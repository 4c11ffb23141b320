package score

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# iteration,time,loss,accuracy
0,0,2.30,0.10
10, 1.5, 1.20, 0.61

20,3.0,0.80,0.79
30,4.5,0.60,0.85
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 4, c.Len())
	assert.Equal(t, Record{Iteration: 10, Time: 1.5, Loss: 1.2, Accuracy: 0.61}, c.Records[1])
	assert.Equal(t, 30, c.Final().Iteration)
}

func TestParseHeader(t *testing.T) {
	c, err := Parse(strings.NewReader("iteration,time,loss\n1,0.5,3\n"))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.True(t, math.IsNaN(c.Records[0].Accuracy))
}

func TestParseErrors(t *testing.T) {
	for name, in := range map[string]string{
		"short":         "1,2\n",
		"bad loss":      "1,2,x\n",
		"late header":   "1,2,3\niteration,time,loss\n",
		"bad accuracy":  "1,2,3,nope\n",
		"bad iteration": "a,2,3\n",
	} {
		_, err := Parse(strings.NewReader(in))
		assert.Error(t, err, name)
	}
}

func TestParseErrorNamesLine(t *testing.T) {
	_, err := Parse(strings.NewReader("1,2,3\n\n2,3,oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestSeries(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	pts, err := c.Series(Iteration, Loss, 0)
	require.NoError(t, err)
	require.Len(t, pts, 4)
	assert.Equal(t, 20.0, pts[2].X)
	assert.Equal(t, 0.8, pts[2].Y)

	pts, err = c.Series(Time, Accuracy, 2)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 1.5, pts[1].X)
	assert.Equal(t, 0.61, pts[1].Y)

	pts, err = c.Series(Time, Loss, 100)
	require.NoError(t, err)
	assert.Len(t, pts, 4)
}

func TestSeriesMissingAccuracy(t *testing.T) {
	c, err := Parse(strings.NewReader("0,0,1\n"))
	require.NoError(t, err)
	_, err = c.Series(Iteration, Accuracy, 0)
	assert.Error(t, err)
}

func TestTimeToReach(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	tm, ok := c.TimeToReach(0.8)
	require.True(t, ok)
	assert.Equal(t, 3.0, tm)

	_, ok = c.TimeToReach(0.1)
	assert.False(t, ok)
}

func TestParseAxes(t *testing.T) {
	x, err := ParseXAxis("time")
	require.NoError(t, err)
	assert.Equal(t, Time, x)
	x, err = ParseXAxis("0")
	require.NoError(t, err)
	assert.Equal(t, Iteration, x)
	_, err = ParseXAxis("epoch")
	assert.Error(t, err)

	m, err := ParseMetric("acc")
	require.NoError(t, err)
	assert.Equal(t, Accuracy, m)
	_, err = ParseMetric("f1")
	assert.Error(t, err)
}
