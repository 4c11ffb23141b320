// Package score reads the per-run result files written by the experiment
// scorer and turns them into plottable series.
package score

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/plotter"
)

// DefaultExt is appended to a run name to get its result file.
const DefaultExt = ".txt"

// XAxis selects what a curve is plotted against.
type XAxis int

const (
	Iteration XAxis = iota
	Time
)

// ParseXAxis accepts "iteration"/"iter"/"0" and "time"/"1".
func ParseXAxis(s string) (XAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "iteration", "iter", "0":
		return Iteration, nil
	case "time", "1":
		return Time, nil
	}
	return 0, errors.Errorf("unknown x axis %q", s)
}

func (x XAxis) String() string {
	if x == Time {
		return "time"
	}
	return "iteration"
}

// Label is the axis caption.
func (x XAxis) Label() string {
	if x == Time {
		return "Time (s)"
	}
	return "Iteration"
}

// Metric selects the y value of a curve.
type Metric int

const (
	Loss Metric = iota
	Accuracy
)

func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loss":
		return Loss, nil
	case "accuracy", "acc":
		return Accuracy, nil
	}
	return 0, errors.Errorf("unknown metric %q", s)
}

func (m Metric) String() string {
	if m == Accuracy {
		return "accuracy"
	}
	return "loss"
}

func (m Metric) Label() string {
	if m == Accuracy {
		return "Accuracy"
	}
	return "Loss"
}

// Record is one scored checkpoint.
type Record struct {
	Iteration int
	Time      float64
	Loss      float64
	// Accuracy is NaN when the scorer did not emit it.
	Accuracy float64
}

// Curve is the content of one result file, in file order.
type Curve struct {
	Name    string
	Records []Record
}

// wanted format, one checkpoint per line:
// 120,35.27,0.914[,0.83]
// iteration, elapsed seconds, loss and optionally accuracy.
func Parse(r io.Reader) (*Curve, error) {
	c := &Curve{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	seenData := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			if !seenData && isHeader(line) {
				seenData = true
				continue
			}
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		seenData = true
		c.Records = append(c.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read")
	}
	return c, nil
}

func isHeader(line string) bool {
	for _, f := range strings.Split(line, ",") {
		if _, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err == nil {
			return false
		}
	}
	return true
}

func parseRecord(line string) (Record, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return Record{}, errors.Errorf("want at least 3 fields, got %d", len(fields))
	}
	var (
		rec Record
		err error
	)
	it, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return Record{}, errors.Wrap(err, "bad iteration")
	}
	rec.Iteration = int(it)
	if rec.Time, err = strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err != nil {
		return Record{}, errors.Wrap(err, "bad time")
	}
	if rec.Loss, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err != nil {
		return Record{}, errors.Wrap(err, "bad loss")
	}
	rec.Accuracy = math.NaN()
	if len(fields) > 3 {
		if rec.Accuracy, err = strconv.ParseFloat(strings.TrimSpace(fields[3]), 64); err != nil {
			return Record{}, errors.Wrap(err, "bad accuracy")
		}
	}
	return rec, nil
}

// Len returns the number of records.
func (c *Curve) Len() int { return len(c.Records) }

// Series returns the points of the curve. A positive limit keeps only the
// first limit records.
func (c *Curve) Series(x XAxis, y Metric, limit int) (plotter.XYs, error) {
	rs := c.Records
	if limit > 0 && limit < len(rs) {
		rs = rs[:limit]
	}
	pts := make(plotter.XYs, len(rs))
	for i := range rs {
		switch x {
		case Time:
			pts[i].X = rs[i].Time
		default:
			pts[i].X = float64(rs[i].Iteration)
		}
		switch y {
		case Accuracy:
			if math.IsNaN(rs[i].Accuracy) {
				return nil, errors.Errorf("%s: record %d has no accuracy", c.Name, i)
			}
			pts[i].Y = rs[i].Accuracy
		default:
			pts[i].Y = rs[i].Loss
		}
	}
	return pts, nil
}

// TimeToReach returns the time of the first record whose loss is at or
// below target.
func (c *Curve) TimeToReach(target float64) (float64, bool) {
	for _, r := range c.Records {
		if r.Loss <= target {
			return r.Time, true
		}
	}
	return 0, false
}

// Final returns the last record, or the zero Record for an empty curve.
func (c *Curve) Final() Record {
	if len(c.Records) == 0 {
		return Record{}
	}
	return c.Records[len(c.Records)-1]
}
