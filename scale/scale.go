// Package scale measures how training time to a target loss scales with the
// number of workers.
package scale

import (
	"math"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/fsb-ml/scoreplot/score"
)

// Point is one worker count and its measured value, a time in seconds or a
// speedup.
type Point struct {
	Workers int
	Value   float64
}

// Measure returns, for every run that reaches target, the time it took.
// curves[i] must belong to workers[i]. Missing (nil) curves and runs that
// never reach the target are skipped.
func Measure(workers []int, curves []*score.Curve, target float64) ([]Point, error) {
	if len(workers) != len(curves) {
		return nil, errors.Errorf("%d worker counts for %d runs", len(workers), len(curves))
	}
	var pts []Point
	for i, c := range curves {
		if c == nil {
			continue
		}
		t, ok := c.TimeToReach(target)
		if !ok {
			glog.Warningf("%s never reaches loss %g (final %g), skipped", c.Name, target, c.Final().Loss)
			continue
		}
		pts = append(pts, Point{Workers: workers[i], Value: t})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Workers < pts[j].Workers })
	return pts, nil
}

// Speedup converts times into speedups relative to the smallest worker count
// w0, scaled so that the baseline has speedup w0.
func Speedup(times []Point) []Point {
	if len(times) == 0 {
		return nil
	}
	base := times[0]
	for _, p := range times[1:] {
		if p.Workers < base.Workers {
			base = p
		}
	}
	out := make([]Point, len(times))
	for i, p := range times {
		out[i] = Point{Workers: p.Workers, Value: base.Value * float64(base.Workers) / p.Value}
	}
	return out
}

// Fit is Amdahl's law written as y = A + B/n. For a time fit y is the time;
// for a speedup fit y is 1/speedup.
type Fit struct {
	A, B    float64
	Speedup bool
}

// FitAmdahl fits points by least squares on 1/n.
func FitAmdahl(points []Point, speedup bool) (Fit, error) {
	if len(points) < 2 {
		return Fit{}, errors.Errorf("need at least 2 points to fit, have %d", len(points))
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if p.Workers <= 0 || p.Value <= 0 {
			return Fit{}, errors.Errorf("bad point %+v", p)
		}
		xs[i] = 1 / float64(p.Workers)
		ys[i] = p.Value
		if speedup {
			ys[i] = 1 / p.Value
		}
	}
	if floats.Min(xs) == floats.Max(xs) {
		return Fit{}, errors.New("all points have the same worker count")
	}
	a, b := stat.LinearRegression(xs, ys, nil, false)
	return Fit{A: a, B: b, Speedup: speedup}, nil
}

// Eval returns the fitted time or speedup at n workers.
func (f Fit) Eval(n float64) float64 {
	y := f.A + f.B/n
	if f.Speedup {
		return 1 / y
	}
	return y
}

// Bound is the worker count where a speedup fit with a negative serial part
// diverges. It is +Inf for time fits and for speedup fits that stay finite.
func (f Fit) Bound() float64 {
	if f.Speedup && f.A < 0 && f.B > 0 {
		return -f.B / f.A
	}
	return math.Inf(1)
}

// Parallel is the estimated parallel fraction of the work.
func (f Fit) Parallel() float64 {
	return f.B / (f.A + f.B)
}

// MaxSpeedup is the asymptotic speedup as n grows, +Inf when the serial part
// fits to zero or below.
func (f Fit) MaxSpeedup() float64 {
	if f.A <= 0 {
		return math.Inf(1)
	}
	return (f.A + f.B) / f.A
}
