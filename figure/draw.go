package figure

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/fsb-ml/scoreplot/scale"
	"github.com/fsb-ml/scoreplot/score"
)

var (
	lineWidth = vg.Points(1.5)
	refColor  = color.Gray{Y: 128}
)

// Series picks the data a curve contributes to a figure.
type Series struct {
	X     score.XAxis
	Y     score.Metric
	Limit int
}

func (f *Figure) setAxisLabels(x, y string) {
	if f.p.X.Label.Text == "" {
		f.p.X.Label.Text = x
	}
	if f.p.Y.Label.Text == "" {
		f.p.Y.Label.Text = y
	}
}

func (f *Figure) curve(c *score.Curve, label string, s Series, colorIdx, dashIdx int) error {
	pts, err := c.Series(s.X, s.Y, s.Limit)
	if err != nil {
		return err
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrapf(err, "line for %s", c.Name)
	}
	l.Color = plotutil.Color(colorIdx)
	l.Dashes = plotutil.Dashes(dashIdx)
	l.Width = lineWidth
	if label == "" {
		label = c.Name
	}
	f.add(label, l, l)
	return nil
}

// DrawList draws one solid line per curve. curves[i] gets color i and
// labels[i] as its legend text; a nil curve draws nothing but keeps its color.
func (f *Figure) DrawList(curves []*score.Curve, labels []string, s Series) error {
	f.setAxisLabels(s.X.Label(), s.Y.Label())
	for i, c := range curves {
		if c == nil {
			continue
		}
		if err := f.curve(c, at(labels, i), s, i, 0); err != nil {
			return err
		}
	}
	return nil
}

// DrawListCmp draws groups of curves meant to be compared entry by entry:
// groups[g][i] gets dash style g and color i. nil entries are placeholders.
func (f *Figure) DrawListCmp(groups [][]*score.Curve, labels [][]string, s Series) error {
	f.setAxisLabels(s.X.Label(), s.Y.Label())
	for g, curves := range groups {
		var gl []string
		if g < len(labels) {
			gl = labels[g]
		}
		for i, c := range curves {
			if c == nil {
				continue
			}
			if err := f.curve(c, at(gl, i), s, i, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

// ScaleOptions controls the extras of DrawScale.
type ScaleOptions struct {
	// Speedup plots speedup instead of time to target.
	Speedup bool
	// Ref adds the ideal linear speedup; ignored for time plots.
	Ref bool
	// Fit adds the least-squares Amdahl curve.
	Fit bool
	// Est extends the fit to twice the largest worker count and names the
	// estimated parallel fraction in the legend.
	Est   bool
	Label string
}

const fitSamples = 100

// DrawScale plots measured points against worker count.
func (f *Figure) DrawScale(points []scale.Point, o ScaleOptions) error {
	if len(points) == 0 {
		return errors.New("no scale points to draw")
	}
	if o.Speedup {
		f.setAxisLabels("Workers", "Speedup")
	} else {
		f.setAxisLabels("Workers", "Time (s)")
	}

	xys := make(plotter.XYs, len(points))
	minW, maxW := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		xys[i].X = float64(p.Workers)
		xys[i].Y = p.Value
		minW = math.Min(minW, xys[i].X)
		maxW = math.Max(maxW, xys[i].X)
	}
	xmax := maxW
	if o.Est {
		xmax = 2 * maxW
	}

	if o.Speedup && o.Ref {
		ref, err := plotter.NewLine(plotter.XYs{{X: minW, Y: minW}, {X: xmax, Y: xmax}})
		if err != nil {
			return errors.Wrap(err, "reference line")
		}
		ref.Color = refColor
		ref.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		f.add("ideal", ref, ref)
	}

	l, s, err := plotter.NewLinePoints(xys)
	if err != nil {
		return errors.Wrap(err, "scale line")
	}
	l.Color = plotutil.Color(0)
	l.Width = lineWidth
	s.Color = plotutil.Color(0)
	s.Shape = draw.CircleGlyph{}
	label := o.Label
	if label == "" {
		label = "measured"
	}
	f.add(label, l, l, s)

	if !o.Fit && !o.Est {
		return nil
	}
	fit, err := scale.FitAmdahl(points, o.Speedup)
	if err != nil {
		return err
	}
	fmax := xmax
	if b := fit.Bound(); fmax >= b {
		// superlinear measurements: the speedup fit diverges at b
		fmax = 0.95 * b
	}
	fxy := make(plotter.XYs, 0, fitSamples)
	for i := 0; i < fitSamples; i++ {
		n := minW + (fmax-minW)*float64(i)/float64(fitSamples-1)
		y := fit.Eval(n)
		if math.IsInf(y, 0) || math.IsNaN(y) || (o.Speedup && y <= 0) {
			continue
		}
		fxy = append(fxy, plotter.XY{X: n, Y: y})
	}
	if fmax <= minW || len(fxy) < 2 {
		glog.Warningf("fit %+v has no usable range above %v workers, not drawn", fit, minW)
		return nil
	}
	fl, err := plotter.NewLine(fxy)
	if err != nil {
		return errors.Wrap(err, "fit line")
	}
	fl.Color = plotutil.Color(1)
	fl.Dashes = plotutil.Dashes(1)
	fl.Width = lineWidth
	flabel := "fit"
	if o.Est {
		flabel = fmt.Sprintf("fit (parallel %.1f%%)", 100*fit.Parallel())
		if o.Speedup && !math.IsInf(fit.MaxSpeedup(), 1) {
			flabel = fmt.Sprintf("fit (parallel %.1f%%, max %.1fx)", 100*fit.Parallel(), fit.MaxSpeedup())
		}
	}
	f.add(flabel, fl, fl)
	return nil
}
