package recipe

import (
	"context"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/fsb-ml/scoreplot/figure"
	"github.com/fsb-ml/scoreplot/runname"
	"github.com/fsb-ml/scoreplot/scale"
	"github.com/fsb-ml/scoreplot/score"
)

// Runner renders recipes. Its Store is shared between figures and between
// runs, so call Store.Forget when result files change.
type Runner struct {
	Store *score.Store
	// OutDir overrides the recipe's output directory when set.
	OutDir string
	// Only restricts rendering to the named figures.
	Only []string
}

func NewRunner() *Runner {
	return &Runner{Store: score.NewStore()}
}

func (r *Runner) selected(name string) bool {
	if len(r.Only) == 0 {
		return true
	}
	for _, n := range r.Only {
		if n == name {
			return true
		}
	}
	return false
}

func (r *Runner) outDir(rc *Recipe) string {
	switch {
	case r.OutDir != "":
		return r.OutDir
	case rc.Output != "":
		return rc.Output
	}
	return rc.Dir
}

// Run renders every selected figure and returns the files written.
func (r *Runner) Run(ctx context.Context, rc *Recipe) ([]string, error) {
	var written []string
	n := 0
	for i := range rc.Figures {
		fig := &rc.Figures[i]
		if !r.selected(fig.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}
		files, err := r.Figure(ctx, rc, fig)
		written = append(written, files...)
		if err != nil {
			return written, errors.Wrapf(err, "figure %q", fig.Name)
		}
		n++
	}
	glog.Infof("rendered %d figures, %d files", n, len(written))
	return written, nil
}

// Figure renders one figure of rc.
func (r *Runner) Figure(ctx context.Context, rc *Recipe, fig *Figure) ([]string, error) {
	size := fig.Size
	if size == nil {
		size = rc.Size
	}
	opts := figure.Options{Title: fig.Title}
	if size != nil {
		opts.Width, opts.Height = size[0], size[1]
	}
	f := figure.New(opts)
	if fig.Grid {
		f.AddGrid()
	}

	series, err := r.series(rc, fig)
	if err != nil {
		return nil, err
	}

	var names []string
	switch fig.Kind {
	case KindList:
		curves, err := r.load(ctx, rc, fig.Prefix, fig.Runs)
		if err != nil {
			return nil, err
		}
		names = prefixed(fig.Prefix, fig.Runs)
		if err := f.DrawList(curves, fig.Runs, series); err != nil {
			return nil, err
		}
	case KindCmp:
		groups := make([][]*score.Curve, len(fig.Groups))
		labels := make([][]string, len(fig.Groups))
		for g, list := range fig.Groups {
			if groups[g], err = r.load(ctx, rc, fig.Prefix, list); err != nil {
				return nil, err
			}
			labels[g] = list
			names = append(names, prefixed(fig.Prefix, list)...)
		}
		if err := f.DrawListCmp(groups, labels, series); err != nil {
			return nil, err
		}
	case KindScale:
		curves, err := r.load(ctx, rc, fig.Prefix, fig.Runs)
		if err != nil {
			return nil, err
		}
		times, err := scale.Measure(fig.Workers, curves, fig.Target)
		if err != nil {
			return nil, err
		}
		pts := times
		if fig.Speedup {
			pts = scale.Speedup(times)
		}
		err = f.DrawScale(pts, figure.ScaleOptions{
			Speedup: fig.Speedup,
			Ref:     fig.Ref,
			Fit:     fig.Fit,
			Est:     fig.Est,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown kind %q", fig.Kind)
	}

	switch {
	case fig.Legend.Auto && fig.Kind != KindScale:
		f.SetLegend(autoLabels(names))
	case len(fig.Legend.Labels) > 0:
		f.SetLegend(fig.Legend.Labels)
	}
	f.SetLegendPosition(!fig.LegendLow, fig.LegendLeft)
	if fig.XLim != nil {
		f.SetXLim(fig.XLim[0], fig.XLim[1])
	}
	if fig.YLim != nil {
		f.SetYLim(fig.YLim[0], fig.YLim[1])
	}
	if fig.XTicks != nil {
		f.SetXTicks(fig.XTicks)
	}

	base := fig.Name
	if rc.Name != "" {
		base = rc.Name + "-" + fig.Name
	}
	return f.Save(filepath.Join(r.outDir(rc), base), rc.Formats...)
}

func (r *Runner) series(rc *Recipe, fig *Figure) (figure.Series, error) {
	xs, ys := fig.X, fig.Y
	if xs == "" {
		xs = rc.X
	}
	if ys == "" {
		ys = rc.Y
	}
	x, err := score.ParseXAxis(xs)
	if err != nil {
		return figure.Series{}, err
	}
	y, err := score.ParseMetric(ys)
	if err != nil {
		return figure.Series{}, err
	}
	return figure.Series{X: x, Y: y, Limit: fig.Points}, nil
}

func (r *Runner) load(ctx context.Context, rc *Recipe, prefix string, runs List) ([]*score.Curve, error) {
	paths := make([]string, len(runs))
	for i, name := range runs {
		if name == "" {
			continue
		}
		paths[i] = score.Path(rc.Dir, prefix, name, rc.ext())
	}
	return r.Store.LoadAll(ctx, paths)
}

// prefixed returns the full names of the non-placeholder runs, in draw order.
func prefixed(prefix string, names []string) []string {
	var out []string
	for _, n := range names {
		if n != "" {
			out = append(out, prefix+n)
		}
	}
	return out
}

// autoLabels derives legend text from run names, falling back to the name
// itself when it does not follow the naming convention.
func autoLabels(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		run, err := runname.Parse(n)
		if err != nil {
			glog.V(1).Infof("no label for %q: %v", n, err)
			out[i] = n
			continue
		}
		out[i] = run.Label()
	}
	return out
}
