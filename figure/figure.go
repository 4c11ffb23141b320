// Package figure draws loss curves and scalability charts with gonum/plot.
//
// A Figure owns its plot. Lines are recorded in draw order together with a
// default legend label; SetLegend may relabel them before Save.
package figure

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultFormats are written by Save when no format is given.
var DefaultFormats = []string{"png", "pdf"}

var knownFormats = map[string]bool{
	"png": true, "pdf": true, "svg": true, "eps": true,
	"jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

// SupportedFormat reports whether Save can write images of format ft.
func SupportedFormat(ft string) bool {
	return knownFormats[strings.ToLower(ft)]
}

// Options sets up a new figure. Width and Height are in inches.
type Options struct {
	Width, Height float64
	Title         string
	XLabel        string
	YLabel        string
}

type limit struct {
	set      bool
	min, max float64
}

type entry struct {
	label string
	thumb plot.Thumbnailer
}

type Figure struct {
	p    *plot.Plot
	opts Options

	entries []entry
	legend  []string

	xlim, ylim limit
	grid       bool
	rendered   bool
}

// New returns an empty figure, 6x4.5 inches unless set otherwise.
func New(opts Options) *Figure {
	if opts.Width <= 0 {
		opts.Width = 6
	}
	if opts.Height <= 0 {
		opts.Height = 4.5
	}
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Legend.Top = true
	return &Figure{p: p, opts: opts}
}

// Plot exposes the underlying plot for tweaks this package does not cover.
func (f *Figure) Plot() *plot.Plot { return f.p }

// Labels returns the legend labels that Save will use, in draw order.
func (f *Figure) Labels() []string {
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.label
		if i < len(f.legend) {
			out[i] = f.legend[i]
		}
	}
	return out
}

func (f *Figure) add(label string, thumb plot.Thumbnailer, ps ...plot.Plotter) {
	f.p.Add(ps...)
	if label != "" {
		f.entries = append(f.entries, entry{label: label, thumb: thumb})
	}
}

func (f *Figure) SetXLim(min, max float64) { f.xlim = limit{true, min, max} }
func (f *Figure) SetYLim(min, max float64) { f.ylim = limit{true, min, max} }

// SetXTicks places labelled ticks at exactly the given values.
func (f *Figure) SetXTicks(values []float64) {
	ticks := make([]plot.Tick, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: trimFloat(v)}
	}
	f.p.X.Tick.Marker = plot.ConstantTicks(ticks)
}

// AddGrid draws grid lines. Lines drawn after it appear on top of the grid.
func (f *Figure) AddGrid() {
	if !f.grid {
		f.p.Add(plotter.NewGrid())
		f.grid = true
	}
}

// SetLegend relabels lines in draw order. Extra labels are ignored and lines
// beyond the list keep their default label.
func (f *Figure) SetLegend(labels []string) { f.legend = labels }

// SetLegendPosition moves the legend box.
func (f *Figure) SetLegendPosition(top, left bool) {
	f.p.Legend.Top = top
	f.p.Legend.Left = left
}

// finish applies state that must come after all plotters are added.
func (f *Figure) finish() {
	if f.rendered {
		return
	}
	f.rendered = true
	for i, label := range f.Labels() {
		f.p.Legend.Add(label, f.entries[i].thumb)
	}
	if f.xlim.set {
		f.p.X.Min, f.p.X.Max = f.xlim.min, f.xlim.max
	}
	if f.ylim.set {
		f.p.Y.Min, f.p.Y.Max = f.ylim.min, f.ylim.max
	}
}

// Save writes base.<format> for each format and returns the paths written.
// Drawing on f after Save is not supported.
func (f *Figure) Save(base string, formats ...string) ([]string, error) {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	for _, ft := range formats {
		if !SupportedFormat(ft) {
			return nil, errors.Errorf("unsupported image format %q", ft)
		}
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create output directory")
		}
	}
	f.finish()

	w := vg.Length(f.opts.Width) * vg.Inch
	h := vg.Length(f.opts.Height) * vg.Inch
	var written []string
	for _, ft := range formats {
		name := base + "." + strings.ToLower(ft)
		if err := f.p.Save(w, h, name); err != nil {
			return written, errors.Wrapf(err, "save %s", name)
		}
		glog.Infof("wrote %s", name)
		written = append(written, name)
	}
	return written, nil
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
