package recipe

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/fsb-ml/scoreplot/figure"
	"github.com/fsb-ml/scoreplot/score"
)

// Validate checks the recipe and fills in figure kinds left implicit.
func (rc *Recipe) Validate() error {
	if rc.Dir == "" {
		return errors.New("recipe has no dir")
	}
	if err := checkPair("size", rc.Size, true); err != nil {
		return err
	}
	if err := checkFormats(rc.Formats); err != nil {
		return err
	}
	if err := rc.checkExt(); err != nil {
		return err
	}
	if _, err := score.ParseXAxis(rc.X); err != nil {
		return err
	}
	if _, err := score.ParseMetric(rc.Y); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for i := range rc.Figures {
		fig := &rc.Figures[i]
		if fig.Name == "" {
			return errors.Errorf("figure %d has no name", i)
		}
		if seen[fig.Name] {
			return errors.Errorf("duplicate figure name %q", fig.Name)
		}
		seen[fig.Name] = true
		if err := fig.validate(); err != nil {
			return errors.Wrapf(err, "figure %q", fig.Name)
		}
	}
	return nil
}

func (fig *Figure) validate() error {
	if fig.Kind == "" {
		fig.Kind = KindList
		if len(fig.Groups) > 0 {
			fig.Kind = KindCmp
		}
	}
	switch fig.Kind {
	case KindList:
		if len(fig.Runs) == 0 {
			return errors.New("list figure needs runs")
		}
	case KindCmp:
		if len(fig.Groups) == 0 {
			return errors.New("cmp figure needs groups")
		}
	case KindScale:
		if len(fig.Runs) == 0 {
			return errors.New("scale figure needs runs")
		}
		if len(fig.Workers) != len(fig.Runs) {
			return errors.Errorf("%d workers for %d runs", len(fig.Workers), len(fig.Runs))
		}
		if fig.Target <= 0 {
			return errors.New("scale figure needs a positive target loss")
		}
	default:
		return errors.Errorf("unknown kind %q", fig.Kind)
	}
	if fig.Points < 0 {
		return errors.New("points must not be negative")
	}
	if _, err := score.ParseXAxis(fig.X); err != nil {
		return err
	}
	if _, err := score.ParseMetric(fig.Y); err != nil {
		return err
	}
	if err := checkPair("xlim", fig.XLim, false); err != nil {
		return err
	}
	if err := checkPair("ylim", fig.YLim, false); err != nil {
		return err
	}
	return checkPair("size", fig.Size, true)
}

func checkPair(what string, v []float64, positive bool) error {
	if v == nil {
		return nil
	}
	if len(v) != 2 {
		return errors.Errorf("%s wants 2 numbers, got %d", what, len(v))
	}
	if positive && (v[0] <= 0 || v[1] <= 0) {
		return errors.Errorf("%s must be positive", what)
	}
	if !positive && v[0] >= v[1] {
		return errors.Errorf("%s: %g is not below %g", what, v[0], v[1])
	}
	return nil
}

func checkFormats(fs []string) error {
	for _, f := range fs {
		if !figure.SupportedFormat(f) {
			return errors.Errorf("unsupported image format %q", f)
		}
	}
	return nil
}

// checkExt rejects a result extension that is also an image format; Watch
// would take every figure it writes for a new result.
func (rc *Recipe) checkExt() error {
	formats := rc.Formats
	if len(formats) == 0 {
		formats = figure.DefaultFormats
	}
	ext := strings.TrimPrefix(rc.ext(), ".")
	for _, f := range formats {
		if strings.EqualFold(f, ext) {
			return errors.Errorf("result extension %q is also an image format", rc.ext())
		}
	}
	return nil
}

func (rc *Recipe) resolve(path string) {
	base := filepath.Dir(path)
	if !filepath.IsAbs(rc.Dir) {
		rc.Dir = filepath.Join(base, rc.Dir)
	}
	if rc.Output != "" && !filepath.IsAbs(rc.Output) {
		rc.Output = filepath.Join(base, rc.Output)
	}
}
