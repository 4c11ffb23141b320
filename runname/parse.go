package runname

import (
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Modes are the synchronisation strategies a run can use.
var Modes = []string{"bsp", "tap", "ssp", "sap", "fsp", "aap", "pap"}

// Priority describes the pso/pgo/psr/pgr family of runs.
type Priority struct {
	// Selection is 's' or 'g'; Order is 'o' or 'r'.
	Selection byte
	Order     byte
	Fraction  float64
	// Rate is the learning rate given after the priority token, 0 if absent.
	Rate float64
}

// Run is a decoded run name.
type Run struct {
	// Batch and LearningRate come from the "batch-lr/" directory and are 0
	// when the name has none.
	Batch        int
	LearningRate float64

	Mode    string
	Workers int

	TopK   float64
	Random float64
	Decay  float64

	Priority *Priority
	Flags    []string
}

var (
	dirRE   = regexp.MustCompile(`^(\d+)-([0-9.eE+-]+)$`)
	prioRE  = regexp.MustCompile(`^p([sg])([or])([0-9.]+(?:[eE][+-]?[0-9]+)?)$`)
	paramRE = regexp.MustCompile(`^([prd])([0-9.]+(?:[eE][+-]?[0-9]+)?)$`)
	// a value printed as 1e-05 is cut in two by the '-' separator
	mantRE = regexp.MustCompile(`[0-9.][eE]$`)
	expRE  = regexp.MustCompile(`^[0-9]+$`)
)

// Parse decodes name. A result-file extension is ignored.
func Parse(name string) (Run, error) {
	var r Run
	name = strings.TrimSuffix(path.Clean(strings.ReplaceAll(name, `\`, "/")), ".txt")
	dir, base := path.Split(name)
	if dir != "" {
		seg := path.Base(path.Clean(dir))
		if m := dirRE.FindStringSubmatch(seg); m != nil {
			r.Batch, _ = strconv.Atoi(m[1])
			r.LearningRate, _ = strconv.ParseFloat(m[2], 64)
		}
	}

	toks := split(base)
	if len(toks) < 2 {
		return r, errors.Errorf("run name %q: want <mode>-<workers>[-options]", name)
	}
	if !isMode(toks[0]) {
		return r, errors.Errorf("run name %q: unknown mode %q", name, toks[0])
	}
	r.Mode = toks[0]
	w, err := strconv.Atoi(toks[1])
	if err != nil || w <= 0 {
		return r, errors.Errorf("run name %q: bad worker count %q", name, toks[1])
	}
	r.Workers = w

	for i := 2; i < len(toks); i++ {
		tok := toks[i]
		if m := prioRE.FindStringSubmatch(tok); m != nil {
			p := &Priority{Selection: m[1][0], Order: m[2][0]}
			if p.Fraction, err = strconv.ParseFloat(m[3], 64); err != nil {
				return r, errors.Wrapf(err, "run name %q", name)
			}
			if i+1 < len(toks) {
				if v, err := strconv.ParseFloat(toks[i+1], 64); err == nil {
					p.Rate = v
					i++
				}
			}
			r.Priority = p
			continue
		}
		if m := paramRE.FindStringSubmatch(tok); m != nil {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return r, errors.Wrapf(err, "run name %q", name)
			}
			switch m[1] {
			case "p":
				r.TopK = v
			case "r":
				r.Random = v
			case "d":
				r.Decay = v
			}
			continue
		}
		r.Flags = append(r.Flags, tok)
	}
	return r, nil
}

// split cuts base at '-' and glues negative exponents back to their mantissa.
func split(base string) []string {
	var toks []string
	for _, t := range strings.Split(base, "-") {
		if n := len(toks); n > 0 && mantRE.MatchString(toks[n-1]) && expRE.MatchString(t) {
			toks[n-1] += "-" + t
			continue
		}
		toks = append(toks, t)
	}
	return toks
}

func isMode(s string) bool {
	for _, m := range Modes {
		if s == m {
			return true
		}
	}
	return false
}

// HasFlag reports whether the plain suffix token f (e.g. "ld", "vj") is set.
func (r Run) HasFlag(f string) bool {
	for _, x := range r.Flags {
		if x == f {
			return true
		}
	}
	return false
}

// Label is the legend text for the run.
func (r Run) Label() string {
	var sb strings.Builder
	switch {
	case r.Priority != nil:
		sb.WriteString("PSGD-")
		sb.WriteByte(r.Priority.Selection)
		sb.WriteByte(r.Priority.Order)
		sb.WriteString(":" + percent(r.Priority.Fraction))
		if r.Priority.Rate > 0 {
			sb.WriteString(",lr:" + FormatValue(r.Priority.Rate))
		}
	case r.TopK > 0:
		sb.WriteString("PSGD-k:" + percent(r.TopK))
		if r.Random > 0 {
			sb.WriteString(",r:" + percent(r.Random))
		}
		if r.Decay > 0 {
			sb.WriteString(",d:" + FormatValue(r.Decay))
		}
	default:
		sb.WriteString("SGD")
	}
	if r.HasFlag("ld") {
		sb.WriteString("+D")
	}
	if r.HasFlag("vj") {
		sb.WriteString("+A")
	}
	return sb.String()
}

func percent(v float64) string {
	return FormatValue(math.Round(v*100*1000)/1000) + "%"
}
