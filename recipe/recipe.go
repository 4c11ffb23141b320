// Package recipe describes a batch of figures over one result directory in
// YAML and renders them.
//
// A recipe names its result directory explicitly, so one process can render
// recipes for several experiments without changing its working directory.
package recipe

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fsb-ml/scoreplot/runname"
	"github.com/fsb-ml/scoreplot/score"
)

// Figure kinds.
const (
	KindList  = "list"
	KindCmp   = "cmp"
	KindScale = "scale"
)

type Recipe struct {
	// Dir holds the result files. Relative paths are taken from the recipe
	// file's directory by Load.
	Dir string `yaml:"dir"`
	// Name prefixes every output file, "mnist-c12" gives "mnist-c12-<figure>".
	Name    string    `yaml:"name"`
	Output  string    `yaml:"output"`
	Ext     string    `yaml:"ext"`
	Size    []float64 `yaml:"size"`
	Formats []string  `yaml:"formats"`
	X       string    `yaml:"x"`
	Y       string    `yaml:"y"`

	Figures []Figure `yaml:"figures"`
}

type Figure struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Title  string `yaml:"title"`
	Prefix string `yaml:"prefix"`

	Runs   List   `yaml:"runs"`
	Groups []List `yaml:"groups"`

	// Points keeps only the first Points records of every run.
	Points int    `yaml:"points"`
	X      string `yaml:"x"`
	Y      string `yaml:"y"`

	XLim       []float64 `yaml:"xlim"`
	YLim       []float64 `yaml:"ylim"`
	XTicks     []float64 `yaml:"xticks"`
	Grid       bool      `yaml:"grid"`
	Legend     Legend    `yaml:"legend"`
	LegendLeft bool      `yaml:"legend_left"`
	LegendLow  bool      `yaml:"legend_bottom"`
	Size       []float64 `yaml:"size"`

	Workers []int   `yaml:"workers"`
	Target  float64 `yaml:"target"`
	Speedup bool    `yaml:"speedup"`
	Ref     bool    `yaml:"ref"`
	Fit     bool    `yaml:"fit"`
	Est     bool    `yaml:"est"`
}

// List is a list of run names. An empty name is a placeholder: it draws
// nothing but keeps its position, so the entries after it keep their color.
type List []string

// generator expands to prefix+value+suffix for each value. With Batch set,
// each value is a priority fraction turned into a batch size first.
type generator struct {
	Prefix string    `yaml:"prefix"`
	Values yaml.Node `yaml:"values"`
	Suffix string    `yaml:"suffix"`
	Batch  int       `yaml:"batch"`
}

func (g *generator) expand() ([]string, error) {
	if g.Values.Kind != yaml.SequenceNode {
		return nil, errors.Errorf("line %d: values must be a list", g.Values.Line)
	}
	vals := make([]string, 0, len(g.Values.Content))
	for _, n := range g.Values.Content {
		if n.Kind != yaml.ScalarNode {
			return nil, errors.Errorf("line %d: value must be a scalar", n.Line)
		}
		v := n.Value
		if g.Batch > 0 {
			frac, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: priority fraction", n.Line)
			}
			v = strconv.Itoa(runname.Prio2BS(g.Batch, frac))
		}
		vals = append(vals, v)
	}
	return runname.Expand(g.Prefix, vals, g.Suffix), nil
}

// UnmarshalYAML accepts a sequence of names, nulls and generator mappings,
// or a single generator mapping.
func (l *List) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.MappingNode:
		var g generator
		if err := n.Decode(&g); err != nil {
			return err
		}
		names, err := g.expand()
		if err != nil {
			return err
		}
		*l = names
		return nil
	case yaml.SequenceNode:
	default:
		return errors.Errorf("line %d: want a list of runs", n.Line)
	}
	var out List
	for _, c := range n.Content {
		switch {
		case c.Kind == yaml.ScalarNode && c.ShortTag() == "!!null":
			out = append(out, "")
		case c.Kind == yaml.ScalarNode:
			out = append(out, c.Value)
		case c.Kind == yaml.MappingNode:
			var g generator
			if err := c.Decode(&g); err != nil {
				return err
			}
			names, err := g.expand()
			if err != nil {
				return err
			}
			out = append(out, names...)
		default:
			return errors.Errorf("line %d: want a run name, null or generator", c.Line)
		}
	}
	*l = out
	return nil
}

// Legend is either an explicit label list or "auto", which derives labels
// from the run names.
type Legend struct {
	Auto   bool
	Labels []string
}

func (lg *Legend) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value != "auto" {
			return errors.Errorf("line %d: legend must be a list or \"auto\"", n.Line)
		}
		lg.Auto = true
	case yaml.SequenceNode:
		for _, c := range n.Content {
			lg.Labels = append(lg.Labels, c.Value)
		}
	default:
		return errors.Errorf("line %d: legend must be a list or \"auto\"", n.Line)
	}
	return nil
}

// Parse decodes and validates a recipe.
func Parse(data []byte) (*Recipe, error) {
	var rc Recipe
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, errors.Wrap(err, "decode recipe")
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Load reads the recipe at path. A relative Dir or Output is resolved
// against the recipe's own directory.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read recipe")
	}
	rc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	rc.resolve(path)
	return rc, nil
}

func (rc *Recipe) ext() string {
	if rc.Ext == "" {
		return score.DefaultExt
	}
	return rc.Ext
}
