package main

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/fsb-ml/scoreplot/runname"
	"github.com/fsb-ml/scoreplot/score"
)

type runInfo struct {
	name    string
	run     *runname.Run
	records int
	final   score.Record
}

// findRuns returns every result file under dir, named relative to dir
// without extension, sorted by name.
func findRuns(dir, ext string) ([]runInfo, error) {
	store := score.NewStore()
	var runs []runInfo
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ext) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		ri := runInfo{name: filepath.ToSlash(strings.TrimSuffix(rel, ext))}
		if run, err := runname.Parse(ri.name); err == nil {
			ri.run = &run
		}
		c, err := store.Load(p)
		if err != nil {
			glog.Warningf("skip %s: %v", p, err)
			return nil
		}
		ri.records = c.Len()
		ri.final = c.Final()
		runs = append(runs, ri)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk result dir")
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].name < runs[j].name })
	return runs, nil
}

func listRuns(w io.Writer, dir, ext string) error {
	runs, err := findRuns(dir, ext)
	if err != nil {
		return err
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Run", "Mode", "Workers", "Label", "Records", "Iter", "Time", "Loss"})
	for _, ri := range runs {
		row := table.Row{ri.name, "-", "-", "-"}
		if ri.run != nil {
			row = table.Row{ri.name, ri.run.Mode, ri.run.Workers, ri.run.Label()}
		}
		row = append(row, ri.records, ri.final.Iteration,
			fmt.Sprintf("%.2f", ri.final.Time), fmt.Sprintf("%.4f", ri.final.Loss))
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{"Total", "", "", "", len(runs)})
	tw.Render()
	return nil
}
