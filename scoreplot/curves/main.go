// Command curves plots a few runs without writing a recipe.
//
//	curves -dir results -prefix 60000-0.001/ -x time bsp-4 tap-4 aap-4
//	curves -cmp -dir results bsp-4,bsp-12 tap-4,tap-12
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/fsb-ml/scoreplot/figure"
	"github.com/fsb-ml/scoreplot/score"
)

func main() {
	dir := flag.String("dir", ".", "result directory")
	prefix := flag.String("prefix", "", "prepended to every run name")
	ext := flag.String("ext", score.DefaultExt, "result file extension")
	xaxis := flag.String("x", "iteration", "iteration, time")
	metric := flag.String("y", "loss", "loss, accuracy")
	points := flag.Int("n", 0, "plot only the first n records of each run")
	cmp := flag.Bool("cmp", false, "each argument is a comma separated group to compare")
	out := flag.String("o", "curves", "output file name without extension")
	formats := flag.String("formats", "png", "comma separated image formats")
	title := flag.String("title", "", "figure title")
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "No runs given")
		os.Exit(2)
	}
	x, err := score.ParseXAxis(*xaxis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unsupported x axis: %v\n", err)
		os.Exit(1)
	}
	y, err := score.ParseMetric(*metric)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unsupported metric: %v\n", err)
		os.Exit(1)
	}

	var groups [][]string
	if *cmp {
		for _, arg := range flag.Args() {
			groups = append(groups, strings.Split(arg, ","))
		}
	} else {
		var names []string
		for _, arg := range flag.Args() {
			names = append(names, strings.Split(arg, ",")...)
		}
		groups = [][]string{names}
	}

	store := score.NewStore()
	curves := make([][]*score.Curve, len(groups))
	for g, names := range groups {
		paths := make([]string, len(names))
		for i, n := range names {
			if n != "" {
				paths[i] = score.Path(*dir, *prefix, n, *ext)
			}
		}
		if curves[g], err = store.LoadAll(context.Background(), paths); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load runs: %v\n", err)
			glog.Flush()
			os.Exit(1)
		}
	}

	f := figure.New(figure.Options{Title: *title})
	s := figure.Series{X: x, Y: y, Limit: *points}
	if *cmp {
		err = f.DrawListCmp(curves, groups, s)
	} else {
		err = f.DrawList(curves[0], groups[0], s)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to draw: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}

	files, err := f.Save(*out, strings.Split(*formats, ",")...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
	fmt.Println("successfully plotted", strings.Join(files, ", "))
}
