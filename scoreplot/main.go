// Command scoreplot renders comparison figures from experiment result files.
//
//	scoreplot [flags] recipe.yaml...
//	scoreplot -list results/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/golang/glog"

	"github.com/fsb-ml/scoreplot/recipe"
)

var (
	only    = flag.String("only", "", "comma separated figure names to render (default all)")
	outDir  = flag.String("out", "", "output directory, overrides the recipe's")
	watch   = flag.Bool("watch", false, "re-render whenever the recipe or its results change")
	listDir = flag.String("list", "", "print a table of the runs found in this directory and exit")
	ext     = flag.String("ext", ".txt", "result file extension, used with -list")
	workers = flag.Int("workers", 0, "parallel file loads (default GOMAXPROCS)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] recipe.yaml...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *listDir != "" {
		if err := listRuns(os.Stdout, *listDir, *ext); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list runs: %v\n", err)
			glog.Flush()
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	r := recipe.NewRunner()
	r.OutDir = *outDir
	r.Store.Workers = *workers
	if *only != "" {
		r.Only = strings.Split(*only, ",")
	}

	if *watch {
		if flag.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "-watch takes exactly one recipe")
			os.Exit(2)
		}
		err := recipe.Watch(ctx, flag.Arg(0), func(ctx context.Context, rc *recipe.Recipe) error {
			r.Store.Forget()
			_, err := r.Run(ctx, rc)
			return err
		})
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Failed to watch %s: %v\n", flag.Arg(0), err)
			glog.Flush()
			os.Exit(1)
		}
		return
	}

	failed := false
	for _, path := range flag.Args() {
		rc, err := recipe.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load recipe: %v\n", err)
			failed = true
			continue
		}
		files, err := r.Run(ctx, rc)
		for _, f := range files {
			fmt.Println(f)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render %s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		glog.Flush()
		os.Exit(1)
	}
}
