package recipe

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Debounce is how long Watch waits for a burst of file events to settle.
var Debounce = 500 * time.Millisecond

// Watch loads the recipe at path and calls fn with it, then again each time
// the recipe or a result file under its result directory changes. Only files
// with the recipe's result extension count, so figures written next to the
// results do not trigger another render. It returns when ctx is done. Errors
// from fn and from reloading a broken recipe are logged, not returned, so that
// editing the recipe does not end the watch.
func Watch(ctx context.Context, path string, fn func(context.Context, *Recipe) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	rc, err := Load(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "watch recipe")
	}
	if _, err := addTree(w, rc.Dir, rc.ext()); err != nil {
		return err
	}
	run := func(rc *Recipe) {
		if err := fn(ctx, rc); err != nil {
			glog.Errorf("render %s: %v", path, err)
		}
	}
	run(rc)

	abspath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "recipe path")
	}
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			glog.Warningf("watch: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, ok := relevant(ev, abspath, rc.Dir)
			if !ok {
				continue
			}
			if name != abspath && ev.Has(fsnotify.Create) && isDir(name) {
				// new batch-lr directories appear while experiments run;
				// render only if results landed before the watch was added
				n, err := addTree(w, name, rc.ext())
				if err != nil {
					glog.Warningf("watch: %v", err)
				}
				if n == 0 {
					continue
				}
			} else if name != abspath && !strings.HasSuffix(name, rc.ext()) {
				continue
			}
			glog.V(1).Infof("watch: %s", ev)
			if timer == nil {
				timer = time.NewTimer(Debounce)
			} else {
				timer.Reset(Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			next, err := Load(path)
			if err != nil {
				glog.Errorf("reload %s: %v", path, err)
				continue
			}
			if next.Dir != rc.Dir {
				if _, err := addTree(w, next.Dir, next.ext()); err != nil {
					glog.Errorf("%v", err)
				}
			}
			rc = next
			run(rc)
		}
	}
}

// relevant reports whether ev is for the recipe itself or for something under
// dir, and returns the event's absolute path.
func relevant(ev fsnotify.Event, recipe, dir string) (string, bool) {
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	if name == recipe {
		return name, true
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, name)
	return name, err == nil && rel != ".." && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

func isDir(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}

// addTree watches root and every directory below it and returns how many
// files with extension ext it found there.
func addTree(w *fsnotify.Watcher, root, ext string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return errors.Wrap(err, "watch result dir")
			}
			return nil
		}
		if !d.IsDir() {
			if strings.HasSuffix(p, ext) {
				n++
			}
			return nil
		}
		if err := w.Add(p); err != nil {
			return errors.Wrapf(err, "watch %s", p)
		}
		return nil
	})
	return n, err
}
