package score

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Store loads result files and caches them by cleaned path. A recipe usually
// reuses the same runs in several figures. The zero value is ready to use.
type Store struct {
	// Workers bounds parallel loads in LoadAll; 0 means GOMAXPROCS.
	Workers int

	mu     sync.Mutex
	curves map[string]*Curve
}

func NewStore() *Store {
	return &Store{curves: make(map[string]*Curve)}
}

// Path joins dir, prefix, name and ext. The prefix is concatenated to the name
// rather than joined, so "tap-4-" + "p0.01" works as well as "60000-0.001/" + "tap-4".
func Path(dir, prefix, name, ext string) string {
	return filepath.Join(dir, filepath.FromSlash(prefix+name)) + ext
}

// Load reads one file, using the cache when possible.
func (s *Store) Load(path string) (*Curve, error) {
	path = filepath.Clean(path)

	s.mu.Lock()
	if c, ok := s.curves[path]; ok {
		s.mu.Unlock()
		return c, nil
	}
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open result file")
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	c.Name = path
	glog.V(1).Infof("loaded %s: %d records", path, c.Len())

	s.mu.Lock()
	if s.curves == nil {
		s.curves = make(map[string]*Curve)
	}
	if prev, ok := s.curves[path]; ok {
		c = prev
	} else {
		s.curves[path] = c
	}
	s.mu.Unlock()
	return c, nil
}

// LoadAll loads paths in parallel and returns curves in the same order. Empty
// paths are placeholders and yield nil.
func (s *Store) LoadAll(ctx context.Context, paths []string) ([]*Curve, error) {
	out := make([]*Curve, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, p := range paths {
		i, p := i, p // per-iteration copies (go directive is pre-1.22)
		if p == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := s.Load(p)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Forget drops every cached curve so the next load rereads the files.
func (s *Store) Forget() {
	s.mu.Lock()
	s.curves = nil
	s.mu.Unlock()
}
