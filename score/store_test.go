package score

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRun(t testing.TB, dir, name string, n int) string {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d,%g,%g\n", i*10, float64(i)*0.5, 3.0/float64(i+1))
	}
	p := Path(dir, "", name, DefaultExt)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(sb.String()), 0o644))
	return p
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("d", "60000-0.001", "tap-4.txt"), Path("d", "60000-0.001/", "tap-4", ".txt"))
	assert.Equal(t, filepath.Join("d", "600-0.001", "bsp-4.txt"), Path("d", "60000-0.001/", "../600-0.001/bsp-4", ".txt"))
	assert.Equal(t, filepath.Join("d", "tap-4-p0.01.txt"), Path("d", "tap-4-", "p0.01", ".txt"))
}

func TestStoreCaches(t *testing.T) {
	dir := t.TempDir()
	p := writeRun(t, dir, "bsp-4", 5)

	s := NewStore()
	c1, err := s.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 5, c1.Len())

	// rewriting the file does not show until Forget
	writeRun(t, dir, "bsp-4", 7)
	c2, err := s.Load(p)
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	s.Forget()
	c3, err := s.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 7, c3.Len())
}

func TestStoreLoadAll(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeRun(t, dir, "bsp-4", 3),
		"",
		writeRun(t, dir, "tap-4", 4),
		writeRun(t, dir, "aap-4", 5),
	}
	s := NewStore()
	s.Workers = 2
	cs, err := s.LoadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, cs, 4)
	assert.Nil(t, cs[1])
	assert.Equal(t, 3, cs[0].Len())
	assert.Equal(t, 4, cs[2].Len())
	assert.Equal(t, 5, cs[3].Len())
}

func TestStoreZeroValue(t *testing.T) {
	dir := t.TempDir()
	p := writeRun(t, dir, "bsp-4", 3)

	s := &Store{Workers: 2}
	cs, err := s.LoadAll(context.Background(), []string{p, p})
	require.NoError(t, err)
	assert.Same(t, cs[0], cs[1])

	var z Store
	z.Forget()
	c, err := z.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestStoreMissingFile(t *testing.T) {
	s := NewStore()
	_, err := s.LoadAll(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestStoreCanceled(t *testing.T) {
	dir := t.TempDir()
	p := writeRun(t, dir, "bsp-4", 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore().LoadAll(ctx, []string{p})
	assert.ErrorIs(t, err, context.Canceled)
}
