package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRuns(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"60000-0.001/tap-4-p0.02-r0.01-ld.txt": "0,0,2.3\n10,5.5,0.91\n",
		"600-0.001/bsp-4.txt":                  "0,0,2.3\n",
		"600-0.001/broken.txt":                 "0,0,x\n",
		"notes.md":                             "ignored",
		"misc.txt":                             "0,0,1\n",
	} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	runs, err := findRuns(dir, ".txt")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "600-0.001/bsp-4", runs[0].name)
	assert.Equal(t, "60000-0.001/tap-4-p0.02-r0.01-ld", runs[1].name)
	assert.Equal(t, "misc", runs[2].name)
	assert.Nil(t, runs[2].run)
	assert.Equal(t, 2, runs[1].records)
	assert.Equal(t, 0.91, runs[1].final.Loss)

	var buf bytes.Buffer
	require.NoError(t, listRuns(&buf, dir, ".txt"))
	out := buf.String()
	for _, col := range []string{"RUN", "MODE", "WORKERS", "LABEL", "RECORDS", "ITER", "TIME", "LOSS"} {
		assert.Contains(t, out, col)
	}
	var tapRow string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "60000-0.001/tap-4-p0.02-r0.01-ld") {
			tapRow = line
		}
	}
	require.NotEmpty(t, tapRow)
	assert.Contains(t, tapRow, "PSGD-k:2%,r:1%+D")
	assert.Contains(t, tapRow, "tap")
	assert.Contains(t, tapRow, "5.50")
	assert.Contains(t, tapRow, "0.9100")
	assert.Contains(t, out, "misc")
	assert.NotContains(t, out, "broken")
}

func TestListRunsMissingDir(t *testing.T) {
	assert.Error(t, listRuns(&bytes.Buffer{}, filepath.Join(t.TempDir(), "nope"), ".txt"))
}
