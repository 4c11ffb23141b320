package score

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkLoadAll8Runs1000Records measures a cold load of a typical
// scale figure: 8 worker counts, 1000 checkpoints each.
func BenchmarkLoadAll8Runs1000Records(b *testing.B) {
	benchmarkLoadAll(8, 1000, b)
}

// BenchmarkLoadAll24Runs10000Records measures a cold load of a large
// comparison figure.
func BenchmarkLoadAll24Runs10000Records(b *testing.B) {
	benchmarkLoadAll(24, 10000, b)
}

func benchmarkLoadAll(runs, records int, b *testing.B) {
	dir := b.TempDir()
	paths := make([]string, runs)
	for i := range paths {
		paths[i] = writeRun(b, dir, fmt.Sprintf("tap-%d", i+1), records)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewStore().LoadAll(context.Background(), paths); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
