package benchmark

import (
	"context"
	"strings"
	"testing"

	"github.com/hyperjump/tensaku/internal/locator"
	"github.com/hyperjump/tensaku/internal/textindex"
)

func buildHaystack() string {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("This line pads the document with unremarkable filler prose.\n")
	}
	b.WriteString("The quarterly revenue figures exceeded every forecast on record.\n")
	for i := 0; i < 200; i++ {
		b.WriteString("More filler text keeps the interesting sentence well buried.\n")
	}
	return b.String()
}

func BenchmarkLocateExact(b *testing.B) {
	loc := locator.New(locator.DefaultConfig(), nil, nil)
	haystack := buildHaystack()
	target := "The quarterly revenue figures exceeded every forecast on record."
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = loc.Locate(ctx, target, haystack, locator.Options{})
	}
}

func BenchmarkLocateFuzzy(b *testing.B) {
	haystack := buildHaystack()
	// Paraphrased target forces the sliding-window strategy.
	target := "The quarterly revenue numbers exceeded all forecasts on record."
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Fresh locator each iteration so the result cache does not
		// short-circuit the cascade.
		loc := locator.New(locator.DefaultConfig(), nil, nil)
		_ = loc.Locate(ctx, target, haystack, locator.Options{})
	}
}

func BenchmarkLocateCached(b *testing.B) {
	loc := locator.New(locator.DefaultConfig(), nil, nil)
	haystack := buildHaystack()
	target := "The quarterly revenue numbers exceeded all forecasts on record."
	ctx := context.Background()
	// Prime the cache.
	_ = loc.Locate(ctx, target, haystack, locator.Options{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = loc.Locate(ctx, target, haystack, locator.Options{})
	}
}

func BenchmarkTextIndexNew(b *testing.B) {
	haystack := buildHaystack()
	for i := 0; i < b.N; i++ {
		_, _ = textindex.New(haystack)
	}
}

func BenchmarkFindInLineRange(b *testing.B) {
	haystack := buildHaystack()
	idx, err := textindex.New(haystack)
	if err != nil {
		b.Fatal(err)
	}
	target := "The quarterly revenue figures exceeded every forecast on record."
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.FindInLineRange(target, 198, 202)
	}
}
