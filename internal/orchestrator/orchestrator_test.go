package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/plugin"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePlugin struct {
	name      string
	shouldRun func(*models.Chunk) bool
	analyze   func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error)
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) ShouldRun(c *models.Chunk) bool {
	if f.shouldRun == nil {
		return true
	}
	return f.shouldRun(c)
}

func (f *fakePlugin) Analyze(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
	return f.analyze(ctx, chunks, doc)
}

func testChunks() []*models.Chunk {
	return []*models.Chunk{
		{ID: "c0", Index: 0, Text: "first part"},
		{ID: "c1", Index: 1, Text: "second part"},
		{ID: "c2", Index: 2, Text: "third part"},
	}
}

func TestRunPluginIsolation(t *testing.T) {
	good := &fakePlugin{
		name: "good",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			return &plugin.Result{
				Summary:  "ok",
				Findings: []*models.Finding{{ID: "f1", Type: "x", Severity: models.SeverityLow, TargetText: "first"}},
				Cost:     0.5,
			}, nil
		},
	}
	bad := &fakePlugin{
		name: "bad",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			return nil, errors.New("backend unreachable")
		},
	}

	o := New(4, nil)
	res, err := o.Run(context.Background(), "doc", testChunks(), []plugin.Plugin{good, bad})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(res.Outcomes))
	}
	if res.Outcomes[0].Err != nil || len(res.Outcomes[0].Result.Findings) != 1 {
		t.Errorf("good plugin outcome corrupted: %+v", res.Outcomes[0])
	}
	errs := res.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 plugin error, got %d", len(errs))
	}
	if errs[0].Plugin != "bad" || !strings.Contains(errs[0].Message, "backend unreachable") {
		t.Errorf("unexpected error record: %+v", errs[0])
	}
	if res.TotalCost != 0.5 {
		t.Errorf("TotalCost = %v, want 0.5", res.TotalCost)
	}
}

func TestRunPanicRecovery(t *testing.T) {
	panicky := &fakePlugin{
		name: "panicky",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			panic("boom")
		},
	}
	calm := &fakePlugin{
		name: "calm",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			return &plugin.Result{Summary: "fine"}, nil
		},
	}

	o := New(0, nil)
	res, err := o.Run(context.Background(), "doc", testChunks(), []plugin.Plugin{panicky, calm})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcomes[0].Err == nil || !strings.Contains(res.Outcomes[0].Err.Error(), "panicked") {
		t.Errorf("panic not captured: %+v", res.Outcomes[0])
	}
	if res.Outcomes[1].Err != nil {
		t.Errorf("sibling plugin affected by panic: %v", res.Outcomes[1].Err)
	}
}

func TestRunChunkFiltering(t *testing.T) {
	var got []*models.Chunk
	p := &fakePlugin{
		name:      "picky",
		shouldRun: func(c *models.Chunk) bool { return c.Index != 1 },
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			got = chunks
			return &plugin.Result{}, nil
		},
	}

	o := New(1, nil)
	if _, err := o.Run(context.Background(), "doc", testChunks(), []plugin.Plugin{p}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 relevant chunks, got %d", len(got))
	}
	if got[0].Index != 0 || got[1].Index != 2 {
		t.Errorf("wrong chunks passed: %v, %v", got[0].Index, got[1].Index)
	}
}

func TestRunSkipsWhenNoRelevantChunks(t *testing.T) {
	invoked := false
	p := &fakePlugin{
		name:      "never",
		shouldRun: func(c *models.Chunk) bool { return false },
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			invoked = true
			return &plugin.Result{}, nil
		},
	}

	o := New(1, nil)
	res, err := o.Run(context.Background(), "doc", testChunks(), []plugin.Plugin{p})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if invoked {
		t.Error("Analyze called despite no relevant chunks")
	}
	if !res.Outcomes[0].Skipped {
		t.Error("outcome not marked skipped")
	}
	if res.Outcomes[0].Err != nil {
		t.Errorf("skipped plugin recorded an error: %v", res.Outcomes[0].Err)
	}
}

func TestRunConcurrencyCap(t *testing.T) {
	var current, peak int32
	mk := func(name string) plugin.Plugin {
		return &fakePlugin{
			name: name,
			analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return &plugin.Result{}, nil
			},
		}
	}

	o := New(2, nil)
	plugins := []plugin.Plugin{mk("a"), mk("b"), mk("c"), mk("d")}
	if _, err := o.Run(context.Background(), "doc", testChunks(), plugins); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("peak concurrency = %d, cap was 2", p)
	}
}

func TestRunCancellation(t *testing.T) {
	release := make(chan struct{})
	slow := &fakePlugin{
		name: "slow",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-release:
				return &plugin.Result{}, nil
			}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := New(1, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := o.Run(ctx, "doc", testChunks(), []plugin.Plugin{slow})
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	close(release)
}
