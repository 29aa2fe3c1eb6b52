package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"screener/internal/filter"
	"screener/internal/options"
)

type stubFetcher struct {
	fn func(req Request) (Result, error)
}

func (f *stubFetcher) FetchPage(_ context.Context, req Request) (Result, error) {
	return f.fn(req)
}

func newTestPaginator(fn func(Request) (Result, error), pageSize int) (*Paginator, chan Snapshot) {
	ch := make(chan Snapshot, 64)
	p := NewPaginator(&stubFetcher{fn: fn}, pageSize, 0, nil)
	p.OnChange = func(s Snapshot) { ch <- s }
	return p, ch
}

func waitPhase(t *testing.T, ch chan Snapshot, phase Phase) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s.Phase == phase {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for phase %s", phase)
		}
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	ctx := context.Background()
	var pages []int
	p, ch := newTestPaginator(func(req Request) (Result, error) {
		pages = append(pages, req.PageNo)
		return Result{Total: 100}, nil
	}, 10)

	p.SetFilters(ctx, filter.NewState(filter.Call), filter.StrikeModeAll)
	waitPhase(t, ch, PhaseReady)
	p.NextPage(ctx)
	waitPhase(t, ch, PhaseReady)
	p.SetFilters(ctx, filter.NewState(filter.Put), filter.StrikeModeAll)
	snap := waitPhase(t, ch, PhaseReady)

	if snap.PageNo != 1 {
		t.Fatalf("filter change must reset page, got %d", snap.PageNo)
	}
	if len(pages) != 3 || pages[1] != 2 || pages[2] != 1 {
		t.Fatalf("fetched pages = %v", pages)
	}
}

func TestNextPageGuardedByTotal(t *testing.T) {
	ctx := context.Background()
	var fetches int
	p, ch := newTestPaginator(func(req Request) (Result, error) {
		fetches++
		return Result{Total: 10}, nil
	}, 10)

	p.SetFilters(ctx, filter.NewState(filter.Call), filter.StrikeModeAll)
	waitPhase(t, ch, PhaseReady)
	p.NextPage(ctx)
	p.PrevPage(ctx)

	if fetches != 1 {
		t.Fatalf("out-of-range paging must not fetch, got %d fetches", fetches)
	}
	if snap := p.Snapshot(); snap.PageNo != 1 {
		t.Fatalf("page = %d, want 1", snap.PageNo)
	}
}

func TestToggleSortFlipsDirectionAndKeepsPage(t *testing.T) {
	ctx := context.Background()
	p, ch := newTestPaginator(func(req Request) (Result, error) {
		return Result{Total: 100}, nil
	}, 10)

	p.SetFilters(ctx, filter.NewState(filter.Call), filter.StrikeModeAll)
	waitPhase(t, ch, PhaseReady)
	p.NextPage(ctx)
	waitPhase(t, ch, PhaseReady)

	p.ToggleSort(ctx, "strike")
	snap := waitPhase(t, ch, PhaseReady)
	if snap.Sort == nil || snap.Sort.Field != "strike" || snap.Sort.Desc {
		t.Fatalf("first toggle must sort ascending, got %#v", snap.Sort)
	}
	if snap.PageNo != 2 {
		t.Fatalf("sort must keep the page, got %d", snap.PageNo)
	}

	p.ToggleSort(ctx, "strike")
	snap = waitPhase(t, ch, PhaseReady)
	if snap.Sort == nil || !snap.Sort.Desc {
		t.Fatalf("second toggle must flip to descending, got %#v", snap.Sort)
	}

	p.ToggleSort(ctx, "premium")
	snap = waitPhase(t, ch, PhaseReady)
	if snap.Sort == nil || snap.Sort.Field != "premium" || snap.Sort.Desc {
		t.Fatalf("new column must start ascending, got %#v", snap.Sort)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	p, ch := newTestPaginator(func(req Request) (Result, error) {
		if req.Sort == nil {
			<-block
			return Result{Total: 1}, nil
		}
		return Result{Rows: []options.Option{{Symbol: "AAPL"}}, Total: 42}, nil
	}, 10)

	p.SetFilters(ctx, filter.NewState(filter.Call), filter.StrikeModeAll)
	p.ToggleSort(ctx, "strike")
	snap := waitPhase(t, ch, PhaseReady)
	if snap.Total != 42 {
		t.Fatalf("total = %d, want 42", snap.Total)
	}

	close(block)
	time.Sleep(50 * time.Millisecond)
	if snap = p.Snapshot(); snap.Total != 42 || len(snap.Rows) != 1 {
		t.Fatalf("stale response must be discarded, got %+v", snap)
	}
}

func TestFailureThenRetry(t *testing.T) {
	ctx := context.Background()
	fail := true
	p, ch := newTestPaginator(func(req Request) (Result, error) {
		if fail {
			return Result{}, errors.New("upstream down")
		}
		return Result{Total: 7}, nil
	}, 10)

	p.SetFilters(ctx, filter.NewState(filter.Call), filter.StrikeModeAll)
	snap := waitPhase(t, ch, PhaseFailed)
	if snap.Error == "" {
		t.Fatalf("failed snapshot must carry the error")
	}

	fail = false
	p.Retry(ctx)
	snap = waitPhase(t, ch, PhaseReady)
	if snap.Total != 7 || snap.Error != "" {
		t.Fatalf("retry must clear the failure, got %+v", snap)
	}
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var runs int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		d.Trigger(func() {
			runs++
			close(done)
		})
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("debounced callback never ran")
	}
	if runs != 1 {
		t.Fatalf("burst of triggers ran %d times, want 1", runs)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	ran := make(chan struct{}, 1)
	d.Trigger(func() { ran <- struct{}{} })
	d.Stop()
	select {
	case <-ran:
		t.Fatalf("stopped debouncer must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}
