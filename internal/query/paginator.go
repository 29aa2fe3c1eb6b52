package query

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"screener/internal/filter"
	"screener/internal/options"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Result is one applied page.
type Result struct {
	Rows  []options.Option
	Total int64
}

// Request is the unit of work handed to the Fetcher on every (re)issue.
type Request struct {
	State      filter.State
	Sort       *filter.Sort
	StrikeMode filter.StrikeMode
	PageNo     int
	PageSize   int
}

type Fetcher interface {
	FetchPage(ctx context.Context, req Request) (Result, error)
}

// Snapshot is an immutable view of the paginator for consumers.
type Snapshot struct {
	Phase    Phase            `json:"phase"`
	Rows     []options.Option `json:"rows"`
	Total    int64            `json:"total"`
	PageNo   int              `json:"pageNo"`
	PageSize int              `json:"pageSize"`
	Sort     *filter.Sort     `json:"sort,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Paginator owns the current page, sort and totals for one screening
// session, and re-issues compiled queries with the reset semantics the
// screen requires. Every issue carries a monotonically increasing sequence;
// a response is applied only if it still belongs to the newest issue, so
// results land in issuance order and a stale response is discarded on
// arrival.
type Paginator struct {
	fetcher  Fetcher
	logger   *zap.Logger
	debounce *Debouncer

	// OnChange, when set, is invoked with a fresh snapshot after every
	// applied transition. Set it before the first issue.
	OnChange func(Snapshot)

	mu       sync.Mutex
	state    filter.State
	sort     *filter.Sort
	mode     filter.StrikeMode
	pageNo   int
	pageSize int
	total    int64
	rows     []options.Option
	phase    Phase
	lastErr  error
	seq      uint64
}

func NewPaginator(fetcher Fetcher, pageSize int, quiet time.Duration, logger *zap.Logger) *Paginator {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Paginator{
		fetcher:  fetcher,
		logger:   logger,
		debounce: NewDebouncer(quiet),
		pageNo:   1,
		pageSize: pageSize,
		phase:    PhaseIdle,
	}
}

// SetFilters registers a filter-dimension change. Changes are debounced;
// once the quiet period elapses the query recompiles and the page resets
// to 1.
func (p *Paginator) SetFilters(ctx context.Context, state filter.State, mode filter.StrikeMode) {
	p.debounce.Trigger(func() {
		p.mu.Lock()
		p.state = state
		p.mode = mode
		p.pageNo = 1
		p.issueLocked(ctx)
		p.mu.Unlock()
	})
}

// ToggleSort re-issues with a new sort and keeps the current page. Toggling
// the same column flips direction; a new column starts ascending.
func (p *Paginator) ToggleSort(ctx context.Context, field string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sort != nil && p.sort.Field == field {
		p.sort = &filter.Sort{Field: field, Desc: !p.sort.Desc}
	} else {
		p.sort = &filter.Sort{Field: field}
	}
	p.issueLocked(ctx)
}

func (p *Paginator) NextPage(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int64(p.pageNo*p.pageSize) >= p.total {
		return
	}
	p.pageNo++
	p.issueLocked(ctx)
}

func (p *Paginator) PrevPage(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pageNo <= 1 {
		return
	}
	p.pageNo--
	p.issueLocked(ctx)
}

// Retry re-issues the same compiled query after a failure.
func (p *Paginator) Retry(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issueLocked(ctx)
}

// Refresh re-issues the current query without touching page or sort.
func (p *Paginator) Refresh(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issueLocked(ctx)
}

func (p *Paginator) Stop() {
	p.debounce.Stop()
}

func (p *Paginator) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Paginator) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:    p.phase,
		Rows:     p.rows,
		Total:    p.total,
		PageNo:   p.pageNo,
		PageSize: p.pageSize,
	}
	if p.sort != nil {
		s := *p.sort
		snap.Sort = &s
	}
	if p.lastErr != nil {
		snap.Error = p.lastErr.Error()
	}
	return snap
}

func (p *Paginator) issueLocked(ctx context.Context) {
	p.seq++
	seq := p.seq
	p.phase = PhaseLoading
	req := Request{
		State:      p.state,
		Sort:       p.sort,
		StrikeMode: p.mode,
		PageNo:     p.pageNo,
		PageSize:   p.pageSize,
	}
	notify := p.OnChange
	if notify != nil {
		notify(p.snapshotLocked())
	}

	go func() {
		res, err := p.fetcher.FetchPage(ctx, req)
		p.mu.Lock()
		if seq != p.seq {
			// A newer request was issued while this one was in flight.
			p.mu.Unlock()
			return
		}
		if err != nil {
			p.phase = PhaseFailed
			p.lastErr = err
			if p.logger != nil {
				p.logger.Warn("screen query failed", zap.Int("page", req.PageNo), zap.Error(err))
			}
		} else {
			p.phase = PhaseReady
			p.lastErr = nil
			p.rows = res.Rows
			p.total = res.Total
		}
		snap := p.snapshotLocked()
		p.mu.Unlock()
		if notify != nil {
			notify(snap)
		}
	}()
}
