package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"screener/internal/access"
	"screener/internal/client/optionsdata"
	"screener/internal/filter"
	"screener/internal/options"
	"screener/internal/query"
	"screener/internal/registry"
)

// SearchService turns one filter snapshot into one normalized result page.
// Entitlement is enforced here, before compilation: restricted dimensions are
// reset to their defaults so they never reach the wire, and the returned page
// is truncated to the preview window.
type SearchService struct {
	client      *optionsdata.Client
	resolver    *access.Resolver
	logger      *zap.Logger
	previewRows int
	now         func() time.Time
}

func NewSearchService(client *optionsdata.Client, resolver *access.Resolver, previewRows int, logger *zap.Logger) *SearchService {
	if previewRows <= 0 {
		previewRows = 5
	}
	return &SearchService{
		client:      client,
		resolver:    resolver,
		logger:      logger,
		previewRows: previewRows,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type SearchRequest struct {
	State      filter.State
	Sort       *filter.Sort
	StrikeMode filter.StrikeMode
	PageNo     int
	PageSize   int
	User       *access.AuthUser
}

type SearchResult struct {
	Rows       []options.Option  `json:"rows"`
	Total      int64             `json:"total"`
	Restricted bool              `json:"restricted,omitempty"`
	Access     access.Resolution `json:"access"`
}

func (s *SearchService) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	res := s.resolver.ResolveUser(ctx, req.User)
	entitled := access.CanAccessFeature(res.Status)

	state := req.State
	sort := req.Sort
	if !entitled {
		state = stripGated(state)
		if sort != nil && access.DimensionGated(sort.Field) {
			sort = nil
		}
	}

	ops, err := filter.CompileAt(s.now(), state, sort, req.StrikeMode)
	if err != nil {
		return SearchResult{Access: res}, err
	}

	wire := optionsdata.QueryRequest{
		Filters:  ops,
		PageNo:   req.PageNo,
		PageSize: req.PageSize,
	}
	if req.User != nil {
		wire.UserID = req.User.ID
	}
	page, err := s.client.Query(ctx, wire)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("screen query failed", zap.Int("page", req.PageNo), zap.Error(err))
		}
		return SearchResult{Access: res}, err
	}

	rows := excludeSymbols(options.NormalizeAll(page.Rows), state.ExcludedSymbols)
	out := SearchResult{Rows: rows, Total: page.Count, Access: res}
	if !entitled {
		out.Restricted = true
		out.Rows = rows[:access.VisibleRows(res.Status, len(rows), s.previewRows)]
	}
	return out, nil
}

// stripGated resets every entitlement-gated dimension to its registry default
// so a restricted snapshot compiles as if the dimension were untouched.
func stripGated(s filter.State) filter.State {
	out := s
	out.Ranges = make(map[string]filter.Range, len(s.Ranges))
	for k, v := range s.Ranges {
		out.Ranges[k] = v
	}
	for _, d := range registry.All() {
		if access.DimensionGated(d.Key) {
			out.Ranges[d.Key] = filter.Range{Min: d.DefaultMin, Max: d.DefaultMax}
		}
	}
	return out
}

// excludeSymbols drops locally excluded tickers. The wire protocol has no
// exclusion operation, so this always runs after fetch.
func excludeSymbols(rows []options.Option, excluded []string) []options.Option {
	if len(excluded) == 0 {
		return rows
	}
	drop := make(map[string]bool, len(excluded))
	for _, sym := range excluded {
		drop[sym] = true
	}
	out := make([]options.Option, 0, len(rows))
	for _, r := range rows {
		if !drop[r.Symbol] {
			out = append(out, r)
		}
	}
	return out
}

// pageFetcher adapts the search service to the paginator's fetch surface for
// one user session.
type pageFetcher struct {
	svc  *SearchService
	user *access.AuthUser
}

func (s *SearchService) Fetcher(user *access.AuthUser) query.Fetcher {
	return &pageFetcher{svc: s, user: user}
}

func (f *pageFetcher) FetchPage(ctx context.Context, req query.Request) (query.Result, error) {
	res, err := f.svc.Search(ctx, SearchRequest{
		State:      req.State,
		Sort:       req.Sort,
		StrikeMode: req.StrikeMode,
		PageNo:     req.PageNo,
		PageSize:   req.PageSize,
		User:       f.user,
	})
	if err != nil {
		return query.Result{}, err
	}
	return query.Result{Rows: res.Rows, Total: res.Total}, nil
}
