package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"screener/internal/auth"
	"screener/internal/filter"
	"screener/internal/query"
	"screener/internal/service"
)

// StreamHandler drives one interactive screening session over a websocket.
// The client sends commands; the paginator pushes a snapshot after every
// state transition, so the client never polls.
type StreamHandler struct {
	Service  *service.SearchService
	Logger   *zap.Logger
	PageSize int
	Debounce time.Duration

	// RefreshInterval re-runs the current query periodically so a connected
	// client keeps seeing fresh quotes. Zero disables it.
	RefreshInterval time.Duration
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/screen/stream", h.stream)
}

type streamCommand struct {
	Action     string            `json:"action"`
	State      *filter.State     `json:"state,omitempty"`
	StrikeMode filter.StrikeMode `json:"strikeMode,omitempty"`
	Field      string            `json:"field,omitempty"`
}

// @Summary Interactive screen stream
// @Tags screen
// @Success 101 {string} string "switching protocols"
// @Router /api/screen/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	user := auth.UserFrom(c)
	snapshots := make(chan query.Snapshot, 16)
	p := query.NewPaginator(h.Service.Fetcher(user), h.PageSize, h.Debounce, h.Logger)
	p.OnChange = func(s query.Snapshot) {
		select {
		case snapshots <- s:
		default:
			// Slow consumer; the next transition carries the newest state.
		}
	}
	defer p.Stop()

	if h.RefreshInterval > 0 {
		go func() {
			ticker := time.NewTicker(h.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					// Nothing to refresh before the first filter set.
					if p.Snapshot().Phase != query.PhaseIdle {
						p.Refresh(ctx)
					}
				}
			}
		}()
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapshots:
				raw, err := json.Marshal(snap)
				if err != nil {
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, raw); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
		var cmd streamCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}
		h.apply(ctx, p, cmd)
	}
}

func (h *StreamHandler) apply(ctx context.Context, p *query.Paginator, cmd streamCommand) {
	switch cmd.Action {
	case "setFilters":
		if cmd.State == nil {
			return
		}
		p.SetFilters(ctx, *cmd.State, cmd.StrikeMode)
	case "sort":
		if cmd.Field == "" {
			return
		}
		p.ToggleSort(ctx, cmd.Field)
	case "nextPage":
		p.NextPage(ctx)
	case "prevPage":
		p.PrevPage(ctx)
	case "retry":
		p.Retry(ctx)
	case "refresh":
		p.Refresh(ctx)
	default:
		if h.Logger != nil {
			h.Logger.Debug("unknown stream action", zap.String("action", cmd.Action))
		}
	}
}
