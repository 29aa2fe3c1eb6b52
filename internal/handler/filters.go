package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"screener/internal/access"
	"screener/internal/auth"
	"screener/internal/cache"
	"screener/internal/filter"
	"screener/internal/registry"
)

// FiltersHandler exposes the dimension catalog and the remembered per-user
// filter state.
type FiltersHandler struct {
	Store    cache.Store
	Resolver *access.Resolver
	Logger   *zap.Logger
}

func (h *FiltersHandler) Register(r *gin.Engine) {
	group := r.Group("/api/filters")
	group.GET("/dimensions", h.dimensions)
	group.GET("/state/:type", h.getState)
	group.PUT("/state/:type", h.putState)
}

type dimensionView struct {
	registry.Dimension
	Gated   bool `json:"gated"`
	Enabled bool `json:"enabled"`
}

// @Summary List filter dimensions
// @Tags filters
// @Success 200 {object} apiResponse
// @Router /api/filters/dimensions [get]
func (h *FiltersHandler) dimensions(c *gin.Context) {
	res := h.Resolver.ResolveUser(c.Request.Context(), auth.UserFrom(c))
	dims := registry.All()
	out := make([]dimensionView, 0, len(dims))
	for _, d := range dims {
		out = append(out, dimensionView{
			Dimension: d,
			Gated:     access.DimensionGated(d.Key),
			Enabled:   access.DimensionEnabled(d.Key, res.Status),
		})
	}
	Ok(c, out, map[string]any{"access": res})
}

// @Summary Get remembered filter state
// @Tags filters
// @Param type path string true "call|put"
// @Success 200 {object} apiResponse
// @Router /api/filters/state/{type} [get]
func (h *FiltersHandler) getState(c *gin.Context) {
	t := filter.OptionType(c.Param("type"))
	if !t.Valid() {
		Error(c, http.StatusBadRequest, "invalid option type", nil)
		return
	}
	state, err := filter.Load(c.Request.Context(), h.userStore(c), t)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("filter state load failed", zap.String("type", string(t)), zap.Error(err))
		}
		// A corrupt or unreadable store falls back to defaults.
		state = filter.NewState(t)
	}
	Ok(c, state, nil)
}

// @Summary Replace remembered filter state
// @Tags filters
// @Accept json
// @Param type path string true "call|put"
// @Param request body filter.State true "filter state"
// @Success 200 {object} apiResponse
// @Router /api/filters/state/{type} [put]
func (h *FiltersHandler) putState(c *gin.Context) {
	t := filter.OptionType(c.Param("type"))
	if !t.Valid() {
		Error(c, http.StatusBadRequest, "invalid option type", nil)
		return
	}
	var state filter.State
	if err := c.ShouldBindJSON(&state); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	state.Type = t
	// Re-apply through SetRange so out-of-bounds values clamp instead of
	// persisting.
	clean := filter.NewState(t)
	for key, r := range state.Ranges {
		clean.SetRange(key, r.Min, r.Max)
	}
	if state.Sector != "" {
		clean.Sector = state.Sector
	}
	if state.Crossover != "" {
		clean.Crossover = state.Crossover
	}
	clean.Symbols = state.Symbols
	clean.ExcludedSymbols = state.ExcludedSymbols

	if err := clean.Save(c.Request.Context(), h.userStore(c)); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("filter state save failed", zap.String("type", string(t)), zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, clean, nil)
}

// userStore namespaces the shared store per user. Anonymous sessions share
// the anonymous namespace; their state is best effort.
func (h *FiltersHandler) userStore(c *gin.Context) cache.Store {
	user := auth.UserFrom(c)
	if user == nil {
		return cache.WithPrefix(h.Store, "anon:")
	}
	return cache.WithPrefix(h.Store, "u:"+user.ID+":")
}
