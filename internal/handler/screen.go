package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"screener/internal/auth"
	"screener/internal/filter"
	"screener/internal/service"
)

type ScreenHandler struct {
	Service         *service.SearchService
	Logger          *zap.Logger
	DefaultPageSize int
	MaxPageSize     int
}

func (h *ScreenHandler) Register(r *gin.Engine) {
	r.POST("/api/screen", h.screen)
}

type screenRequest struct {
	State      filter.State      `json:"state"`
	Sort       *filter.Sort      `json:"sort,omitempty"`
	StrikeMode filter.StrikeMode `json:"strikeMode,omitempty"`
	PageNo     int               `json:"pageNo"`
	PageSize   int               `json:"pageSize"`
}

// @Summary Run a screen
// @Tags screen
// @Accept json
// @Param request body screenRequest true "filter snapshot and page"
// @Success 200 {object} apiResponse
// @Router /api/screen [post]
func (h *ScreenHandler) screen(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req screenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.PageNo <= 0 {
		req.PageNo = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = h.DefaultPageSize
	}
	if h.MaxPageSize > 0 && req.PageSize > h.MaxPageSize {
		req.PageSize = h.MaxPageSize
	}

	result, err := h.Service.Search(c.Request.Context(), service.SearchRequest{
		State:      req.State,
		Sort:       req.Sort,
		StrikeMode: req.StrikeMode,
		PageNo:     req.PageNo,
		PageSize:   req.PageSize,
		User:       auth.UserFrom(c),
	})
	if err != nil {
		if errors.Is(err, filter.ErrInvalidQuery) {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("screen failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, map[string]any{
		"pageNo":   req.PageNo,
		"pageSize": req.PageSize,
		"total":    result.Total,
	})
}
