package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"screener/internal/auth"
	"screener/internal/filter"
	"screener/internal/models"
	"screener/internal/service"
)

type ScreenersHandler struct {
	Service *service.ScreenerService
	Logger  *zap.Logger
}

func (h *ScreenersHandler) Register(r *gin.Engine) {
	group := r.Group("/api/screeners")
	group.GET("", h.list)
	group.POST("", h.save)
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.remove)
}

type saveScreenerRequest struct {
	Name             string                `json:"name"`
	State            filter.State          `json:"state"`
	Sort             *filter.Sort          `json:"sort,omitempty"`
	StrikeMode       filter.StrikeMode     `json:"strikeMode,omitempty"`
	ConfirmOverwrite bool                  `json:"confirmOverwrite,omitempty"`
	EmailEnabled     bool                  `json:"emailEnabled,omitempty"`
	Email            string                `json:"email,omitempty"`
	Frequency        models.AlertFrequency `json:"frequency,omitempty"`
}

type updateScreenerRequest struct {
	Name         *string                `json:"name,omitempty"`
	EmailEnabled *bool                  `json:"emailEnabled,omitempty"`
	Email        *string                `json:"email,omitempty"`
	Frequency    *models.AlertFrequency `json:"frequency,omitempty"`
}

// @Summary List saved screeners
// @Tags screeners
// @Param option_type query string false "call|put"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/screeners [get]
func (h *ScreenersHandler) list(c *gin.Context) {
	user := auth.UserFrom(c)
	if user == nil {
		Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	items, total, err := h.Service.List(c.Request.Context(), user.ID, strQueryPtr(c, "option_type"), limit, offset)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list screeners failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Save a screener
// @Tags screeners
// @Accept json
// @Param request body saveScreenerRequest true "preset"
// @Success 200 {object} apiResponse
// @Router /api/screeners [post]
func (h *ScreenersHandler) save(c *gin.Context) {
	user := auth.UserFrom(c)
	if user == nil {
		Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	var req saveScreenerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	item, err := h.Service.Save(c.Request.Context(), service.SaveScreenerParams{
		UserID: user.ID,
		Name:   req.Name,
		Filters: service.SavedFilters{
			State:      req.State,
			Sort:       req.Sort,
			StrikeMode: req.StrikeMode,
		},
		ConfirmOverwrite: req.ConfirmOverwrite,
		EmailEnabled:     req.EmailEnabled,
		Email:            req.Email,
		Frequency:        req.Frequency,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOverwriteRequired):
			Error(c, http.StatusConflict, err.Error(), map[string]any{"confirm_overwrite": true})
		case errors.Is(err, service.ErrDefaultPreset):
			Error(c, http.StatusForbidden, err.Error(), nil)
		default:
			Error(c, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}
	Ok(c, item, nil)
}

// @Summary Get a screener
// @Tags screeners
// @Param id path int true "screener id"
// @Success 200 {object} apiResponse
// @Router /api/screeners/{id} [get]
func (h *ScreenersHandler) get(c *gin.Context) {
	user := auth.UserFrom(c)
	if user == nil {
		Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := h.Service.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrScreenerNotFound) {
			Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Update a screener
// @Tags screeners
// @Accept json
// @Param id path int true "screener id"
// @Param request body updateScreenerRequest true "patch"
// @Success 200 {object} apiResponse
// @Router /api/screeners/{id} [put]
func (h *ScreenersHandler) update(c *gin.Context) {
	user := auth.UserFrom(c)
	if user == nil {
		Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateScreenerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	item, err := h.Service.Update(c.Request.Context(), user.ID, id, service.UpdateScreenerParams{
		Name:         req.Name,
		EmailEnabled: req.EmailEnabled,
		Email:        req.Email,
		Frequency:    req.Frequency,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScreenerNotFound):
			Error(c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrDefaultPreset):
			Error(c, http.StatusForbidden, err.Error(), nil)
		case errors.Is(err, service.ErrOverwriteRequired):
			Error(c, http.StatusConflict, err.Error(), nil)
		default:
			Error(c, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}
	Ok(c, item, nil)
}

// @Summary Delete a screener
// @Tags screeners
// @Param id path int true "screener id"
// @Success 200 {object} apiResponse
// @Router /api/screeners/{id} [delete]
func (h *ScreenersHandler) remove(c *gin.Context) {
	user := auth.UserFrom(c)
	if user == nil {
		Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrScreenerNotFound):
			Error(c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrDefaultPreset):
			Error(c, http.StatusForbidden, err.Error(), nil)
		default:
			Error(c, http.StatusInternalServerError, err.Error(), nil)
		}
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
