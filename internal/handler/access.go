package handler

import (
	"github.com/gin-gonic/gin"

	"screener/internal/access"
	"screener/internal/auth"
)

type AccessHandler struct {
	Resolver *access.Resolver
}

func (h *AccessHandler) Register(r *gin.Engine) {
	r.GET("/api/access/status", h.status)
}

// @Summary Resolve access status
// @Tags access
// @Success 200 {object} apiResponse
// @Router /api/access/status [get]
func (h *AccessHandler) status(c *gin.Context) {
	res := h.Resolver.ResolveUser(c.Request.Context(), auth.UserFrom(c))
	Ok(c, res, map[string]any{
		"feature_access": access.CanAccessFeature(res.Status),
	})
}
