package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"screener/internal/auth"
	"screener/internal/models"
	"screener/internal/repository"
)

// SubscriptionsHandler mirrors billing-provider subscription events into the
// local read model the access resolver reads from.
type SubscriptionsHandler struct {
	Repo          repository.Repository
	Logger        *zap.Logger
	WebhookSecret string
}

func (h *SubscriptionsHandler) Register(r *gin.Engine) {
	r.POST("/api/subscriptions/webhook", h.webhook)
	r.GET("/api/subscriptions/me", h.me)
}

type subscriptionEvent struct {
	UserID           string     `json:"userId"`
	ProviderRef      string     `json:"providerRef"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
	TrialEnd         *time.Time `json:"trialEnd,omitempty"`
}

// @Summary Ingest a billing subscription event
// @Tags subscriptions
// @Accept json
// @Param request body subscriptionEvent true "event"
// @Success 200 {object} apiResponse
// @Router /api/subscriptions/webhook [post]
func (h *SubscriptionsHandler) webhook(c *gin.Context) {
	if h.WebhookSecret != "" && c.GetHeader("X-Webhook-Secret") != h.WebhookSecret {
		Error(c, http.StatusUnauthorized, "invalid webhook secret", nil)
		return
	}
	var ev subscriptionEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if ev.UserID == "" || ev.Status == "" {
		Error(c, http.StatusBadRequest, "userId and status required", nil)
		return
	}
	item := &models.Subscription{
		UserID:           ev.UserID,
		ProviderRef:      ev.ProviderRef,
		Status:           ev.Status,
		CurrentPeriodEnd: ev.CurrentPeriodEnd,
		TrialEnd:         ev.TrialEnd,
	}
	if err := h.Repo.UpsertSubscription(c.Request.Context(), item); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("subscription upsert failed", zap.String("user_id", ev.UserID), zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"applied": true}, nil)
}

// @Summary Current user's subscription record
// @Tags subscriptions
// @Success 200 {object} apiResponse
// @Router /api/subscriptions/me [get]
func (h *SubscriptionsHandler) me(c *gin.Context) {
	user := auth.UserFrom(c)
	if user == nil {
		Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	sub, err := h.Repo.LatestSubscriptionByUserID(c.Request.Context(), user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, sub, nil)
}
