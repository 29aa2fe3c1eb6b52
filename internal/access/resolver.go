package access

import (
	"context"
	"time"

	"go.uber.org/zap"

	"screener/internal/models"
	"screener/internal/repository"
)

// Status is the single derived value gating feature availability. It is
// recomputed from the auth and subscription snapshots on every read, never
// stored.
type Status string

const (
	StatusUnauthenticated   Status = "unauthenticated"
	StatusTrialing          Status = "trialing"
	StatusActive            Status = "active"
	StatusPaused            Status = "paused"
	StatusNeedsSubscription Status = "needs_subscription"
	StatusTrialEnded        Status = "trial_ended"
	StatusIncompleteExpired Status = "incomplete_expired"
)

// AuthUser is the identity snapshot read from the authentication provider.
type AuthUser struct {
	ID         string
	Email      string
	SignedUpAt *time.Time
}

// Resolution is a resolved status plus a degradation flag. Degraded is set
// when the subscription read itself failed; the status then fails closed to
// needs_subscription so the UI can distinguish "denied" from "error".
type Resolution struct {
	Status   Status `json:"status"`
	Degraded bool   `json:"degraded,omitempty"`
}

type Resolver struct {
	Repo repository.Repository
	Log  *zap.Logger

	// GraceDays extends past_due entitlement beyond currentPeriodEnd.
	GraceDays int
	// SignupTrialDays is the trial-by-signup-date heuristic used only when no
	// subscription record exists at all.
	SignupTrialDays int
	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (r *Resolver) now() time.Time {
	if r != nil && r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

func (r *Resolver) graceDays() int {
	if r == nil || r.GraceDays <= 0 {
		return 7
	}
	return r.GraceDays
}

// Resolve applies the decision table to the raw snapshots. Top-to-bottom,
// first match wins; an explicit active or trialing record always wins over
// the signup-date heuristic.
func (r *Resolver) Resolve(user *AuthUser, sub *models.Subscription) Status {
	if user == nil {
		return StatusUnauthenticated
	}
	now := r.now()
	if sub != nil {
		switch sub.Status {
		case models.SubStatusActive:
			return StatusActive
		case models.SubStatusTrialing:
			return StatusTrialing
		case models.SubStatusPastDue:
			if sub.CurrentPeriodEnd != nil {
				grace := sub.CurrentPeriodEnd.AddDate(0, 0, r.graceDays())
				if !now.After(grace) {
					return StatusActive
				}
			}
		case models.SubStatusPaused:
			return StatusPaused
		case models.SubStatusIncompleteExpired:
			return StatusIncompleteExpired
		}
		if sub.TrialEnd != nil && now.After(*sub.TrialEnd) {
			return StatusTrialEnded
		}
		return StatusNeedsSubscription
	}
	if user.SignedUpAt != nil && r.SignupTrialDays > 0 {
		if now.Before(user.SignedUpAt.AddDate(0, 0, r.SignupTrialDays)) {
			return StatusTrialing
		}
	}
	return StatusNeedsSubscription
}

// ResolveUser reads the newest subscription record for the user and resolves
// it. A failed read never defaults to active: the resolution fails closed
// with the Degraded flag set.
func (r *Resolver) ResolveUser(ctx context.Context, user *AuthUser) Resolution {
	if user == nil {
		return Resolution{Status: StatusUnauthenticated}
	}
	sub, err := r.Repo.LatestSubscriptionByUserID(ctx, user.ID)
	if err != nil {
		if r.Log != nil {
			r.Log.Warn("subscription read failed", zap.String("user_id", user.ID), zap.Error(err))
		}
		return Resolution{Status: StatusNeedsSubscription, Degraded: true}
	}
	return Resolution{Status: r.Resolve(user, sub)}
}
