package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"screener/internal/access"
)

const claimsKey = "auth_claims"

// Middleware reads an optional bearer token. A missing token leaves the
// request anonymous (the screener is usable logged out, with results
// restricted); a present but invalid token is rejected outright.
func Middleware(j JWT, disabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if disabled {
			c.Next()
			return
		}
		tok := bearerToken(c.GetHeader("Authorization"))
		if tok == "" {
			c.Next()
			return
		}
		claims, err := j.Verify(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// UserFrom returns the authenticated user, or nil for anonymous requests.
func UserFrom(c *gin.Context) *access.AuthUser {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(Claims)
	if !ok || claims.UserID == "" {
		return nil
	}
	return &access.AuthUser{
		ID:         claims.UserID,
		Email:      claims.Email,
		SignedUpAt: claims.SignedUpTime(),
	}
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
