package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/auth"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

const principalKey = "principal"

// Auth resolves the bearer token to an active user and attaches the
// principal to the request context. Every failure mode answers with the
// same generic 401; expiry vs forgery is only visible in the logs.
func Auth(tokens *auth.TokenManager, users *postgres.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		userID, err := tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				logger.Debug("rejected expired token")
			} else {
				logger.Warn("rejected invalid token")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		c.Set(principalKey, auth.Principal{
			UserID:      user.ID,
			TenantID:    user.TenantID,
			IsActive:    user.IsActive,
			IsSuperuser: user.IsSuperuser,
		})
		c.Next()
	}
}

// GetPrincipal returns the principal attached by Auth.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}
