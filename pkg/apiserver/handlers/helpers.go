package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MokokAf/amm-saas/pkg/apiserver/middleware"
	"github.com/MokokAf/amm-saas/pkg/auth"
)

const timeRFC3339Nano = time.RFC3339Nano

func parseLimit(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseOffset(value string) int {
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeRFC3339Nano)
}

// principal aborts with 401 when no principal is attached; behind the Auth
// middleware that never happens.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return auth.Principal{}, false
	}
	return p, true
}

// forbidden covers both a missing resource and one owned by another
// tenant; the two are deliberately indistinguishable.
func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// storeErrorStatus maps constraint violations surfaced by the store onto
// client errors; anything else is a server fault.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return http.StatusBadRequest
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
