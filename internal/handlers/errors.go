package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/restlos-studio/dashboard-backend/internal/services"
)

// formatRetryAfter renders a wait as whole seconds, rounded up, for the
// Retry-After header.
func formatRetryAfter(d time.Duration) string {
	secs := int(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// respondError translates service errors into HTTP responses. Anything
// unmapped becomes an opaque 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
		return
	}

	var rateLimited *services.RateLimitedError
	if errors.As(err, &rateLimited) {
		c.Header("Retry-After", formatRetryAfter(rateLimited.RetryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimited.Error()})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotApproved),
		errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCampaignNotFound),
		errors.Is(err, services.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAuctionNumberTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOTPExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOTPMismatch),
		errors.Is(err, services.ErrSelfDelete):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailSendFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
