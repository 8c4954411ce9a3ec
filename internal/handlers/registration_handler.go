package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/services"
)

// RegistrationHandler handles the registration and OTP verification requests.
type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// Register handles POST /api/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "First name, last name, email and a password of at least 8 characters are required"})
		return
	}

	token, err := h.registrationService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailSendFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     err.Error(),
				"emailSent": false,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":              "Verification code sent, check your inbox",
		"requiresVerification": true,
		"verificationToken":    token,
		"emailSent":            true,
	})
}

// VerifyOTP handles POST /api/verify-otp
func (h *RegistrationHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token and code are required"})
		return
	}

	if err := h.registrationService.VerifyOTP(c.Request.Context(), req.VerificationToken, req.OTP); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified. Your account is awaiting approval.",
	})
}

// ResendOTP handles POST /api/resend-otp
func (h *RegistrationHandler) ResendOTP(c *gin.Context) {
	var req models.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token is required"})
		return
	}

	if err := h.registrationService.ResendOTP(c.Request.Context(), req.VerificationToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A new verification code has been sent",
	})
}

// CleanupPendingUsers handles POST /api/cleanup-pending-users
func (h *RegistrationHandler) CleanupPendingUsers(c *gin.Context) {
	result, err := h.registrationService.Cleanup(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	remaining, err := h.registrationService.PendingStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cleanup finished",
		"deleted":   result,
		"remaining": remaining,
	})
}

// PendingUserStats handles GET /api/cleanup-pending-users
func (h *RegistrationHandler) PendingUserStats(c *gin.Context) {
	stats, err := h.registrationService.PendingStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
