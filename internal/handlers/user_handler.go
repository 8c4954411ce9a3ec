package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restlos-studio/dashboard-backend/internal/auth"
	"github.com/restlos-studio/dashboard-backend/internal/middleware"
	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/services"
)

// UserHandler handles the self-service profile requests.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile handles GET /api/user
func (h *UserHandler) GetProfile(c *gin.Context) {
	_, id, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/user
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims, id, ok := callerID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), id, &req, auth.IsAdmin(claims))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// callerID resolves the authenticated user's ObjectID from the JWT claims.
func callerID(c *gin.Context) (*auth.Claims, primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
		return nil, primitive.NilObjectID, false
	}
	return claims, id, true
}
