package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/services"
	"github.com/restlos-studio/dashboard-backend/pkg/email"
)

// AdminUserHandler handles user administration requests. All routes are
// behind the admin gate.
type AdminUserHandler struct {
	userService *services.UserService
	mailer      email.Mailer
	logger      *zap.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler
func NewAdminUserHandler(userService *services.UserService, mailer email.Mailer, logger *zap.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		userService: userService,
		mailer:      mailer,
		logger:      logger.Named("admin"),
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser handles POST /api/admin/users
func (h *AdminUserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "First name, last name, email and a password of at least 8 characters are required"})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		// the admin UI treats a duplicate email as a form error
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PATCH /api/admin/users/:id
func (h *AdminUserHandler) UpdateUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *AdminUserHandler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	_, actorID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// SendWelcomeEmail handles POST /api/send-welcome-email
func (h *AdminUserHandler) SendWelcomeEmail(c *gin.Context) {
	var req models.WelcomeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and first name are required"})
		return
	}

	recipient := email.Recipient{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.mailer.SendWelcomeEmail(c.Request.Context(), recipient); err != nil {
		h.logger.Error("welcome email failed", zap.Error(err), zap.String("email", req.Email))
		respondError(c, services.ErrEmailSendFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Welcome email sent"})
}
