package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/restlos-studio/dashboard-backend/internal/config"
	"github.com/restlos-studio/dashboard-backend/internal/handlers"
	"github.com/restlos-studio/dashboard-backend/internal/middleware"
	"github.com/restlos-studio/dashboard-backend/internal/models"
)

// HandlerDependencies bundles the handlers the router wires up.
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	RegistrationHandler *handlers.RegistrationHandler
	UserHandler         *handlers.UserHandler
	AdminUserHandler    *handlers.AdminUserHandler
	CampaignHandler     *handlers.CampaignHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, logger *zap.Logger, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)
		public.POST("/register", deps.RegistrationHandler.Register)
		public.POST("/verify-otp", deps.RegistrationHandler.VerifyOTP)
		public.POST("/resend-otp", deps.RegistrationHandler.ResendOTP)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.GET("/user", deps.UserHandler.GetProfile)
		protected.PUT("/user", deps.UserHandler.UpdateProfile)

		// Campaign routes
		campaigns := protected.Group("/campaigns")
		campaigns.Use(middleware.RequirePermission(models.PermissionMarketing))
		{
			campaigns.GET("", deps.CampaignHandler.ListCampaigns)
			campaigns.GET("/stats", deps.CampaignHandler.GetCampaignStats)
			campaigns.GET("/:id", deps.CampaignHandler.GetCampaign)
			campaigns.POST("", deps.CampaignHandler.CreateCampaign)
			campaigns.PUT("/:id", deps.CampaignHandler.UpdateCampaign)
			campaigns.DELETE("/:id", deps.CampaignHandler.DeleteCampaign)
		}

		// Admin routes
		adminOnly := middleware.RequireAdmin()

		admin := protected.Group("/admin", adminOnly)
		{
			admin.GET("/users", deps.AdminUserHandler.ListUsers)
			admin.POST("/users", deps.AdminUserHandler.CreateUser)
			admin.PATCH("/users/:id", deps.AdminUserHandler.UpdateUser)
			admin.DELETE("/users/:id", deps.AdminUserHandler.DeleteUser)
		}

		protected.POST("/send-welcome-email", adminOnly, deps.AdminUserHandler.SendWelcomeEmail)
		protected.POST("/cleanup-pending-users", adminOnly, deps.RegistrationHandler.CleanupPendingUsers)
		protected.GET("/cleanup-pending-users", adminOnly, deps.RegistrationHandler.PendingUserStats)
	}

	return router
}
