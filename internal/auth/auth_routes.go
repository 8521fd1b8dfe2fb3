package auth

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/rmiddleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, issuer *token.Issuer, service *AuthService, joiner TeamJoiner) {
	authController := NewAuthController(service, joiner)

	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register-phase1", authController.RegisterPhase1)
		authPublic.POST("/login", authController.Login)
		authPublic.POST("/verify-token", authController.VerifyToken)
		// Authenticated by the phase 2 token, not a session.
		authPublic.POST("/register-phase2/:role", authController.RegisterPhase2)
	}

	admin := router.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware(issuer, db), rmiddleware.AdminMiddleware())
	{
		admin.GET("", authController.ListUsers)
		admin.GET("/pending", authController.ListPendingUsers)
		admin.POST("", authController.CreateUser)
		admin.GET("/:id", authController.GetUser)
		admin.PUT("/:id/approve", authController.ApproveUser)
		admin.PUT("/:id/reject", authController.RejectUser)
		admin.DELETE("/:id", authController.DeleteUser)
	}
}
