package profile

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterProfileRoutes(router *gin.RouterGroup, db *gorm.DB, issuer *token.Issuer) {
	controller := NewProfileController(NewRepository(db))

	group := router.Group("/profiles")
	group.Use(middleware.AuthMiddleware(issuer, db))
	{
		group.GET("/me", controller.GetMyProfile)
	}
}
