package news

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/rmiddleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterNewsRoutes(router *gin.RouterGroup, db *gorm.DB, issuer *token.Issuer, service *NewsService) {
	controller := NewNewsController(service)
	auth := middleware.AuthMiddleware(issuer, db)
	admin := rmiddleware.AdminMiddleware()

	group := router.Group("/news")
	{
		group.GET("", controller.GetApprovedNews)
		group.GET("/:id", controller.GetNewsByID)

		group.POST("", auth, controller.CreateNews)
		group.GET("/mine", auth, controller.GetMyNews)
		group.PUT("/:id", auth, controller.UpdateNews)

		group.GET("/pending", auth, admin, controller.GetPendingNews)
		group.PUT("/:id/approve", auth, admin, controller.ApproveNews)
		group.PUT("/:id/reject", auth, admin, controller.RejectNews)
		group.DELETE("/:id", auth, admin, controller.DeleteNews)
	}
}
