package membership

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/rmiddleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterMembershipRoutes(router *gin.RouterGroup, db *gorm.DB, issuer *token.Issuer, service *MembershipService) {
	controller := NewMembershipController(service)

	players := router.Group("/players")
	players.Use(middleware.AuthMiddleware(issuer, db))
	{
		players.POST("/membership", rmiddleware.PlayerMiddleware(), controller.RequestMembership)
		players.GET("/pending", rmiddleware.CoachOrAdminMiddleware(), controller.ListPending)
		players.PUT("/:id/approve", rmiddleware.CoachMiddleware(), controller.Approve)
		players.PUT("/:id/reject", rmiddleware.CoachMiddleware(), controller.Reject)
	}
}
