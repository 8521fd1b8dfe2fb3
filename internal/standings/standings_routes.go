package standings

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/rmiddleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterStandingsRoutes(router *gin.RouterGroup, db *gorm.DB, issuer *token.Issuer, engine *Engine) {
	controller := NewStandingsController(engine)

	group := router.Group("/standings")
	{
		group.GET("", controller.GetTable)
		group.GET("/:teamId", controller.GetTeamStanding)
		group.POST("/recalculate", middleware.AuthMiddleware(issuer, db), rmiddleware.AdminMiddleware(), controller.Recalculate)
	}
}
