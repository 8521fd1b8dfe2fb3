package match

import (
	mw "github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/rmiddleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MatchRoutes sets up all match and result routes.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, issuer *token.Issuer, matches *MatchService, results *ResultService) {
	matchController := NewMatchController(matches, results)
	auth := mw.AuthMiddleware(issuer, db)

	matchRoutes := router.Group("/matches")
	{
		matchRoutes.GET("", matchController.GetMatches)
		matchRoutes.GET("/:id", matchController.GetMatchByID)
		matchRoutes.POST("", auth, rmiddleware.AdminMiddleware(), matchController.CreateMatch)
		matchRoutes.DELETE("/:id", auth, rmiddleware.AdminMiddleware(), matchController.DeleteMatch)
	}

	resultRoutes := router.Group("/results")
	{
		resultRoutes.GET("", matchController.GetResults)
		resultRoutes.GET("/:id", matchController.GetResultByID)

		// Referee ownership of the match is checked in the service.
		resultRoutes.POST("", auth, rmiddleware.RefereeOrAdminMiddleware(), matchController.SubmitResult)
		resultRoutes.PUT("/:id", auth, rmiddleware.RefereeOrAdminMiddleware(), matchController.EditResult)

		resultRoutes.PUT("/:id/approve", auth, rmiddleware.AdminMiddleware(), matchController.ApproveResult)
		resultRoutes.PUT("/:id/unapprove", auth, rmiddleware.AdminMiddleware(), matchController.UnapproveResult)
		resultRoutes.DELETE("/:id", auth, rmiddleware.AdminMiddleware(), matchController.DeleteResult)
	}
}
