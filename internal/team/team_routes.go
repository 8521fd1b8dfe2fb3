package team

import (
	mw "github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/rmiddleware"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamRoutes sets up all team-related routes
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, issuer *token.Issuer, service *TeamService) {
	teamController := NewTeamController(service)

	// Public team routes
	router.GET("/teams", teamController.GetAllTeams)

	authRoutes := router.Group("/teams")
	authRoutes.Use(mw.AuthMiddleware(issuer, db))
	{
		authRoutes.POST("", rmiddleware.CoachOrAdminMiddleware(), teamController.CreateTeam)
		authRoutes.GET("/mine", rmiddleware.CoachMiddleware(), teamController.GetMyTeam)
		authRoutes.PUT("/:id", rmiddleware.CoachOrAdminMiddleware(), teamController.UpdateTeam) // ownership checked in service

		admin := authRoutes.Group("")
		admin.Use(rmiddleware.AdminMiddleware())
		{
			admin.GET("/pending", teamController.GetPendingTeams)
			admin.PUT("/:id/approve", teamController.ApproveTeam)
			admin.DELETE("/:id", teamController.DeleteTeam)
		}
	}

	router.GET("/teams/:id", teamController.GetTeamByID)
}
