package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/MUNGAI-JOHN/lu-league/internal/auth"
	"github.com/MUNGAI-JOHN/lu-league/internal/match"
	"github.com/MUNGAI-JOHN/lu-league/internal/membership"
	"github.com/MUNGAI-JOHN/lu-league/internal/middleware"
	"github.com/MUNGAI-JOHN/lu-league/internal/news"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/standings"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"github.com/MUNGAI-JOHN/lu-league/pkg/responses"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
)

// Deps carries everything the HTTP layer needs. Services are built once in main.
type Deps struct {
	DB         *gorm.DB
	Issuer     *token.Issuer
	Auth       *auth.AuthService
	Teams      *team.TeamService
	Membership *membership.MembershipService
	Matches    *match.MatchService
	Results    *match.ResultService
	Standings  *standings.Engine
	News       *news.NewsService
}

func SetupRoutes(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.CustomRecovery(recoverPanic))
	r.Use(cors.New(corsConfig())) // any origin, bearer auth only
	r.NoRoute(func(c *gin.Context) {
		responses.NotFound(c, "route")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, deps.DB, deps.Issuer, deps.Auth, deps.Membership)
	profile.RegisterProfileRoutes(api, deps.DB, deps.Issuer)
	team.TeamRoutes(api, deps.DB, deps.Issuer, deps.Teams)
	membership.RegisterMembershipRoutes(api, deps.DB, deps.Issuer, deps.Membership)
	match.MatchRoutes(api, deps.DB, deps.Issuer, deps.Matches, deps.Results)
	standings.RegisterStandingsRoutes(api, deps.DB, deps.Issuer, deps.Standings)
	news.RegisterNewsRoutes(api, deps.DB, deps.Issuer, deps.News)

	return r
}

func recoverPanic(c *gin.Context, recovered any) {
	log.Ctx(c.Request.Context()).Error().
		Interface("panic", recovered).
		Str("path", c.Request.URL.Path).
		Msg("Handler panicked")
	responses.InternalServerError(c, "")
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AddAllowHeaders("Authorization")
	return cfg
}
