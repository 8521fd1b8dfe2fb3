package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/MUNGAI-JOHN/lu-league/config"
	_ "github.com/MUNGAI-JOHN/lu-league/docs"
	"github.com/MUNGAI-JOHN/lu-league/internal/auth"
	"github.com/MUNGAI-JOHN/lu-league/internal/match"
	"github.com/MUNGAI-JOHN/lu-league/internal/membership"
	"github.com/MUNGAI-JOHN/lu-league/internal/news"
	"github.com/MUNGAI-JOHN/lu-league/internal/notify"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/scheduler"
	"github.com/MUNGAI-JOHN/lu-league/internal/standings"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/MUNGAI-JOHN/lu-league/pkg/token"
	"github.com/MUNGAI-JOHN/lu-league/routes"
)

const emailTimeout = 15 * time.Second

// @title LU League REST API
// @version 1.0
// @description Accounts, teams, membership, match results and standings for the LU league.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	cfg := config.GetConfig()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	err := config.DB.AutoMigrate(
		&user.User{},
		&profile.Coach{}, &profile.Referee{}, &profile.Player{},
		&team.Team{},
		&match.Match{}, &match.Result{},
		&standings.StandingRow{},
		&news.News{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}
	log.Info().Msg("AutoMigrate successful")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issuer := token.NewIssuer(token.Options{
		SessionSecret: cfg.JWT.SessionSecret,
		SessionTTL:    cfg.SessionTTL(),
		Phase2Secret:  cfg.JWT.Phase2Secret,
		Phase2TTL:     cfg.Phase2TTL(),
		Clock:         clockwork.NewRealClock(),
	})

	notifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure email delivery")
	}

	engine := standings.NewEngine(standings.NewRepository(config.DB))
	matchRepo := match.NewGormMatchRepository(config.DB)
	membershipService := membership.NewMembershipService(membership.NewRepository(config.DB))

	deps := routes.Deps{
		DB:         config.DB,
		Issuer:     issuer,
		Auth:       auth.NewAuthService(auth.NewAuthRepository(config.DB), issuer, notifier, cfg),
		Teams:      team.NewTeamService(team.NewTeamRepository(config.DB)),
		Membership: membershipService,
		Matches:    match.NewMatchService(matchRepo),
		Results:    match.NewResultService(matchRepo, engine),
		Standings:  engine,
		News:       news.NewNewsService(news.NewNewsRepository(config.DB)),
	}

	jobs, err := scheduler.New(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	if _, err := jobs.RegisterStandingsReconcile(cfg.Jobs.StandingsCron, engine.ReconcileJob()); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule standings reconcile")
	}
	jobs.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.SetupRoutes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		httpErr := srv.Shutdown(shutdownCtx)
		return errors.Join(httpErr, jobs.Stop())
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}

func buildNotifier(ctx context.Context, cfg *config.Config) (notify.Notifier, error) {
	if cfg.Mail.Driver != config.MailDriverSES {
		return notify.LogNotifier{}, nil
	}
	ses, err := notify.NewSESNotifier(ctx, cfg.Mail.AWSAccessKeyID, cfg.Mail.AWSSecretAccessKey, cfg.Mail.AWSRegion, cfg.Mail.Sender)
	if err != nil {
		return nil, err
	}
	return notify.Async(ses, emailTimeout), nil
}
