package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/edunova/academia/internal/app/controllers"
	appEvents "github.com/edunova/academia/internal/app/events"
	appMigrations "github.com/edunova/academia/internal/app/migrations"
	appRepos "github.com/edunova/academia/internal/app/repositories"
	appRoutes "github.com/edunova/academia/internal/app/routes"
	appServices "github.com/edunova/academia/internal/app/services"
	"github.com/edunova/academia/internal/config"
	"github.com/edunova/academia/internal/db"
	appMiddleware "github.com/edunova/academia/internal/middleware"
	pkgAuth "github.com/edunova/academia/internal/pkg/auth"
	"github.com/edunova/academia/internal/pkg/eventbus"
	"github.com/edunova/academia/internal/pkg/helpers"
	"github.com/edunova/academia/internal/pkg/logger"
	"github.com/edunova/academia/internal/pkg/realtime"
	"github.com/edunova/academia/internal/seed"
)

// Dependencies holds the wired application components.
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Bus            *eventbus.Bus
	Hub            *realtime.Hub
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs the embedded
// migrations and seeds the bootstrap admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).Run(context.Background()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultAdmin(context.Background(), dbPool, lgr); err != nil {
		// Startup proceeds; an operator can still create the admin by hand
		lgr.Error().Err(err).Msg("Failed to seed default admin account")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, event handlers
// and controllers on top of the database pool.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Bus = eventbus.NewBus(lgr)

	deps.Hub = realtime.NewHub(lgr)
	go deps.Hub.Run()

	deps.Services = appServices.NewServices(
		deps.Repos,
		deps.JWTService,
		deps.Bus,
		cfg.Academic.GradeScaleMax,
		cfg.Academic.PassThreshold,
	)

	appEvents.NewNotificationHandler(
		deps.Repos.NotificationRepository,
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Hub,
	).Register(deps.Bus)

	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.Services.Auth),
		Course:       appControllers.NewCourseController(deps.Services.Course),
		Period:       appControllers.NewPeriodController(deps.Services.Period),
		Enrollment:   appControllers.NewEnrollmentController(deps.Services.Enrollment),
		Grade:        appControllers.NewGradeController(deps.Services.Grade),
		Attendance:   appControllers.NewAttendanceController(deps.Services.Attendance),
		Schedule:     appControllers.NewScheduleController(deps.Services.Schedule),
		Notification: appControllers.NewNotificationController(deps.Services.Notification, deps.Hub),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	lgr.Info().Msg("Application dependencies initialized")
	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger())
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	lgr.Info().Str("mode", gin.Mode()).Msg("Router configured")
	return router
}
