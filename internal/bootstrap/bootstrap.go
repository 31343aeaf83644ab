package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/churchmanager/scheduler/internal/app/controllers"
	appMigrations "github.com/churchmanager/scheduler/internal/app/migrations"
	appRepos "github.com/churchmanager/scheduler/internal/app/repositories"
	appRoutes "github.com/churchmanager/scheduler/internal/app/routes"
	appServices "github.com/churchmanager/scheduler/internal/app/services"
	"github.com/churchmanager/scheduler/internal/config"
	"github.com/churchmanager/scheduler/internal/db"
	appMiddleware "github.com/churchmanager/scheduler/internal/middleware"
	pkgAuth "github.com/churchmanager/scheduler/internal/pkg/auth"
	"github.com/churchmanager/scheduler/internal/pkg/logger"
	"github.com/churchmanager/scheduler/internal/pkg/metrics"
	"github.com/churchmanager/scheduler/internal/pkg/waha"
	"github.com/churchmanager/scheduler/internal/seed"
)

// ConfigPathEnv overrides the default configs/config.yaml location
const ConfigPathEnv = "CONFIG_PATH"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos    *appRepos.Repositories
	Services *appServices.Services

	UserController       *appControllers.UserController
	MinistryController   *appControllers.MinistryController
	ScheduleController   *appControllers.ScheduleController
	OccurrenceController *appControllers.OccurrenceController
	AssignmentController *appControllers.AssignmentController
	WahaController       *appControllers.WahaController

	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	WahaClient     *waha.Client
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv(ConfigPathEnv, filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
		Output: os.Stdout,
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds defaults.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.NewPostgresDB(cfg, logger.Component("db"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.Database.MigrateOnStart {
		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(dbPool, logger.Component("migrations"))
		if err := migrator.MigrateFS(ctx, appMigrations.Files()); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			dbPool.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
	}

	if cfg.Seed.Enabled {
		ministries := appRepos.NewMinistryRepository(dbPool, appRepos.NewMembershipRepository(dbPool))
		if err := seed.CreateDefaultData(ctx, ministries, cfg.Seed.Ministries, logger.Component("seed")); err != nil {
			// seeding is best effort
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, conn db.DBTX, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(conn)
	deps.Metrics = metrics.New()

	deps.WahaClient = waha.NewClient(waha.Config{
		BaseURL: cfg.WAHA.BaseURL,
		APIKey:  cfg.WAHA.APIKey,
		Session: cfg.WAHA.Session,
		Timeout: config.Duration(cfg.WAHA.Timeout, waha.DefaultTimeout),
	}, nil, logger.Component("waha"))

	deps.Services = appServices.NewServices(deps.Repos, deps.WahaClient, deps.Metrics, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.Duration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.UserController = appControllers.NewUserController(deps.Services.UserService)
	deps.MinistryController = appControllers.NewMinistryController(deps.Services.MinistryService)
	deps.ScheduleController = appControllers.NewScheduleController(deps.Services.ScheduleService)
	deps.OccurrenceController = appControllers.NewOccurrenceController(deps.Services.ScheduleService)
	deps.AssignmentController = appControllers.NewAssignmentController(deps.Services.ScheduleService)
	deps.WahaController = appControllers.NewWahaController(deps.Services.WebhookService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")), deps.Metrics.GinMiddleware())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.UserController,
		deps.MinistryController,
		deps.ScheduleController,
		deps.OccurrenceController,
		deps.AssignmentController,
		deps.WahaController,
		deps.AuthMiddleware,
	)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Church Scheduler API"})
	})

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
