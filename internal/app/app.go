package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aben/console/internal/config"
	"github.com/aben/console/internal/database"
	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/events"
	pkgredis "github.com/aben/console/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const busDrainTimeout = 5 * time.Second

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	db      *gorm.DB
	rc      *pkgredis.Client
	bus     *events.Bus
	busDone chan struct{}
	logger  *zap.Logger
	cancel  context.CancelFunc
}

// New initializes the application: config → DB → Redis → event bus → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	bus := events.NewBus(cfg.Events.Buffer, logger)
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		cfg:     cfg,
		router:  router,
		db:      db,
		rc:      rc,
		bus:     bus,
		busDone: make(chan struct{}),
		logger:  logger,
		cancel:  cancel,
	}
	if err := app.registerRoutes(); err != nil {
		cancel()
		_ = rc.Close()
		return nil, err
	}

	go func() {
		defer close(app.busDone)
		bus.Run(ctx)
	}()
	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown closes the event bus, waits for queued events to drain, then
// releases Redis and the database pool.
func (a *App) Shutdown() {
	a.bus.Close()
	select {
	case <-a.busDone:
	case <-time.After(busDrainTimeout):
		a.logger.Warn("event bus drain timed out")
	}
	a.cancel()

	if err := a.rc.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

var processStart = time.Now()
