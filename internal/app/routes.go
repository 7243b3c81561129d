package app

import (
	"context"
	"net/http"
	"time"

	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/modules/agents/sessions"
	"github.com/aben/console/internal/modules/agents/tasks"
	"github.com/aben/console/internal/modules/auth/auth"
	"github.com/aben/console/internal/modules/auth/guard"
	"github.com/aben/console/internal/modules/auth/membership"
	"github.com/aben/console/internal/modules/auth/session"
	"github.com/aben/console/internal/modules/auth/tenant"
	"github.com/aben/console/internal/modules/clients"
	"github.com/aben/console/internal/modules/llmconfig"
	"github.com/aben/console/internal/modules/skills"
	"github.com/aben/console/internal/modules/team"
	"github.com/aben/console/internal/pkg/allowlist"
	"github.com/aben/console/internal/pkg/authcookie"
	"github.com/aben/console/internal/pkg/eventlog"
	"github.com/aben/console/internal/pkg/events"
	"github.com/aben/console/internal/pkg/objectstore"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const rateLimitScopeAuth = "auth"

func (a *App) registerRoutes() error {
	r := a.router
	cfg := a.cfg
	log := a.logger

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	sessCfg, err := session.FromAuthConfig(cfg.Auth)
	if err != nil {
		return err
	}
	store := allowlist.NewRedis(a.rc.Raw())
	issuer := session.NewIssuer(sessCfg, store)
	g := guard.New(sessCfg, store)
	tenantMW := middleware.TenantAuth(g)
	globalMW := middleware.GlobalAuth(g)

	activity := eventlog.New(a.rc.Raw(), cfg.Events.ActivityRetention(), cfg.Events.ActivityMaxPerUser)
	a.bus.Subscribe(events.LogSink(log))
	a.bus.Subscribe(activity)

	var archive skills.Archiver
	if cfg.SkillsArchive.Enabled() {
		s3, err := objectstore.NewS3(cfg.SkillsArchive)
		if err != nil {
			return err
		}
		archive = s3
	}

	cookies := authcookie.NewWriter(authcookie.Options{
		Secure: cfg.IsProduction(),
		Domain: cfg.Auth.CookieDomain,
	})
	limit := middleware.RateLimit(a.rc.Raw(), rateLimitScopeAuth, cfg.RateLimit.AuthMax, cfg.RateLimit.Window())

	members := membership.NewRepository(a.db)
	clientSvc := clients.NewService(clients.NewGormRepository(a.db), a.bus, log)

	api := r.Group("/api")
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/health", a.health)

	auth.NewHandler(
		auth.NewService(auth.NewGormStore(a.db), members, issuer, store, activity, a.bus, log),
		cookies, limit,
	).RegisterRoutes(api, globalMW, tenantMW)
	tenant.NewHandler(tenant.NewService(members, issuer, store, a.bus, log), cookies).RegisterRoutes(api, globalMW)

	team.NewHandler(team.NewService(a.db)).RegisterRoutes(api, tenantMW)
	clients.NewHandler(clientSvc).RegisterRoutes(api, tenantMW)
	skills.NewHandler(skills.NewService(skills.NewGormRepository(a.db), archive, a.bus, log)).RegisterRoutes(api, tenantMW)
	llmconfig.NewHandler(llmconfig.NewService(llmconfig.NewGormRepository(a.db), nil, a.bus, log)).RegisterRoutes(api, tenantMW)
	sessions.NewHandler(sessions.NewService(sessions.NewGormRepository(a.db), clientSvc, a.bus, log)).RegisterRoutes(api, tenantMW)
	tasks.NewHandler(tasks.NewService(tasks.NewGormRepository(a.db))).RegisterRoutes(api, tenantMW)

	log.Info("routes registered", zap.Bool("skills_archive", archive != nil))
	return nil
}

// GET /api/health
func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbOK := true
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbOK = false
	}
	redisOK := a.rc.Ping(ctx) == nil

	status := http.StatusOK
	if !dbOK || !redisOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ok":     dbOK && redisOK,
		"db":     dbOK,
		"redis":  redisOK,
		"uptime": humanizeDuration(time.Since(processStart)),
	})
}
