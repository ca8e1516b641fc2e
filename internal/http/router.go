package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/taskcheck/api/internal/auth"
	"github.com/taskcheck/api/internal/config"
	"github.com/taskcheck/api/internal/http/handlers"
	"github.com/taskcheck/api/internal/http/middlewares"
	"github.com/taskcheck/api/internal/observability"
	"github.com/taskcheck/api/internal/redisclient"
	"github.com/taskcheck/api/internal/repo/postgres"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, redisC *redisclient.Client, prom *observability.Prom, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware(config.ServiceName))
	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// connectivity probes for the status endpoint
	dbPing := func(ctx context.Context) error {
		if pool == nil {
			return nil
		}
		pctx, cancel := context.WithTimeout(ctx, 1*time.Second)
		defer cancel()
		return pool.Ping(pctx)
	}
	var redisPing handlers.PingFunc
	var rateLimiter *middlewares.RateLimiter
	if redisC != nil {
		redisPing = redisC.Ping
		rateLimiter = middlewares.NewRateLimiter(redisC.Raw(), cfg.RateLimit.Limit, cfg.RateLimit.Window, log)
	} else {
		rateLimiter = middlewares.NewRateLimiter(nil, cfg.RateLimit.Limit, cfg.RateLimit.Window, log)
	}

	jwtManager := auth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	usersRepo := postgres.NewUsersRepo(pool, prom)
	tasksRepo := postgres.NewTasksRepo(pool, prom)

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	tasksHandler := handlers.NewTasksHandler(tasksRepo)
	statusHandler := handlers.NewStatusHandler(cfg.Env, dbPing, redisPing)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/status", statusHandler.Status)

	authRoutes := r.Group("/api/auth")
	authRoutes.Use(rateLimiter.Middleware(middlewares.KeyByIP))
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	tasks := r.Group("/api/tasks")
	tasks.Use(authMW.RequireAuth())
	tasks.Use(rateLimiter.Middleware(middlewares.KeyByUserOrIP))
	tasks.GET("", tasksHandler.List)
	tasks.POST("", tasksHandler.Create)
	tasks.GET("/:id", tasksHandler.Show)
	tasks.PATCH("/:id", tasksHandler.Update)
	tasks.DELETE("/:id", tasksHandler.Delete)

	return r
}
