// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jobmatch-service/internal/config"
	"jobmatch-service/internal/db"
	adminHandler "jobmatch-service/internal/handlers/admin"
	authHandler "jobmatch-service/internal/handlers/auth"
	applicationHandler "jobmatch-service/internal/handlers/application"
	jobHandler "jobmatch-service/internal/handlers/job"
	notifyHandler "jobmatch-service/internal/handlers/notification"
	planHandler "jobmatch-service/internal/handlers/plan"
	profileHandler "jobmatch-service/internal/handlers/profile"
	wsHandler "jobmatch-service/internal/handlers/ws"
	"jobmatch-service/internal/identity"
	"jobmatch-service/internal/middleware"
	"jobmatch-service/internal/pkg/session"
	"jobmatch-service/internal/pkg/token"
	"jobmatch-service/internal/repository/postgres"
	applicationService "jobmatch-service/internal/service/application"
	authService "jobmatch-service/internal/service/auth"
	jobService "jobmatch-service/internal/service/job"
	notifyService "jobmatch-service/internal/service/notification"
	planService "jobmatch-service/internal/service/plan"
	profileService "jobmatch-service/internal/service/profile"
	"jobmatch-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer  *http.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
	cancelHub   context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New()}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	var logger *zap.Logger
	var err error
	if s.cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	if err := db.RunMigrations(s.cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("database ready")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redisClient = redisClient
	logger.Info("redis ready")

	// ----- Session credential codec -----
	codec, err := token.NewCodec(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTAudience, s.cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to build session codec: %w", err)
	}

	// ----- Identity provider -----
	provider := identity.NewMicrosoftProvider(identity.MicrosoftConfig{
		TenantID:     s.cfg.MSTenantID,
		ClientID:     s.cfg.MSClientID,
		ClientSecret: s.cfg.MSClientSecret,
		RedirectURL:  s.cfg.MSRedirectURL,
	})

	// ----- Rate limiter -----
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)

	// ----- WebSocket hub -----
	hub := websocket.NewHub(logger)
	hubCtx, cancelHub := context.WithCancel(ctx)
	s.cancelHub = cancelHub
	go hub.Run(hubCtx)

	// ----- Services -----
	notifySvc := notifyService.NewNotificationService(notifyRepo, hub, logger)
	authSvc := authService.NewAuthService(userRepo, provider, codec, rateLimiter, notifySvc, logger)
	jobSvc := jobService.NewJobService(jobRepo, userRepo, logger)
	applicationSvc := applicationService.NewApplicationService(applicationRepo, jobRepo, logger)
	planSvc := planService.NewPlanService(planRepo, logger)
	profileSvc := profileService.NewProfileService(userRepo, logger)

	// ----- Middleware -----
	s.engine.Use(middleware.RecoveryMiddleware(logger))
	s.engine.Use(middleware.LoggingMiddleware(logger))
	s.engine.Use(middleware.CORSMiddleware(s.cfg.AllowedOrigin))
	s.engine.Use(middleware.MetricsMiddleware())

	authMw := middleware.NewAuthMiddleware(codec, s.cfg.AdminKeyHash)
	gate := middleware.NewRouteGate(codec, middleware.DefaultPolicy())

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler: authHandler.NewAuthHandler(authSvc, provider, authHandler.Config{
			SecureCookies: s.cfg.IsProduction(),
			ServerFlow:    s.cfg.ServerAuthFlow,
		}, logger),
		JobHandler:         jobHandler.NewJobHandler(jobSvc),
		ApplicationHandler: applicationHandler.NewApplicationHandler(applicationSvc),
		PlanHandler:        planHandler.NewPlanHandler(planSvc),
		NotifHandler:       notifyHandler.NewNotificationHandler(notifySvc),
		ProfileHandler:     profileHandler.NewProfileHandler(profileSvc),
		AdminHandler:       adminHandler.NewAdminHandler(authSvc),
		WSHandler:          wsHandler.NewWebSocketHandler(hub, codec, s.cfg.AllowedOrigin, logger),
		AuthMiddleware:     authMw,
		Gate:               gate,
	}

	SetupRouter(s.engine, s.cfg.StaticDir, handlers)

	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener and releases the datastores.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(shutdownCtx)
	}

	if s.cancelHub != nil {
		s.cancelHub()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.logger != nil {
		s.logger.Sync()
	}
	return err
}
