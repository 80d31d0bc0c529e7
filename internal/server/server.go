package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/handler"
	"taskmanager/internal/logging"
	"taskmanager/internal/middleware"
	"taskmanager/internal/repository"
	"taskmanager/internal/session"
	"taskmanager/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	redis  *redis.Client
}

func Init(cfg *config.Config) (*Server, error) {
	db, err := database.Open(cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logging.Logger.Info("✅ Connected to database")

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}

	store, rdb, err := newSessionStore(cfg, db)
	if err != nil {
		return nil, err
	}
	logging.Logger.WithField("backend", cfg.SessionBackend).Info("✅ Session store ready")

	s := New(cfg, db, store)
	s.redis = rdb
	return s, nil
}

func newSessionStore(cfg *config.Config, db *gorm.DB) (session.Store, *redis.Client, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("❌ invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("❌ failed to connect to Redis: %w", err)
		}
		return session.NewRedisStore(rdb), rdb, nil
	case config.SessionBackendMemory:
		return session.NewMemoryStore(), nil, nil
	default:
		return repository.NewSessionRepository(db), nil, nil
	}
}

// New wires repositories, handlers and middleware on an already migrated
// database.
func New(cfg *config.Config, db *gorm.DB, store session.Store) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.SetHTMLTemplate(web.MustTemplates())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	sessions := session.NewManager(store, auth.NewTokenSigner(cfg.SecretKey, cfg.SessionTTL), cfg.SessionTTL)

	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Security(),
		middleware.AllowedHosts(cfg.AllowedHosts, cfg.Debug),
		middleware.Sessions(sessions, cfg.SessionCookieSecure),
		middleware.CSRF(cfg.SessionCookieSecure),
		middleware.CurrentUser(userRepo),
	)
	r.NoRoute(func(c *gin.Context) {
		middleware.ErrorPage(c, http.StatusNotFound)
	})

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo)
	dashboardHandler := handler.NewDashboardHandler(projectRepo)
	projectHandler := handler.NewProjectHandler(projectRepo, userRepo)
	taskHandler := handler.NewTaskHandler(projectRepo, taskRepo, userRepo)

	methods := []string{http.MethodGet, http.MethodPost}

	// Public routes
	r.Match(methods, "/login/", authHandler.Login)
	r.Match(methods, "/logout/", authHandler.Logout)
	r.Match(methods, "/register/", authHandler.Register)

	// Protected routes - require an authenticated session
	authorized := r.Group("/")
	authorized.Use(middleware.LoginRequired())
	{
		authorized.Match(methods, "/", dashboardHandler.Show)
		authorized.Match(methods, "/projects/create/", projectHandler.Create)
		authorized.Match(methods, "/project/:id/", projectHandler.Detail)
		authorized.Match(methods, "/project/:id/tasks/create/", taskHandler.Create)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatalf("❌ Server forced to shutdown: %s", err)
	}
	s.Close()

	logging.Logger.Info("✅ Server exited properly")
}

// Close releases the database and Redis connections.
func (s *Server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logging.Logger.WithError(err).Warn("failed to close Redis client")
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logging.Logger.WithError(err).Warn("failed to close database")
		}
	}
}
