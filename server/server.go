package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dinerozz/focus-session-backend/config"
	"github.com/dinerozz/focus-session-backend/docs"
	aiAnalyticsHandler "github.com/dinerozz/focus-session-backend/internal/handler/ai-analytics"
	userExtensionHandler "github.com/dinerozz/focus-session-backend/internal/handler/extension_user"
	focusSessionHandler "github.com/dinerozz/focus-session-backend/internal/handler/focus_session"
	userHandler "github.com/dinerozz/focus-session-backend/internal/handler/user"
	"github.com/dinerozz/focus-session-backend/internal/repository"
	"github.com/dinerozz/focus-session-backend/internal/service/ai_analytics"
	"github.com/dinerozz/focus-session-backend/internal/service/categorizer"
	extensionUserService "github.com/dinerozz/focus-session-backend/internal/service/extension_user"
	"github.com/dinerozz/focus-session-backend/internal/service/focus_analyzer"
	focusSessionService "github.com/dinerozz/focus-session-backend/internal/service/focus_session"
	"github.com/dinerozz/focus-session-backend/internal/service/insight"
	"github.com/dinerozz/focus-session-backend/internal/service/kvstore"
	metricsService "github.com/dinerozz/focus-session-backend/internal/service/metrics_service"
	"github.com/dinerozz/focus-session-backend/internal/service/pattern_analyzer"
	"github.com/dinerozz/focus-session-backend/internal/service/redis"
	"github.com/dinerozz/focus-session-backend/internal/service/user"
	"github.com/dinerozz/focus-session-backend/middleware"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterHandler struct {
	userHandler          *userHandler.UserHandler
	focusSessionHandler  *focusSessionHandler.FocusSessionHandler
	aiAnalyticsHandler   *aiAnalyticsHandler.AIAnalyticsHandler
	userExtensionHandler *userExtensionHandler.ExtensionUserHandler
	userExtensionService extensionUserService.ExtensionUserService
	db                   *sqlx.DB
	store                kvstore.Store
}

func RunServer(config *config.Config, logger *slog.Logger) {
	env := config.Env
	switch env {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
		log.Println("🚀 Starting server in PRODUCTION mode")
	case "dev", "development":
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode")
	default:
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode (default)")
	}

	utils.SetLocation(config.Timezone)
	utils.SetJWTSecret(config.JWTSecret)

	db, err := repository.NewRepository(config.DB)
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	defer db.Close()

	store, err := NewStore(config.Archive, config.Redis)
	if err != nil {
		log.Fatal("❌ Failed to open session store:", err)
	}
	defer store.Close()

	archiveRepo := repository.NewSessionArchiveRepository(store, config.Analytics.ArchiveLimit)
	userRepo := repository.NewUserRepository(db)
	userExtensionRepo := repository.NewExtensionUserRepository(db)

	aiService := ai_analytics.NewAIAnalyticsService(config.AI, store, logger)
	if config.AI.APIKey == "" {
		logger.Warn("AI_API_KEY is not set, every insight will be generated locally")
	}
	dispatcher := insight.NewDispatcher(insight.PolicyFromConfig(config.Analytics), aiService, logger)

	sessionService := focusSessionService.NewSessionService(focusSessionService.Dependencies{
		Categorizer: categorizer.NewDefaultClassifier(),
		Summarizer:  metricsService.NewMetricsService(config.Analytics.TopDomainsLimit),
		Focus:       focus_analyzer.NewAnalyzer(),
		History:     pattern_analyzer.NewAnalyzer(),
		Dispatcher:  dispatcher,
		Weekly:      aiService,
		Archive:     archiveRepo,
		Elapsed:     store,
		Config:      config.Analytics,
		Logger:      logger,
	})
	defer sessionService.Close()

	userSrv := user.NewUserService(userRepo, logger)
	userExtensionService := extensionUserService.NewExtensionUserService(userExtensionRepo, archiveRepo, logger)

	routerHandler := &RouterHandler{
		userHandler:          userHandler.NewUserHandler(userSrv),
		focusSessionHandler:  focusSessionHandler.NewFocusSessionHandler(sessionService),
		aiAnalyticsHandler:   aiAnalyticsHandler.NewAIAnalyticsHandler(sessionService, dispatcher),
		userExtensionHandler: userExtensionHandler.NewExtensionUserHandler(userExtensionService),
		userExtensionService: userExtensionService,
		db:                   db,
		store:                store,
	}

	r := setupRouter(routerHandler, config.Server)

	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("✅ Server starting on port %s", config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	gracefulShutdown(srv)
}

// NewStore opens the key-value backend selected by cfg.Driver.
func NewStore(cfg config.ArchiveConfig, redisCfg config.RedisConfig) (kvstore.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return kvstore.NewSQLiteStore(cfg.SQLitePath)
	case "redis", "":
		return redis.NewRedisService(redisCfg)
	default:
		return nil, errors.New("unknown archive store driver: " + cfg.Driver)
	}
}

func gracefulShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("🔄 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	log.Println("✅ Server gracefully stopped")
}

func setupRouter(routerHandler *RouterHandler, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))
	r.Use(middleware.SwaggerHostMiddleware(cfg.SwaggerHost))

	r.GET("/health", routerHandler.health)

	docs.SwaggerInfo.Host = cfg.SwaggerHost
	docs.SwaggerInfo.Schemes = []string{"http", "https"}
	docs.SwaggerInfo.Title = "Focus session API"
	docs.SwaggerInfo.Description = "Focus session analytics for the browser extension"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api/v1"

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	publicExtensionRoutes := r.Group("/api/v1/extension")
	routerHandler.userExtensionHandler.RegisterExtensionRoutes(publicExtensionRoutes)

	extensionRoutes := r.Group("/api/v1/extension")
	extensionRoutes.Use(middleware.APIKeyMiddleware(routerHandler.userExtensionService))
	{
		routerHandler.focusSessionHandler.RegisterRoutes(extensionRoutes)
		routerHandler.aiAnalyticsHandler.RegisterRoutes(extensionRoutes)
	}

	publicAdminRoutes := r.Group("/api/v1/admin")
	privateRoutes := r.Group("/api/v1/admin")
	privateRoutes.Use(middleware.AuthenticationMiddleware())
	{
		routerHandler.userHandler.RegisterRoutes(publicAdminRoutes, privateRoutes)
		routerHandler.userExtensionHandler.RegisterAdminRoutes(privateRoutes)
	}

	return r
}

func (rh *RouterHandler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "store": "ok"}

	if err := rh.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	}
	if err := rh.store.Health(ctx); err != nil {
		status = http.StatusServiceUnavailable
		checks["store"] = err.Error()
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    state,
		"checks":    checks,
		"timestamp": time.Now().Unix(),
		"service":   "focus-session-backend",
	})
}
