package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"screener/internal/access"
	"screener/internal/auth"
	"screener/internal/cache"
	"screener/internal/client/optionsdata"
	"screener/internal/config"
	cronrunner "screener/internal/cron"
	"screener/internal/db"
	"screener/internal/handler"
	"screener/internal/logger"
	"screener/internal/notification"
	gormrepository "screener/internal/repository/gorm"
	"screener/internal/service"

	_ "screener/docs"
)

func main() {
	cfgPath := os.Getenv("SCR_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SCR_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	var store cache.Store
	if cfg.Redis.Enabled {
		store = cache.NewRedisStore(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		logger.Info("filter state store: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		store = cache.NewMemoryStore()
		logger.Info("filter state store: memory")
	}

	repo := gormrepository.New(dbConn.Gorm)
	resolver := &access.Resolver{
		Repo:            repo,
		Log:             logger,
		GraceDays:       cfg.Access.PastDueGraceDays,
		SignupTrialDays: cfg.Access.SignupTrialDays,
	}

	dataHTTP := &http.Client{Timeout: cfg.OptionsData.Timeout}
	dataClient := optionsdata.NewClient(dataHTTP, cfg.OptionsData.BaseURL, cfg.OptionsData.APIKey)
	searchSvc := service.NewSearchService(dataClient, resolver, cfg.Query.PreviewRows, logger)
	screenerSvc := service.NewScreenerService(repo, logger)
	mailer := notification.Mailer{
		HTTP:     &http.Client{Timeout: cfg.Alerts.Timeout},
		RelayURL: cfg.Alerts.MailRelayURL,
	}
	alertSvc := service.NewAlertService(repo, searchSvc, mailer, cfg.Alerts.MaxRows, logger)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(auth.Middleware(auth.JWT{Secret: []byte(cfg.Auth.JWTSecret)}, cfg.Auth.Disabled))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	screenHandler := &handler.ScreenHandler{
		Service:         searchSvc,
		Logger:          logger,
		DefaultPageSize: cfg.Query.DefaultPageSize,
		MaxPageSize:     cfg.Query.MaxPageSize,
	}
	screenHandler.Register(engine)
	screenersHandler := &handler.ScreenersHandler{Service: screenerSvc, Logger: logger}
	screenersHandler.Register(engine)
	filtersHandler := &handler.FiltersHandler{Store: store, Resolver: resolver, Logger: logger}
	filtersHandler.Register(engine)
	accessHandler := &handler.AccessHandler{Resolver: resolver}
	accessHandler.Register(engine)
	subsHandler := &handler.SubscriptionsHandler{
		Repo:          repo,
		Logger:        logger,
		WebhookSecret: cfg.Auth.WebhookSecret,
	}
	subsHandler.Register(engine)
	streamHandler := &handler.StreamHandler{
		Service:         searchSvc,
		Logger:          logger,
		PageSize:        cfg.Query.DefaultPageSize,
		Debounce:        cfg.Query.Debounce,
		RefreshInterval: cfg.Query.StreamInterval,
	}
	streamHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled && cfg.Alerts.Enabled {
		_, err := cronRunner.Add(cfg.Cron.AlertScan, func(ctx context.Context) {
			if err := alertSvc.Scan(ctx); err != nil {
				logger.Warn("alert scan failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register alert scan failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
