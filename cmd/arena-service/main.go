package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ojarena/internal/arena/controller"
	"ojarena/internal/arena/i18n"
	"ojarena/internal/arena/notifier"
	"ojarena/internal/arena/repository"
	"ojarena/internal/arena/service"
	"ojarena/internal/common/cache"
	"ojarena/internal/common/db"
	commonmw "ojarena/internal/common/http/middleware"
	"ojarena/internal/common/mq"
	"ojarena/internal/common/storage"
	"ojarena/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/arena_service.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	mysqlDB, err := db.NewMySQLWithConfig(&appCfg.Database)
	if err != nil {
		logger.Error(context.Background(), "init database failed", zap.Error(err))
		return
	}
	defer func() {
		_ = mysqlDB.Close()
	}()

	redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
	if err != nil {
		logger.Error(context.Background(), "init redis failed", zap.Error(err))
		return
	}
	defer func() {
		_ = redisCache.Close()
	}()

	var sources service.SourceReader
	if appCfg.MinIO.Endpoint != "" {
		objStorage, err := storage.NewMinIOStorage(appCfg.MinIO)
		if err != nil {
			logger.Error(context.Background(), "init minio failed", zap.Error(err))
			return
		}
		sources = repository.NewSourceStore(objStorage, appCfg.MinIO.Bucket, appCfg.Runs.SourcePrefix, appCfg.Runs.MaxSourceBytes)
	} else {
		logger.Warn(context.Background(), "minio not configured, run comparison disabled")
	}

	catalog, err := i18n.LoadDir(appCfg.Display.LanguageDir, appCfg.Display.DefaultLanguage)
	if err != nil {
		logger.Error(context.Background(), "load language tables failed", zap.Error(err))
		return
	}
	timeFormat, err := appCfg.Display.timeFormat()
	if err != nil {
		logger.Error(context.Background(), "invalid display time zone", zap.Error(err))
		return
	}

	runRepo := repository.NewRunRepositoryWithTTL(mysqlDB, redisCache, appCfg.Runs.CacheTTL, appCfg.Runs.EmptyCacheTTL)
	runsService := service.NewRunsService(runRepo, sources, notifier.New(), service.RunsOptions{
		QueryTimeout: appCfg.Runs.QueryTimeout,
		MaxRows:      appCfg.Runs.MaxRows,
	})

	var mqClient mq.MessageQueue
	if appCfg.Status.IsEnabled() {
		mqClient, err = mq.NewKafkaQueue(appCfg.Kafka)
		if err != nil {
			logger.Error(context.Background(), "init kafka failed", zap.Error(err))
			return
		}
		defer func() {
			_ = mqClient.Close()
		}()

		statusConsumer := service.NewStatusEventConsumer(mqClient, runsService)
		if err := statusConsumer.Subscribe(context.Background(), appCfg.Status.Topic, appCfg.Status.toSubscribeOptions()); err != nil {
			logger.Error(context.Background(), "subscribe status events failed", zap.Error(err))
			return
		}
	}

	runsController := controller.NewRunsController(runsService, controller.Options{
		Columns:                appCfg.Display.Columns.toColumns(),
		ShowPager:              appCfg.Display.ShowPager,
		UseNewSubmissionButton: appCfg.Display.NewSubmissionButton,
		RowCount:               appCfg.Display.RowCount,
		TimeFormat:             timeFormat,
		DetailsURL:             appCfg.Display.DetailsURL,
		ScriptURL:              appCfg.Display.ScriptURL,
		MaxSessions:            appCfg.Display.MaxSessions,
		SessionTTL:             appCfg.Display.SessionTTL,
	})
	httpServer := buildHTTPServer(appCfg, catalog, runsController)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "arena http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
	if mqClient != nil {
		_ = mqClient.Stop()
	}
}

func buildHTTPServer(cfg *AppConfig, catalog *i18n.Catalog, runsController *controller.RunsController) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(commonmw.CORSMiddleware(cfg.CORS))
	router.Use(requestLogger())
	router.Use(controller.LanguageMiddleware(catalog))

	controller.RegisterRoutes(router, runsController)

	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
