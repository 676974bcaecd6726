package main

import (
	"context"
	"errors"
	"net/http"

	"catalog-console/internal/handler"
	mid "catalog-console/internal/middleware"
	"catalog-console/internal/screen"
	"catalog-console/internal/view"
	"catalog-console/pkg/catalog"
	"catalog-console/pkg/config"
	"catalog-console/pkg/logger"
	"catalog-console/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("catalog-console")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+appConfig.ServiceName, appConfig.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Remote catalog and screen state
	client := catalog.NewClient(appConfig.Catalog.BaseURL, appConfig.Catalog.Timeout, log.Named("catalog"))
	previews := screen.NewPreviews(appConfig.Upload.PreviewPath)
	notices := &screen.NoticeBoard{}
	products := screen.New(client, previews, notices, log.Named("screen"))

	// Initial fetch; failures are shown to the operator on the first page view
	if err := products.Load(context.Background()); err != nil {
		log.Warn("Initial catalog load failed", zap.Error(err))
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Debug = !appConfig.IsProduction()
	e.Renderer = renderer

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.RequestLogMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Console routes
	h := handler.New(products, notices, previews, client, appConfig.Upload.PreviewPath, appConfig.Upload.MaxBytes)
	h.Register(e)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server error", zap.Error(err))
	}
}
