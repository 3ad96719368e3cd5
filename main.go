package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"hypotest/internal"
	"hypotest/internal/api"
	"hypotest/internal/config"
	"hypotest/internal/container"
	"hypotest/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level), appConfig.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Connect(ctx); err != nil {
		logger.Error("Failed to initialize database: %v", err)
		return
	}

	router, err := newRouter(appContainer)
	if err != nil {
		logger.Error("Failed to build router: %v", err)
		return
	}

	srv := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting hypotest server on port %s", appConfig.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed: %v", err)
	}
}

// newRouter wires the JSON API, report pages, metrics and health check
func newRouter(c *container.Container) (*gin.Engine, error) {
	gin.SetMode(c.Config.Server.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestLogger(c.Logger, c.Metrics))

	r.GET("/healthz", api.Health)
	r.GET("/metrics", gin.WrapH(c.Metrics.Handler()))
	api.RegisterRoutes(r, api.NewTestHandler(c.Service))

	reports, err := ui.NewApp(c.Service, c.Logger)
	if err != nil {
		return nil, err
	}
	r.GET("/reports/*path", gin.WrapH(reports))
	r.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/reports/")
	})

	return r, nil
}
