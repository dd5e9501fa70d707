package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	pkgconfig "github.com/Keenwby/polaris-youth-platform/pkg/config"
	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
	"github.com/Keenwby/polaris-youth-platform/site/internal/config"
	"github.com/Keenwby/polaris-youth-platform/site/internal/handlers"
	"github.com/Keenwby/polaris-youth-platform/site/internal/metrics"
	"github.com/Keenwby/polaris-youth-platform/site/internal/middleware"
	"github.com/Keenwby/polaris-youth-platform/site/internal/render"
	"github.com/Keenwby/polaris-youth-platform/site/internal/services"
)

func main() {
	envFile := flag.String("env-file", ".env", "Optional .env file")
	port := flag.String("port", "", "Server port (overrides POLARIS_SERVER_PORT)")
	flag.Parse()

	cfg, err := config.Load(pkgconfig.WithEnvFile(*envFile))
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logger.Init(cfg.Logger())
	log := logger.Get()

	loc, _ := cfg.Location()
	mediaURL := cfg.CMS.URL
	if cfg.Media.PublicURL != "" {
		mediaURL = cfg.Media.PublicURL
	}
	renderer, err := render.New(render.Options{
		MediaURL: mediaURL,
		AdminURL: cfg.CMS.URL + "/admin",
		Location: loc,
		Logger:   log,
	})
	if err != nil {
		log.Error("Failed to parse templates", "error", err)
		os.Exit(1)
	}

	// Initialize services
	cms := strapi.NewClient(cfg.Strapi(), strapi.WithTransport(metrics.Transport(nil)), strapi.WithLogger(log))
	loader := services.NewPageLoader(services.NewContentService(cms, log))
	pageHandler := handlers.NewPageHandler(loader, renderer, handlers.SiteInfo{
		Name:        cfg.Site.Name,
		Description: cfg.Site.Description,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Setup Gin router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.AccessLog(log), middleware.SecurityHeaders(), metrics.Middleware())
	router.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit.RPM, cfg.RateLimit.Burst))
	handlers.Register(router, pageHandler)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info("Site server starting", "addr", srv.Addr, "cms", cfg.CMS.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
