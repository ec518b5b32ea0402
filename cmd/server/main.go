package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formpulse/internal/app"
	"formpulse/internal/config"
	"formpulse/internal/log"
	"formpulse/internal/transport/rest"
	"formpulse/internal/transport/ws"
)

// @title FormPulse API
// @version 1.0
// @description Feedback forms with public submission, live results and CSV export
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)
	log.Info("started")

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close(context.Background())

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	defer wsHub.Close()
	log.Info("WebSocket hub started")

	// wsHub implements service.Broadcaster
	a.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:     a.AuthService,
		FormService:     a.FormService,
		ResponseService: a.ResponseService,
		WSHub:           wsHub,
		HealthChecks: map[string]rest.HealthCheck{
			"mongo": func(ctx context.Context) error { return a.Mongo.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() },
		},
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxBodyBytes:       cfg.MaxBodyBytes,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           rest.NewRouter(container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on :%s", cfg.HTTPPort)
		log.Info("Endpoints:")
		log.Info("  POST /api/auth/register, /api/auth/login")
		log.Info("  GET/POST /api/forms")
		log.Info("  GET/PUT/DELETE /api/forms/{id}")
		log.Info("  GET /api/forms/{id}/responses|summary|export")
		log.Info("  GET /api/forms/public/{slug}, POST /api/forms/public/{slug}/submit")
		log.Info("  WS  /api/ws/forms/{id}")
		log.Info("  GET /swagger/index.html")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
