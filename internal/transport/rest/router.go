package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "formpulse/docs"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest/handler"
	"formpulse/internal/transport/rest/middleware"
	"formpulse/internal/transport/ws"
)

// HealthCheck pings one backing store
type HealthCheck func(ctx context.Context) error

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	FormService     *service.FormService
	ResponseService *service.ResponseService
	WSHub           *ws.Hub
	HealthChecks    map[string]HealthCheck

	CORSAllowedOrigins string
	MaxBodyBytes       int64
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	publicHandler := handler.NewPublicHandler(c.FormService, c.ResponseService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(middleware.Logging)
	r.Use(middleware.CORS(c.CORSAllowedOrigins))
	r.Use(limitBody(c.MaxBodyBytes))

	r.HandleFunc("/health", health(c.HealthChecks)).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/forms/public/{slug}", publicHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/forms/public/{slug}/submit", publicHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.FormService)
		api.HandleFunc("/ws/forms/{id}", wsHandler.FormWS).Methods("GET")
	}

	// Creator routes
	creator := api.NewRoute().Subrouter()
	creator.Use(authMW.RequireCreator)

	creator.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	creator.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	creator.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	creator.HandleFunc("/forms/{id}", formHandler.Get).Methods("GET", "OPTIONS")
	creator.HandleFunc("/forms/{id}", formHandler.Update).Methods("PUT", "OPTIONS")
	creator.HandleFunc("/forms/{id}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	creator.HandleFunc("/forms/{id}/responses", responseHandler.List).Methods("GET", "OPTIONS")
	creator.HandleFunc("/forms/{id}/summary", responseHandler.Summary).Methods("GET", "OPTIONS")
	creator.HandleFunc("/forms/{id}/export", responseHandler.Export).Methods("GET", "OPTIONS")

	return r
}

func limitBody(max int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if max > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func health(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]interface{}{"status": "ok"}
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = "down"
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				continue
			}
			deps[name] = "up"
		}
		body["dependencies"] = deps
		body["timestamp"] = time.Now().UTC().Format(time.RFC3339)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
