package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"lead-bridge/internal/common/ratelimit"
	"lead-bridge/internal/handlers"
	"lead-bridge/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers, rateLimiter ratelimit.Limiter) {
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware)

	// Health check (not rate limited)
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	// Webhook pipeline endpoint
	webhook := router.NewRoute().Subrouter()
	if rateLimiter != nil {
		webhook.Use(middleware.RateLimitMiddleware(rateLimiter))
	}
	webhook.HandleFunc("/webhook", h.HandleWebhook).Methods("POST")

	// Every unmatched route gets the JSON 404
	notFound := middleware.LoggingMiddleware(http.HandlerFunc(h.NotFound))
	router.NotFoundHandler = notFound
	router.MethodNotAllowedHandler = notFound
}
