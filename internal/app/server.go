package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"lead-bridge/internal/handlers"
	"lead-bridge/internal/server"
)

// RunServer builds the router and returns the HTTP server, ready to start.
func (app *App) RunServer() (*server.Server, http.Handler) {
	h := handlers.New(app.Enricher, app.Relay, app.Logger)

	router := mux.NewRouter()
	SetupRoutes(router, h, app.RateLimiter)

	srv := server.New(router, app.Config.Port, app.Config.OpenAITimeout)

	return srv, router
}
