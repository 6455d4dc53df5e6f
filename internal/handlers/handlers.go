// Package handlers implements the HTTP surface of the lead bridge: the
// webhook pipeline endpoint, the health check, and JSON error
// rendering for every exit path.
package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"lead-bridge/internal/common/errors"
	"lead-bridge/internal/common/logging"
	"lead-bridge/internal/prompt"
	"lead-bridge/internal/relay"
)

// Enricher produces a company profile for a rendered prompt.
type Enricher interface {
	Enrich(ctx context.Context, p prompt.Prompt) (string, error)
}

// Relay delivers an enrichment result to the downstream CRM.
type Relay interface {
	Deliver(ctx context.Context, token, text string) (*relay.Outcome, error)
}

// Handlers holds the request pipeline dependencies.
type Handlers struct {
	enricher Enricher
	relay    Relay
	logger   logging.Logger
}

// New creates the handler set.
func New(enricher Enricher, relayClient Relay, logger logging.Logger) *Handlers {
	return &Handlers{
		enricher: enricher,
		relay:    relayClient,
		logger:   logger,
	}
}

// HealthCheck reports process liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFound renders the JSON 404 used for unmatched routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps a typed error onto an HTTP status and a JSON error
// body. Upstream failures are always rendered with a generic message so
// provider error internals never reach the caller.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	switch errors.GetType(err) {
	case errors.ErrTypeValidation:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errorMessage(err)})
	case errors.ErrTypeNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	case errors.ErrTypeRateLimit:
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
	case errors.ErrTypeUpstream, errors.ErrTypeTimeout:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "OpenAI API error"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

// errorMessage extracts the client-facing message from a typed error.
func errorMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "Invalid request"
}
