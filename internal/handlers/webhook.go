package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"lead-bridge/internal/common/errors"
	"lead-bridge/internal/common/logging"
	"lead-bridge/internal/lead"
	"lead-bridge/internal/prompt"
)

// maxBodyBytes caps the inbound payload size. CRM lead payloads are
// small; anything larger is not a lead.
const maxBodyBytes = 1 << 20

// processedAtLayout renders the acknowledgment timestamp.
const processedAtLayout = "2006-01-02 15:04:05"

// HandleWebhook runs the full pipeline for one inbound lead: validate
// and normalize the payload, build the prompt, call the enrichment
// provider, relay the result downstream, and acknowledge the caller.
//
// The relay stage is best-effort. Once enrichment has succeeded the
// caller always receives 200; a failed relay is logged but never fails
// the inbound request, because the consumer of the result is the
// downstream endpoint, not the original caller.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("failed to read request body", logging.Err(err))
		h.writeError(w, errors.ValidationError("Invalid or missing JSON data"))
		return
	}

	h.logInbound(r, body)

	token := r.Header.Get("X-Hash")

	payload, err := lead.ParsePayload(body, token)
	if err != nil {
		h.logger.Warn("payload rejected", logging.Err(err))
		h.writeError(w, err)
		return
	}

	logger := h.logger.WithFields(
		logging.String("lead_id", payload.LeadID),
		logging.String("company_name", payload.CompanyName),
	)

	p := prompt.Build(payload)

	text, err := h.enricher.Enrich(r.Context(), p)
	if err != nil {
		logger.Error("enrichment failed", err)
		h.writeError(w, err)
		return
	}

	logger.Info("enrichment completed", logging.Int("result_chars", len(text)))

	h.deliverResult(r.Context(), logger, payload.CorrelationToken, text)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "success",
		"lead_id":      payload.LeadID,
		"company_name": payload.CompanyName,
		"processed_at": time.Now().UTC().Format(processedAtLayout) + " UTC",
	})
}

// logInbound records every inbound request before validation so
// rejected payloads stay diagnosable. It never fails the request.
func (h *Handlers) logInbound(r *http.Request, body []byte) {
	h.logger.Info("webhook received",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path),
		logging.String("remote_addr", r.RemoteAddr),
		logging.Any("headers", r.Header),
		logging.String("raw_body", string(body)),
	)
}

// deliverResult runs the relay stage. The context is detached from the
// inbound request so a client disconnect cannot cancel a delivery whose
// real consumer is the downstream endpoint.
func (h *Handlers) deliverResult(ctx context.Context, logger logging.Logger, token, text string) {
	outcome, err := h.relay.Deliver(context.WithoutCancel(ctx), token, text)
	if err != nil {
		fields := []logging.Field{}
		if outcome != nil {
			fields = append(fields,
				logging.Int("status_code", outcome.StatusCode),
				logging.String("response_body", outcome.Body),
			)
		}
		logger.Error("relay delivery failed", err, fields...)
		return
	}

	logger.Info("relay delivery succeeded", logging.Int("status_code", outcome.StatusCode))
}
