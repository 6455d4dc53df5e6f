package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-bridge/internal/common/errors"
	"lead-bridge/internal/common/logging"
	"lead-bridge/internal/prompt"
	"lead-bridge/internal/relay"
)

type fakeEnricher struct {
	calls   int
	prompts []prompt.Prompt
	result  string
	err     error
}

func (f *fakeEnricher) Enrich(ctx context.Context, p prompt.Prompt) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, p)
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeRelay struct {
	calls   int
	tokens  []string
	texts   []string
	outcome *relay.Outcome
	err     error
}

func (f *fakeRelay) Deliver(ctx context.Context, token, text string) (*relay.Outcome, error) {
	f.calls++
	f.tokens = append(f.tokens, token)
	f.texts = append(f.texts, text)
	if f.err != nil {
		return f.outcome, f.err
	}
	if f.outcome != nil {
		return f.outcome, nil
	}
	return &relay.Outcome{StatusCode: http.StatusOK, Body: "ok"}, nil
}

func newTestHandlers(enricher *fakeEnricher, relayClient *fakeRelay) *Handlers {
	return New(enricher, relayClient, logging.NewDefaultLogger())
}

func postWebhook(t *testing.T, h *Handlers, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if token != "" {
		req.Header.Set("X-Hash", token)
	}

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleWebhook_Success(t *testing.T) {
	enricher := &fakeEnricher{result: "Acme LLC: 120 employees."}
	relayClient := &fakeRelay{}
	h := newTestHandlers(enricher, relayClient)

	rec := postWebhook(t, h, `{"company_name": "Acme LLC"}`, "abc123")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Acme LLC", body["company_name"])
	assert.Equal(t, "unknown", body["lead_id"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} UTC$`, body["processed_at"])

	require.Equal(t, 1, relayClient.calls)
	assert.Equal(t, "abc123", relayClient.tokens[0])
	assert.Equal(t, "Acme LLC: 120 employees.", relayClient.texts[0])
}

func TestHandleWebhook_EchoesLeadID(t *testing.T) {
	enricher := &fakeEnricher{result: "profile"}
	h := newTestHandlers(enricher, &fakeRelay{})

	rec := postWebhook(t, h, `{"lead_id": "L-42", "company_name": "Acme"}`, "tok")

	body := decodeBody(t, rec)
	assert.Equal(t, "L-42", body["lead_id"])
}

func TestHandleWebhook_MissingCompanyName(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty name", `{"company_name": ""}`},
		{"whitespace name", `{"company_name": "   "}`},
		{"invisible characters only", "{\"company_name\": \"\u00A0\u200B\uFEFF\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enricher := &fakeEnricher{}
			relayClient := &fakeRelay{}
			h := newTestHandlers(enricher, relayClient)

			rec := postWebhook(t, h, tt.body, "tok")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Missing company_name", decodeBody(t, rec)["error"])
			assert.Equal(t, 0, enricher.calls, "validation failure must not reach the enricher")
			assert.Equal(t, 0, relayClient.calls)
		})
	}
}

func TestHandleWebhook_InvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed JSON", `{"company_name": `},
		{"array body", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enricher := &fakeEnricher{}
			h := newTestHandlers(enricher, &fakeRelay{})

			rec := postWebhook(t, h, tt.body, "tok")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid or missing JSON data", decodeBody(t, rec)["error"])
			assert.Equal(t, 0, enricher.calls)
		})
	}
}

func TestHandleWebhook_MissingCorrelationToken(t *testing.T) {
	enricher := &fakeEnricher{}
	relayClient := &fakeRelay{}
	h := newTestHandlers(enricher, relayClient)

	rec := postWebhook(t, h, `{"company_name": "Acme"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing X-Hash header", decodeBody(t, rec)["error"])
	assert.Equal(t, 0, enricher.calls, "missing header must be rejected before any enrichment call")
	assert.Equal(t, 0, relayClient.calls)
}

func TestHandleWebhook_NormalizesBeforePromptConstruction(t *testing.T) {
	enricher := &fakeEnricher{result: "profile"}
	h := newTestHandlers(enricher, &fakeRelay{})

	rec := postWebhook(t, h, `{"company_name": "Globex Corp"}`, "tok")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, enricher.calls)
	assert.Contains(t, enricher.prompts[0].User, `"Globex Corp"`)
	assert.NotContains(t, enricher.prompts[0].User, " ")
	assert.Equal(t, "Globex Corp", decodeBody(t, rec)["company_name"])
}

func TestHandleWebhook_EnrichmentFailure(t *testing.T) {
	upstreamDetail := "invalid_request_error (invalid_api_key): Incorrect API key provided"
	enricher := &fakeEnricher{err: errors.UpstreamError(upstreamDetail, nil)}
	relayClient := &fakeRelay{}
	h := newTestHandlers(enricher, relayClient)

	rec := postWebhook(t, h, `{"company_name": "Acme"}`, "tok")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "OpenAI API error", decodeBody(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "API key", "upstream detail must not leak to the caller")
	assert.Equal(t, 0, relayClient.calls, "relay must not run when enrichment failed")
}

func TestHandleWebhook_EnrichmentTimeout(t *testing.T) {
	enricher := &fakeEnricher{err: errors.TimeoutError("enrichment call timed out")}
	relayClient := &fakeRelay{}
	h := newTestHandlers(enricher, relayClient)

	rec := postWebhook(t, h, `{"company_name": "Acme"}`, "tok")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "OpenAI API error", decodeBody(t, rec)["error"])
	assert.Equal(t, 0, relayClient.calls)
}

func TestHandleWebhook_RelayFailureStillAcknowledges(t *testing.T) {
	enricher := &fakeEnricher{result: "profile"}
	relayClient := &fakeRelay{
		outcome: &relay.Outcome{StatusCode: http.StatusBadGateway, Body: "downstream down"},
		err:     errors.RelayError("downstream endpoint rejected delivery", nil),
	}
	h := newTestHandlers(enricher, relayClient)

	rec := postWebhook(t, h, `{"company_name": "Acme"}`, "tok")

	assert.Equal(t, http.StatusOK, rec.Code, "relay failure must not fail the inbound request")
	assert.Equal(t, "success", decodeBody(t, rec)["status"])
	assert.Equal(t, 1, relayClient.calls)
}

func TestHandleWebhook_EmptyEnrichmentResultIsRelayed(t *testing.T) {
	enricher := &fakeEnricher{result: ""}
	relayClient := &fakeRelay{}
	h := newTestHandlers(enricher, relayClient)

	rec := postWebhook(t, h, `{"company_name": "Acme"}`, "tok")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, relayClient.calls)
	assert.Equal(t, "", relayClient.texts[0])
}

func TestNotFound(t *testing.T) {
	h := newTestHandlers(&fakeEnricher{}, &fakeRelay{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", decodeBody(t, rec)["error"])
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandlers(&fakeEnricher{}, &fakeRelay{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
