// Package lead parses and normalizes inbound CRM webhook payloads.
//
// Deployments send the same lead through several payload shapes: flat
// snake_case fields, camelCase variants, and a nested custom_fields_values
// block for the tax identifier. This package is the single adapter that
// maps every known shape onto one canonical LeadPayload.
package lead

import (
	"bytes"
	"encoding/json"
	"strings"

	"lead-bridge/internal/common/errors"
)

// DefaultLeadID is used when the payload carries no lead identifier.
const DefaultLeadID = "unknown"

// LeadPayload is the canonical form of an inbound lead, with every
// string field normalized.
type LeadPayload struct {
	// LeadID identifies the lead in the originating CRM. Defaults to
	// DefaultLeadID when the payload has no identifier.
	LeadID string

	// CompanyName is the company to research. Always non-empty.
	CompanyName string

	// INN is the Russian tax identifier, empty when not supplied.
	INN string

	// CorrelationToken is the opaque X-Hash header value, forwarded
	// unchanged to the downstream relay.
	CorrelationToken string
}

// ParsePayload builds a LeadPayload from a raw request body and the
// correlation token taken from the request header. The body is parsed
// as JSON regardless of the declared content type.
//
// Errors are typed validation errors with stable codes:
//   - missing_correlation_token: token is empty
//   - invalid_payload: body is empty, malformed, or not a JSON object
//   - missing_required_field: company name absent or empty after normalization
func ParsePayload(body []byte, token string) (*LeadPayload, error) {
	if token == "" {
		return nil, errors.ValidationError("Missing X-Hash header").
			WithCode("missing_correlation_token")
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.ValidationError("Invalid or missing JSON data").
			WithCode("invalid_payload")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return nil, errors.ValidationError("Invalid or missing JSON data").
			WithCode("invalid_payload").
			WithContext("raw_body", string(body))
	}

	companyName := stringField(fields, "company_name", "companyName", "name")
	if companyName == "" {
		return nil, errors.ValidationError("Missing company_name").
			WithCode("missing_required_field")
	}

	leadID := stringField(fields, "lead_id", "leadId", "id")
	if leadID == "" {
		leadID = DefaultLeadID
	}

	inn := stringField(fields, "INN", "inn")
	if inn == "" {
		inn = customFieldINN(fields)
	}

	return &LeadPayload{
		LeadID:           leadID,
		CompanyName:      companyName,
		INN:              inn,
		CorrelationToken: token,
	}, nil
}

// stringField returns the first key whose value normalizes to a
// non-empty string. Numeric values are accepted for identifiers that
// some CRMs send unquoted.
func stringField(fields map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		value, ok := fields[key]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case string:
			if normalized := Normalize(v); normalized != "" {
				return normalized
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// customFieldINN extracts the tax identifier from the nested
// custom_fields_values block:
//
//	"custom_fields_values": [{"field_code": "INN", "values": [{"value": "7707083893"}]}]
//
// The field code is matched against both the Latin and Cyrillic
// spellings used across deployments.
func customFieldINN(fields map[string]interface{}) string {
	customFields, ok := fields["custom_fields_values"].([]interface{})
	if !ok {
		return ""
	}

	for _, raw := range customFields {
		field, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		code, _ := field["field_code"].(string)
		if !strings.EqualFold(code, "INN") && code != "ИНН" {
			continue
		}

		values, ok := field["values"].([]interface{})
		if !ok {
			continue
		}

		for _, rawValue := range values {
			entry, ok := rawValue.(map[string]interface{})
			if !ok {
				continue
			}

			switch v := entry["value"].(type) {
			case string:
				if normalized := Normalize(v); normalized != "" {
					return normalized
				}
			case json.Number:
				return v.String()
			}
		}
	}

	return ""
}
