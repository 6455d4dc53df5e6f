package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-bridge/internal/common/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain string unchanged", "Acme LLC", "Acme LLC"},
		{"surrounding whitespace trimmed", "  Acme LLC \n", "Acme LLC"},
		{"non-breaking space becomes space", "Globex Corp", "Globex Corp"},
		{"thin space becomes space", "Globex Corp", "Globex Corp"},
		{"narrow no-break space becomes space", "Globex Corp", "Globex Corp"},
		{"zero width space removed", "Glo​bex", "Globex"},
		{"zero width joiners removed", "Glo‌bex‍", "Globex"},
		{"byte order mark removed", "\uFEFFGlobex", "Globex"},
		{"only invisibles collapses to empty", " ​\uFEFF ", ""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Acme LLC",
		"  Globex Corp  ",
		"\uFEFF​spaced out ",
		"",
		" ",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", input)
	}
}

func TestParsePayload_CanonicalFields(t *testing.T) {
	body := []byte(`{"lead_id": "L-42", "company_name": "Acme LLC", "INN": "7707083893"}`)

	payload, err := ParsePayload(body, "abc123")
	require.NoError(t, err)

	assert.Equal(t, "L-42", payload.LeadID)
	assert.Equal(t, "Acme LLC", payload.CompanyName)
	assert.Equal(t, "7707083893", payload.INN)
	assert.Equal(t, "abc123", payload.CorrelationToken)
}

func TestParsePayload_FieldVariants(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantLeadID  string
		wantCompany string
		wantINN     string
	}{
		{
			"camelCase variants",
			`{"leadId": "L-7", "companyName": "Globex", "inn": "1234567890"}`,
			"L-7", "Globex", "1234567890",
		},
		{
			"bare id and name",
			`{"id": "99", "name": "Initech"}`,
			"99", "Initech", "",
		},
		{
			"numeric lead id",
			`{"id": 12345, "company_name": "Umbrella"}`,
			"12345", "Umbrella", "",
		},
		{
			"snake_case wins over camelCase",
			`{"lead_id": "snake", "leadId": "camel", "company_name": "Acme"}`,
			"snake", "Acme", "",
		},
		{
			"missing lead id defaults",
			`{"company_name": "Acme"}`,
			DefaultLeadID, "Acme", "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParsePayload([]byte(tt.body), "tok")
			require.NoError(t, err)

			assert.Equal(t, tt.wantLeadID, payload.LeadID)
			assert.Equal(t, tt.wantCompany, payload.CompanyName)
			assert.Equal(t, tt.wantINN, payload.INN)
		})
	}
}

func TestParsePayload_CustomFieldsValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantINN string
	}{
		{
			"latin field code",
			`{"company_name": "Acme", "custom_fields_values": [{"field_code": "INN", "values": [{"value": "7707083893"}]}]}`,
			"7707083893",
		},
		{
			"cyrillic field code",
			`{"company_name": "Acme", "custom_fields_values": [{"field_code": "ИНН", "values": [{"value": "5003052454"}]}]}`,
			"5003052454",
		},
		{
			"numeric value",
			`{"company_name": "Acme", "custom_fields_values": [{"field_code": "INN", "values": [{"value": 7707083893}]}]}`,
			"7707083893",
		},
		{
			"unrelated field codes ignored",
			`{"company_name": "Acme", "custom_fields_values": [{"field_code": "PHONE", "values": [{"value": "+7 495 000-00-00"}]}]}`,
			"",
		},
		{
			"top level inn wins over nested",
			`{"company_name": "Acme", "inn": "1111111111", "custom_fields_values": [{"field_code": "INN", "values": [{"value": "2222222222"}]}]}`,
			"1111111111",
		},
		{
			"malformed block ignored",
			`{"company_name": "Acme", "custom_fields_values": "not-a-list"}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParsePayload([]byte(tt.body), "tok")
			require.NoError(t, err)
			assert.Equal(t, tt.wantINN, payload.INN)
		})
	}
}

func TestParsePayload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		token    string
		wantCode string
	}{
		{"missing token", `{"company_name": "Acme"}`, "", "missing_correlation_token"},
		{"empty body", ``, "tok", "invalid_payload"},
		{"whitespace body", "  \n\t ", "tok", "invalid_payload"},
		{"malformed JSON", `{"company_name": `, "tok", "invalid_payload"},
		{"JSON array, not object", `["Acme"]`, "tok", "invalid_payload"},
		{"empty object", `{}`, "tok", "missing_required_field"},
		{"empty company name", `{"company_name": ""}`, "tok", "missing_required_field"},
		{"whitespace company name", `{"company_name": "   "}`, "tok", "missing_required_field"},
		{"invisible-only company name", `{"company_name": " ​"}`, "tok", "missing_required_field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParsePayload([]byte(tt.body), tt.token)
			require.Error(t, err)
			assert.Nil(t, payload)
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestParsePayload_NormalizesEveryField(t *testing.T) {
	body := []byte("{\"lead_id\": \"\u00A0L-1 \", \"company_name\": \" Globex\u00A0Corp\u200B\", \"INN\": \"\uFEFF7707083893 \"}")

	payload, err := ParsePayload(body, "tok")
	require.NoError(t, err)

	assert.Equal(t, "L-1", payload.LeadID)
	assert.Equal(t, "Globex Corp", payload.CompanyName)
	assert.Equal(t, "7707083893", payload.INN)
}
