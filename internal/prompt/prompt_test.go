package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lead-bridge/internal/lead"
)

func TestBuild_ContainsCompanyName(t *testing.T) {
	p := Build(&lead.LeadPayload{LeadID: "L-1", CompanyName: "Acme LLC"})

	assert.Contains(t, p.User, `"Acme LLC"`)
	assert.NotEmpty(t, p.System)
}

func TestBuild_Deterministic(t *testing.T) {
	payload := &lead.LeadPayload{
		LeadID:      "L-1",
		CompanyName: "Globex Corp",
		INN:         "7707083893",
	}

	first := Build(payload)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Build(payload), "prompt must be byte-identical across invocations")
	}
}

func TestBuild_INNLineOnlyWhenPresent(t *testing.T) {
	withINN := Build(&lead.LeadPayload{CompanyName: "Acme", INN: "7707083893"})
	withoutINN := Build(&lead.LeadPayload{CompanyName: "Acme"})

	assert.Contains(t, withINN.User, "7707083893")
	assert.NotContains(t, withoutINN.User, "INN is")
	assert.Equal(t, withINN.System, withoutINN.System)
}

func TestBuild_EnumeratesSources(t *testing.T) {
	p := Build(&lead.LeadPayload{CompanyName: "Acme"})

	for _, source := range []string{"EGRUL", "SPARK-Interfax", "Rusprofile", "Checko", "List-Org"} {
		assert.Contains(t, p.User, source)
	}
}

func TestBuild_CandidateAndLinkLimits(t *testing.T) {
	p := Build(&lead.LeadPayload{CompanyName: "Acme"})

	assert.Contains(t, p.User, "at most 5 candidates")
	assert.Contains(t, p.User, "up to 5 reference links")
	assert.Contains(t, p.User, `"—"`)
}

func TestBuild_PersonaIsFixed(t *testing.T) {
	p := Build(&lead.LeadPayload{CompanyName: "Acme"})

	assert.True(t, strings.Contains(p.System, "research assistant"))
	assert.True(t, strings.Contains(p.System, "cite"))
	assert.True(t, strings.Contains(p.System, "concisely"))
}
