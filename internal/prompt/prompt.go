// Package prompt renders the enrichment instruction sent to the model.
//
// The template and persona are fixed centrally so the model's output
// format stays predictable enough for the downstream CRM to display.
// Any format change is a template change here, never an ad hoc edit at
// a call site.
package prompt

import (
	"fmt"
	"strings"

	"lead-bridge/internal/lead"
)

// systemPersona is the fixed system-role instruction for every
// enrichment call.
const systemPersona = "You are a business-data research assistant. " +
	"You use open-source search to find information about companies, " +
	"always cite your sources, and respond concisely."

// userTemplate renders the research instruction. The company line is
// always present; the INN line is appended only when the payload
// carries a tax identifier.
const userTemplate = `Find information about the company %q using only these public sources: EGRUL, SPARK-Interfax, Rusprofile, Checko, List-Org, and the company's official website.

For each candidate company matching this name (at most 5 candidates), report:
- headcount
- revenue
- the reporting period the figures refer to

Use the placeholder "—" for any value you cannot find. For each candidate, list up to 5 reference links to the sources you used.`

// Prompt is the rendered instruction pair for one enrichment call.
type Prompt struct {
	// System is the fixed assistant persona.
	System string

	// User is the rendered research instruction.
	User string
}

// Build renders the prompt for a lead. It is a pure function: the same
// payload always produces byte-identical output.
func Build(payload *lead.LeadPayload) Prompt {
	var sb strings.Builder

	fmt.Fprintf(&sb, userTemplate, payload.CompanyName)

	if payload.INN != "" {
		fmt.Fprintf(&sb, "\n\nThe company's tax identifier (INN) is %s. Prefer candidates matching this INN.", payload.INN)
	}

	return Prompt{
		System: systemPersona,
		User:   sb.String(),
	}
}
