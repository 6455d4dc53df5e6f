package openai

import (
	"encoding/json"
	"fmt"
)

// ResponsesRequest is a request to the OpenAI Responses API.
type ResponsesRequest struct {
	Model           string          `json:"model"`
	Input           any             `json:"input"` // string or []InputItem
	Instructions    string          `json:"instructions,omitempty"`
	Tools           []ResponsesTool `json:"tools,omitempty"`
	ToolChoice      any             `json:"tool_choice,omitempty"`
	MaxOutputTokens int             `json:"max_output_tokens,omitempty"`
}

// ResponsesTool enables a built-in or function tool for a request.
type ResponsesTool struct {
	Type string `json:"type"` // "web_search", "function"
}

// ResponsesResponse is a response from the OpenAI Responses API.
type ResponsesResponse struct {
	ID     string                `json:"id"`
	Object string                `json:"object"` // "response"
	Status string                `json:"status"` // "completed", "failed", "incomplete"
	Model  string                `json:"model"`
	Output []ResponsesOutputItem `json:"output"`
	Usage  *ResponsesUsage       `json:"usage,omitempty"`
	Error  *ResponsesError       `json:"error,omitempty"`
}

// ResponsesOutputItem is one item of a response's output array.
type ResponsesOutputItem struct {
	Type    string                 `json:"type"` // "message", "web_search_call"
	ID      string                 `json:"id,omitempty"`
	Role    string                 `json:"role,omitempty"`
	Status  string                 `json:"status,omitempty"`
	Content []ResponsesContentPart `json:"content,omitempty"`
}

// ResponsesContentPart is one content part of a message output item.
type ResponsesContentPart struct {
	Type string `json:"type"` // "output_text", "refusal"
	Text string `json:"text,omitempty"`
}

// ResponsesUsage reports token consumption for a response.
type ResponsesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ResponsesError is the error object embedded in a failed response.
type ResponsesError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope returned with non-2xx statuses.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError is the provider's structured error detail.
type APIError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ParseErrorResponse decodes a provider error body. Returns nil when the
// body is not a recognizable error envelope.
func ParseErrorResponse(body []byte) *APIError {
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Error
}

// FirstOutputText returns the text of the first output_text content part
// of the first message output item, or false when the response carries
// no textual output.
func (r *ResponsesResponse) FirstOutputText() (string, bool) {
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				return part.Text, true
			}
		}
	}
	return "", false
}
