// internal/ai/providers/adapter.go
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Role values used in chat history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the canonical chat request every adapter translates from.
// History is already truncated by the gateway before an adapter sees it.
type Request struct {
	SystemPrompt string
	UserMessage  string
	History      []Message
	Model        string
	Temperature  float64
	MaxTokens    int
	APIKey       string
	BaseURL      string
}

// Response is the canonical result every adapter translates to.
// TokensUsed is nil when the vendor does not report usage.
type Response struct {
	Text       string
	TokensUsed *int
}

// Adapter translates the canonical request/response contract to one
// vendor's wire format. Adapters are stateless; every call is a pure
// per-request translation.
type Adapter interface {
	Code() string
	Send(ctx context.Context, req Request) (*Response, error)
}

// httpError captures a non-2xx vendor reply. The body snippet is a
// diagnostic for logs, never shown to the end user.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.status, e.body)
}

// readError drains up to 2KB of an error body for diagnostics.
func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &httpError{status: resp.StatusCode, body: string(body)}
}

func intPtr(v int) *int { return &v }
