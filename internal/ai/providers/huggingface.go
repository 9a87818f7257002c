// internal/ai/providers/huggingface.go
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HuggingFaceAdapter targets the inference API for text-generation
// models. The API takes a single flattened prompt, so system prompt and
// history are folded into one inputs string.
type HuggingFaceAdapter struct {
	client *http.Client
}

func NewHuggingFaceAdapter() *HuggingFaceAdapter {
	return &HuggingFaceAdapter{client: &http.Client{}}
}

func (a *HuggingFaceAdapter) Code() string { return "huggingface" }

type huggingFaceRequest struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

func flattenPrompt(req Request) string {
	var b strings.Builder
	if req.SystemPrompt != "" {
		b.WriteString(req.SystemPrompt)
		b.WriteString("\n\n")
	}
	for _, m := range req.History {
		if m.Role == RoleAssistant {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("User: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(req.UserMessage)
	b.WriteString("\nAssistant:")
	return b.String()
}

func (a *HuggingFaceAdapter) Send(ctx context.Context, req Request) (*Response, error) {
	params := map[string]interface{}{
		"temperature":      req.Temperature,
		"return_full_text": false,
	}
	if req.MaxTokens > 0 {
		params["max_new_tokens"] = req.MaxTokens
	}

	prompt := flattenPrompt(req)
	body, err := json.Marshal(huggingFaceRequest{
		Inputs:     prompt,
		Parameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", strings.TrimSuffix(req.BaseURL, "/"), req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var result []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	// Some models echo the prompt despite return_full_text=false.
	text := strings.TrimPrefix(result[0].GeneratedText, prompt)

	// The inference API does not report token usage.
	return &Response{Text: strings.TrimSpace(text)}, nil
}
