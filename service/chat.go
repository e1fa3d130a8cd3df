package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/contratos-rag/backend/config"
)

// ChatClient generates an answer from a system instruction and user content.
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIChat calls the OpenAI-compatible /chat/completions endpoint.
type OpenAIChat struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func NewOpenAIChat(cfg *config.OpenAIConfig) *OpenAIChat {
	return &OpenAIChat{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.ChatModel,
	}
}

// Complete sends one system + user message pair and returns the generated
// text. Any failure is reported as ErrChatService.
func (s *OpenAIChat) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrChatService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrChatService, err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrChatService, err)
	}

	if resp.StatusCode != http.StatusOK {
		// The body may be an API error payload, or HTML from a proxy;
		// keep the status code either way.
		var apiErr chatCompletionResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
			return "", fmt.Errorf("%w: status %d: %s", ErrChatService, resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrChatService, resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %v", ErrChatService, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrChatService, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrChatService)
	}

	return result.Choices[0].Message.Content, nil
}
