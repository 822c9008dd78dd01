package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/chatbridge-backend/internal/logger"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged entry of the sequence sent to the
// completion API. The sequence always ends with the newest user message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AuthError reports a rejected credential (401/403).
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("openrouter auth rejected (%d): %s", e.StatusCode, e.Body)
}

// UpstreamError reports any other non-2xx status, or a 2xx payload
// missing the expected completion field.
type UpstreamError struct {
	StatusCode int
	Body       string
	Reason     string
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("openrouter upstream error: %s", e.Reason)
	}
	return fmt.Sprintf("openrouter upstream error (%d): %s", e.StatusCode, e.Body)
}

// TransportError reports a failure before any HTTP status was
// received (connection refused, timeout, canceled context).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("openrouter transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type OpenRouterClient interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

type openRouterClient struct {
	log        *logger.Logger
	cfg        OpenRouterConfig
	httpClient *http.Client
}

// NewOpenRouterClient builds a stateless chat-completions adapter.
// Failures are never retried here; the orchestrator surfaces them as
// a single failed exchange.
func NewOpenRouterClient(cfg OpenRouterConfig, log *logger.Logger) (OpenRouterClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing OpenRouter API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistralai/mistral-small-24b-instruct-2501"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &openRouterClient{
		log:        log.With("service", "OpenRouterClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (orc *openRouterClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       orc.cfg.Model,
		Messages:    messages,
		Temperature: orc.cfg.Temperature,
		MaxTokens:   orc.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := strings.TrimRight(orc.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+orc.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "https://github.com/OpenRouterTeam/openrouter")
	req.Header.Set("X-Title", "Telegram Bot")

	orc.log.Debug("Sending completion request", "url", url, "messages", len(messages))

	resp, err := orc.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &AuthError{StatusCode: resp.StatusCode, Body: truncateBody(body)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: truncateBody(body), Reason: "unparseable completion payload"}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: truncateBody(body), Reason: "missing completion content"}
	}

	orc.log.Debug("Received completion response", "status", resp.StatusCode)
	return parsed.Choices[0].Message.Content, nil
}

func truncateBody(body []byte) string {
	const max = 400
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}
