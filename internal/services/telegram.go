package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yungbote/chatbridge-backend/internal/logger"
)

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
	APIBaseURL string
	Timeout    time.Duration
}

type TelegramService interface {
	// RegisterWebhook points the bot API at our webhook endpoint. It is
	// invoked explicitly by the entry point after wiring; construction
	// itself performs no network calls.
	RegisterWebhook(ctx context.Context) error
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type telegramService struct {
	log        *logger.Logger
	cfg        TelegramConfig
	apiURL     string
	httpClient *http.Client
}

func NewTelegramService(cfg TelegramConfig, log *logger.Logger) (TelegramService, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("missing Telegram bot token")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.telegram.org"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &telegramService{
		log:        log.With("service", "TelegramService"),
		cfg:        cfg,
		apiURL:     fmt.Sprintf("%s/bot%s", cfg.APIBaseURL, cfg.BotToken),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type telegramAPIResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

func (ts *telegramService) RegisterWebhook(ctx context.Context) error {
	if ts.cfg.WebhookURL == "" {
		return fmt.Errorf("missing Telegram webhook URL")
	}

	ts.log.Info("Setting Telegram webhook", "webhook_url", ts.cfg.WebhookURL)
	return ts.call(ctx, "setWebhook", map[string]any{
		"url":             ts.cfg.WebhookURL,
		"allowed_updates": []string{"message"},
	})
}

func (ts *telegramService) SendMessage(ctx context.Context, chatID int64, text string) error {
	ts.log.Debug("Sending message to Telegram", "chat_id", chatID, "text_length", len(text))
	return ts.call(ctx, "sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
}

func (ts *telegramService) call(ctx context.Context, method string, params map[string]any) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal %s params: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.apiURL+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var parsed telegramAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("parse %s response: %w", method, err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram %s rejected: %s", method, parsed.Description)
	}
	return nil
}
