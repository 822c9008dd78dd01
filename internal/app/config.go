package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/chatbridge-backend/internal/db"
	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/services"
	"github.com/yungbote/chatbridge-backend/internal/utils"
)

// Config is read once at process start and passed by reference into
// the components that need it. Nothing reads the environment after
// LoadConfig returns.
type Config struct {
	Port       string
	Postgres   db.Config
	Telegram   services.TelegramConfig
	OpenRouter services.OpenRouterConfig
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port: utils.GetEnv("PORT", "8080", log),
		Postgres: db.Config{
			Host:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:     utils.GetEnv("POSTGRES_PORT", "5432", log),
			User:     utils.GetEnv("POSTGRES_USER", "postgres", log),
			Password: utils.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:     utils.GetEnv("POSTGRES_NAME", "chatbridge", log),
		},
		Telegram: services.TelegramConfig{
			BotToken:   utils.GetEnv("TELEGRAM_BOT_TOKEN", "", nil),
			WebhookURL: utils.GetEnv("TELEGRAM_WEBHOOK_URL", "", log),
			APIBaseURL: utils.GetEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org", log),
			Timeout:    time.Duration(utils.GetEnvAsInt("TELEGRAM_TIMEOUT_SECONDS", 30, log)) * time.Second,
		},
		OpenRouter: services.OpenRouterConfig{
			APIKey:      utils.GetEnv("OPENROUTER_API_KEY", "", nil),
			BaseURL:     utils.GetEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1", log),
			Model:       utils.GetEnv("OPENROUTER_MODEL", "mistralai/mistral-small-24b-instruct-2501", log),
			Temperature: utils.GetEnvAsFloat("OPENROUTER_TEMPERATURE", 0.7, log),
			MaxTokens:   utils.GetEnvAsInt("OPENROUTER_MAX_TOKENS", 2048, log),
			Timeout:     time.Duration(utils.GetEnvAsInt("OPENROUTER_TIMEOUT_SECONDS", 60, log)) * time.Second,
		},
	}

	var missing []string
	if cfg.Telegram.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if cfg.Telegram.WebhookURL == "" {
		missing = append(missing, "TELEGRAM_WEBHOOK_URL")
	}
	if cfg.OpenRouter.APIKey == "" {
		missing = append(missing, "OPENROUTER_API_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
