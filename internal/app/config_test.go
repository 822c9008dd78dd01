package app

import (
	"strings"
	"testing"

	"github.com/yungbote/chatbridge-backend/internal/logger"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_WEBHOOK_URL", "https://example.com/telegram/webhook")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func TestLoadConfigFailsFastOnMissingRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_WEBHOOK_URL", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	_, err := LoadConfig(testLogger(t))
	if err == nil {
		t.Fatal("expected error for missing required variables")
	}
	for _, name := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "OPENROUTER_API_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not name %s", err.Error(), name)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig(testLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port: %q", cfg.Port)
	}
	if cfg.OpenRouter.Model != "mistralai/mistral-small-24b-instruct-2501" {
		t.Fatalf("model: %q", cfg.OpenRouter.Model)
	}
	if cfg.OpenRouter.Temperature != 0.7 || cfg.OpenRouter.MaxTokens != 2048 {
		t.Fatalf("sampling defaults: %+v", cfg.OpenRouter)
	}
	if cfg.Postgres.Host != "localhost" || cfg.Postgres.Name != "chatbridge" {
		t.Fatalf("postgres defaults: %+v", cfg.Postgres)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENROUTER_MODEL", "some/other-model")
	t.Setenv("OPENROUTER_MAX_TOKENS", "512")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(testLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenRouter.Model != "some/other-model" || cfg.OpenRouter.MaxTokens != 512 {
		t.Fatalf("overrides not applied: %+v", cfg.OpenRouter)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port override: %q", cfg.Port)
	}
}
