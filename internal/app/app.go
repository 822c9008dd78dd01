package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/db"
	"github.com/yungbote/chatbridge-backend/internal/handlers"
	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/repos"
	"github.com/yungbote/chatbridge-backend/internal/server"
	"github.com/yungbote/chatbridge-backend/internal/services"
)

type Repos struct {
	User   repos.UserRepo
	Dialog repos.DialogRepo
	Agent  repos.AgentRepo
}

type Services struct {
	Telegram     services.TelegramService
	OpenRouter   services.OpenRouterClient
	Context      services.ContextBuilder
	Conversation services.ConversationService
	Agent        services.AgentService
}

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
}

// New wires the whole process: logger, config, store, repos, services,
// handlers, router. Construction performs no network side effects
// beyond the database connection; webhook registration happens in the
// explicit RegisterWebhook step.
func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	pg, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := Repos{
		User:   repos.NewUserRepo(theDB, log),
		Dialog: repos.NewDialogRepo(theDB, log),
		Agent:  repos.NewAgentRepo(theDB, log),
	}

	telegramService, err := services.NewTelegramService(cfg.Telegram, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init telegram service: %w", err)
	}
	openRouterClient, err := services.NewOpenRouterClient(cfg.OpenRouter, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init openrouter client: %w", err)
	}
	contextBuilder := services.NewContextBuilder(log, reposet.Dialog)
	conversationService := services.NewConversationService(theDB, log, reposet.User, reposet.Dialog, contextBuilder, openRouterClient)
	agentService := services.NewAgentService(theDB, log, reposet.Agent)

	serviceset := Services{
		Telegram:     telegramService,
		OpenRouter:   openRouterClient,
		Context:      contextBuilder,
		Conversation: conversationService,
		Agent:        agentService,
	}

	telegramHandler := handlers.NewTelegramHandler(log, conversationService, telegramService)
	agentHandler := handlers.NewAgentHandler(agentService)

	router := server.NewRouter(server.RouterConfig{
		TelegramHandler: telegramHandler,
		AgentHandler:    agentHandler,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

// RegisterWebhook is the one network side effect of startup, kept out
// of New so construction stays testable.
func (a *App) RegisterWebhook(ctx context.Context) error {
	return a.Services.Telegram.RegisterWebhook(ctx)
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
