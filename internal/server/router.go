package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/chatbridge-backend/internal/handlers"
)

type RouterConfig struct {
	TelegramHandler *handlers.TelegramHandler
	AgentHandler    *handlers.AgentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Inbound webhook deliveries from the chat platform.
	router.POST("/telegram/webhook", cfg.TelegramHandler.Webhook)

	// Agent administration.
	agents := router.Group("/agents")
	{
		agents.POST("", cfg.AgentHandler.Create)
		agents.GET("", cfg.AgentHandler.List)
		agents.GET("/:id", cfg.AgentHandler.Get)
		agents.PATCH("/:id", cfg.AgentHandler.Update)
		agents.DELETE("/:id", cfg.AgentHandler.Delete)
	}

	return router
}
