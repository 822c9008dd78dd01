package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/chatbridge-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = application.RegisterWebhook(ctx)
	cancel()
	if err != nil {
		application.Log.Error("Failed to register Telegram webhook", "error", err)
		application.Close()
		os.Exit(1)
	}

	application.Log.Info("Server listening", "port", application.Cfg.Port)
	if err := application.Run(); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
