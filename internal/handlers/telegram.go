package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/services"
)

// Wire shapes of the Telegram update. The raw payload is validated
// and converted here; downstream layers only ever see the typed
// services.InboundMessage.
type telegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type telegramChat struct {
	ID int64 `json:"id"`
}

type telegramMessage struct {
	From *telegramUser `json:"from"`
	Chat *telegramChat `json:"chat"`
	Text string        `json:"text"`
}

type telegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message"`
}

type TelegramHandler struct {
	log          *logger.Logger
	conversation services.ConversationService
	telegram     services.TelegramService
}

func NewTelegramHandler(log *logger.Logger, conversation services.ConversationService, telegram services.TelegramService) *TelegramHandler {
	return &TelegramHandler{
		log:          log.With("handler", "TelegramHandler"),
		conversation: conversation,
		telegram:     telegram,
	}
}

// Webhook receives one update per delivery. Telegram redelivers on
// non-2xx responses, so processing failures are acknowledged with a
// 200 and an error status in the body.
func (th *TelegramHandler) Webhook(c *gin.Context) {
	var update telegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		th.log.Warn("Unparseable webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "unparseable update"})
		return
	}

	if update.Message == nil {
		th.log.Debug("Ignoring non-message update", "update_id", update.UpdateID)
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "message": "update type not handled"})
		return
	}
	if update.Message.From == nil || update.Message.Text == "" {
		th.log.Debug("Ignoring message without sender or text", "update_id", update.UpdateID)
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "message": "message has no sender or text"})
		return
	}

	inbound := services.InboundMessage{
		TelegramID: update.Message.From.ID,
		FirstName:  update.Message.From.FirstName,
		LastName:   update.Message.From.LastName,
		Username:   update.Message.From.Username,
		Text:       update.Message.Text,
	}

	reply, err := th.conversation.HandleMessage(c.Request.Context(), inbound)
	if err != nil {
		var stageErr *services.StageError
		if errors.As(err, &stageErr) {
			th.log.Error("Exchange failed", "stage", string(stageErr.Stage), "error", stageErr.Err)
			c.JSON(http.StatusOK, gin.H{"status": "error", "stage": string(stageErr.Stage), "message": stageErr.Err.Error()})
			return
		}
		th.log.Error("Exchange failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}

	chatID := update.Message.From.ID
	if update.Message.Chat != nil {
		chatID = update.Message.Chat.ID
	}
	if err := th.telegram.SendMessage(c.Request.Context(), chatID, reply); err != nil {
		th.log.Error("Reply delivery failed", "chat_id", chatID, "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "reply delivery failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "message processed successfully"})
}
