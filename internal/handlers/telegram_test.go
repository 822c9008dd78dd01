package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/services"
)

type fakeConversation struct {
	reply   string
	err     error
	calls   int
	inbound services.InboundMessage
}

func (f *fakeConversation) HandleMessage(ctx context.Context, inbound services.InboundMessage) (string, error) {
	f.calls++
	f.inbound = inbound
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeTelegram struct {
	sendErr  error
	sends    int
	chatID   int64
	lastText string
}

func (f *fakeTelegram) RegisterWebhook(ctx context.Context) error { return nil }

func (f *fakeTelegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.sends++
	f.chatID = chatID
	f.lastText = text
	return f.sendErr
}

func newWebhookFixture(t *testing.T) (*gin.Engine, *fakeConversation, *fakeTelegram) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)

	conversation := &fakeConversation{reply: "assistant reply"}
	telegram := &fakeTelegram{}
	handler := NewTelegramHandler(log, conversation, telegram)

	router := gin.New()
	router.POST("/telegram/webhook", handler.Webhook)
	return router, conversation, telegram
}

func postUpdate(t *testing.T, router *gin.Engine, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestWebhookProcessesMessage(t *testing.T) {
	router, conversation, telegram := newWebhookFixture(t)

	w := postUpdate(t, router, `{
		"update_id": 9,
		"message": {
			"from": {"id": 100, "first_name": "Ada", "username": "ada"},
			"chat": {"id": 200},
			"text": "Hello"
		}
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := decodeStatus(t, w)
	if body["status"] != "ok" {
		t.Fatalf("body: %v", body)
	}

	if conversation.calls != 1 {
		t.Fatalf("conversation called %d times", conversation.calls)
	}
	if conversation.inbound.TelegramID != 100 || conversation.inbound.Text != "Hello" || conversation.inbound.Username != "ada" {
		t.Fatalf("typed inbound: %+v", conversation.inbound)
	}

	if telegram.sends != 1 || telegram.chatID != 200 || telegram.lastText != "assistant reply" {
		t.Fatalf("delivery: sends=%d chat=%d text=%q", telegram.sends, telegram.chatID, telegram.lastText)
	}
}

func TestWebhookIgnoresNonMessageUpdate(t *testing.T) {
	router, conversation, telegram := newWebhookFixture(t)

	w := postUpdate(t, router, `{"update_id": 9, "edited_message": {"text": "x"}}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if decodeStatus(t, w)["status"] != "ignored" {
		t.Fatalf("body: %s", w.Body.String())
	}
	if conversation.calls != 0 || telegram.sends != 0 {
		t.Fatal("ignored update must not reach the pipeline")
	}
}

func TestWebhookIgnoresMessageWithoutText(t *testing.T) {
	router, conversation, _ := newWebhookFixture(t)

	w := postUpdate(t, router, `{"update_id": 9, "message": {"from": {"id": 100}}}`)

	if decodeStatus(t, w)["status"] != "ignored" {
		t.Fatalf("body: %s", w.Body.String())
	}
	if conversation.calls != 0 {
		t.Fatal("textless message must not reach the pipeline")
	}
}

func TestWebhookRejectsUnparseablePayload(t *testing.T) {
	router, _, _ := newWebhookFixture(t)

	w := postUpdate(t, router, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestWebhookReportsFailedStage(t *testing.T) {
	router, conversation, telegram := newWebhookFixture(t)
	conversation.err = &services.StageError{
		Stage: services.StageRequestingCompletion,
		Err:   &services.UpstreamError{StatusCode: 502, Body: "bad gateway"},
	}

	w := postUpdate(t, router, `{
		"update_id": 9,
		"message": {"from": {"id": 100}, "chat": {"id": 200}, "text": "Hello"}
	}`)

	// Telegram redelivers on non-2xx; failures are acknowledged.
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := decodeStatus(t, w)
	if body["status"] != "error" {
		t.Fatalf("body: %v", body)
	}
	if body["stage"] != string(services.StageRequestingCompletion) {
		t.Fatalf("stage: %v", body["stage"])
	}
	if telegram.sends != 0 {
		t.Fatal("no reply should be delivered on failure")
	}
}
