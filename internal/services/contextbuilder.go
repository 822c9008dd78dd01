package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/repos"
)

// ContextWindowSize is how many prior turns accompany a new message.
const ContextWindowSize = 5

type ContextBuilder interface {
	BuildContext(ctx context.Context, userID uuid.UUID, newMessage string) ([]ChatMessage, error)
}

type contextBuilder struct {
	log        *logger.Logger
	dialogRepo repos.DialogRepo
	windowSize int
}

func NewContextBuilder(log *logger.Logger, dialogRepo repos.DialogRepo) ContextBuilder {
	return &contextBuilder{
		log:        log.With("service", "ContextBuilder"),
		dialogRepo: dialogRepo,
		windowSize: ContextWindowSize,
	}
}

// BuildContext fetches the most recent turns, reorders them to
// chronological, maps each to a role-tagged message and appends the
// new user message last. Fewer stored turns than the window size just
// means a shorter sequence. Always reads the store, never caches.
func (cb *contextBuilder) BuildContext(ctx context.Context, userID uuid.UUID, newMessage string) ([]ChatMessage, error) {
	recent, err := cb.dialogRepo.Recent(ctx, nil, userID, cb.windowSize)
	if err != nil {
		return nil, fmt.Errorf("fetch recent turns: %w", err)
	}

	messages := make([]ChatMessage, 0, len(recent)+1)
	for i := len(recent) - 1; i >= 0; i-- {
		role := RoleUser
		if recent[i].IsAssistant {
			role = RoleAssistant
		}
		messages = append(messages, ChatMessage{Role: role, Content: recent[i].Message})
	}
	messages = append(messages, ChatMessage{Role: RoleUser, Content: newMessage})

	cb.log.Debug("Assembled context window", "user_id", userID, "prior_turns", len(recent))
	return messages, nil
}
