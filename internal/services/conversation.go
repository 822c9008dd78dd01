package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/repos"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

// Stage names the step of the per-message pipeline a failure occurred in.
type Stage string

const (
	StageResolvingUser        Stage = "resolving_user"
	StageBuildingContext      Stage = "building_context"
	StageRequestingCompletion Stage = "requesting_completion"
	StagePersisting           Stage = "persisting"
)

// StageError wraps a pipeline failure with the stage it happened in,
// so the transport layer can report where the exchange broke.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("conversation failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

const (
	commandStart = "/start"
	commandNew   = "/new"

	greetingReply = "Hi! I'm an AI-powered bot. How can I help?"
	resetReply    = "Context cleared. Let's start a new conversation!"
)

// InboundMessage is the typed value the transport boundary hands to
// the orchestrator; the raw webhook payload never reaches this layer.
type InboundMessage struct {
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
	Text       string
}

type ConversationService interface {
	HandleMessage(ctx context.Context, inbound InboundMessage) (string, error)
}

type conversationService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	dialogRepo repos.DialogRepo
	builder    ContextBuilder
	completion OpenRouterClient
}

func NewConversationService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, dialogRepo repos.DialogRepo, builder ContextBuilder, completion OpenRouterClient) ConversationService {
	return &conversationService{
		db:         db,
		log:        log.With("service", "ConversationService"),
		userRepo:   userRepo,
		dialogRepo: dialogRepo,
		builder:    builder,
		completion: completion,
	}
}

// HandleMessage runs one unit of work: resolve the sender, assemble
// the context window, request a completion and persist the exchange.
// Steps are strictly sequential; nothing is retried here. If the
// completion call fails the user's message is not persisted and the
// whole exchange fails.
func (cs *conversationService) HandleMessage(ctx context.Context, inbound InboundMessage) (string, error) {
	user, err := cs.resolveUser(ctx, inbound)
	if err != nil {
		return "", &StageError{Stage: StageResolvingUser, Err: err}
	}

	switch inbound.Text {
	case commandStart:
		return greetingReply, nil
	case commandNew:
		deleted, err := cs.dialogRepo.PurgeByUser(ctx, nil, user.ID)
		if err != nil {
			return "", &StageError{Stage: StagePersisting, Err: err}
		}
		cs.log.Info("Context purged", "user_id", user.ID, "deleted", deleted)
		return resetReply, nil
	}

	messages, err := cs.builder.BuildContext(ctx, user.ID, inbound.Text)
	if err != nil {
		return "", &StageError{Stage: StageBuildingContext, Err: err}
	}

	reply, err := cs.completion.Complete(ctx, messages)
	if err != nil {
		return "", &StageError{Stage: StageRequestingCompletion, Err: err}
	}

	// User turn first, then the assistant turn. The pair is not written
	// atomically; if the second append fails the user turn stays and the
	// error propagates.
	if _, err := cs.dialogRepo.Append(ctx, nil, &types.Dialog{
		UserID:      user.ID,
		Message:     inbound.Text,
		IsAssistant: false,
	}); err != nil {
		return "", &StageError{Stage: StagePersisting, Err: err}
	}
	if _, err := cs.dialogRepo.Append(ctx, nil, &types.Dialog{
		UserID:      user.ID,
		Message:     reply,
		IsAssistant: true,
	}); err != nil {
		return "", &StageError{Stage: StagePersisting, Err: err}
	}

	return reply, nil
}

// resolveUser finds the sender by platform id, creating the row on
// first contact. Concurrent first contact can race on the telegram_id
// uniqueness constraint; the loser re-fetches the winner's row.
func (cs *conversationService) resolveUser(ctx context.Context, inbound InboundMessage) (*types.User, error) {
	user, err := cs.userRepo.GetByTelegramID(ctx, nil, inbound.TelegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	cs.log.Debug("Creating user on first contact", "telegram_id", inbound.TelegramID)
	created, err := cs.userRepo.Create(ctx, nil, &types.User{
		TelegramID: inbound.TelegramID,
		FirstName:  inbound.FirstName,
		LastName:   inbound.LastName,
		Username:   inbound.Username,
	})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, fetchErr := cs.userRepo.GetByTelegramID(ctx, nil, inbound.TelegramID)
		if fetchErr != nil {
			return nil, fmt.Errorf("re-fetch user after create race: %w", fetchErr)
		}
		return existing, nil
	}
	return nil, fmt.Errorf("create user: %w", err)
}
