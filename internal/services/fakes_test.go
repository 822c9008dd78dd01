package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

type fakeUserRepo struct {
	users        map[int64]*types.User
	createErr    error
	missFirstGet bool
	getCalls     int
	createCalls  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*types.User{}}
}

func (f *fakeUserRepo) GetByTelegramID(ctx context.Context, tx *gorm.DB, telegramID int64) (*types.User, error) {
	f.getCalls++
	if f.missFirstGet {
		f.missFirstGet = false
		return nil, gorm.ErrRecordNotFound
	}
	user, ok := f.users[telegramID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	f.createCalls++
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return nil, err
	}
	if _, exists := f.users[user.TelegramID]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	user.ID = uuid.New()
	f.users[user.TelegramID] = user
	return user, nil
}

func (f *fakeUserRepo) put(user *types.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.TelegramID] = user
}

type fakeDialogRepo struct {
	turns      []*types.Dialog
	appendErrs []error
	recentErr  error
	purgeErr   error
	purgeCalls int
}

func (f *fakeDialogRepo) Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Dialog, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	var mine []*types.Dialog
	for _, turn := range f.turns {
		if turn.UserID == userID {
			mine = append(mine, turn)
		}
	}
	// Stored oldest-first; serve most-recent-first like the real repo.
	var out []*types.Dialog
	for i := len(mine) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, mine[i])
	}
	return out, nil
}

func (f *fakeDialogRepo) Append(ctx context.Context, tx *gorm.DB, dialog *types.Dialog) (*types.Dialog, error) {
	if len(f.appendErrs) > 0 {
		err := f.appendErrs[0]
		f.appendErrs = f.appendErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	dialog.ID = uuid.New()
	f.turns = append(f.turns, dialog)
	return dialog, nil
}

func (f *fakeDialogRepo) PurgeByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	f.purgeCalls++
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	var kept []*types.Dialog
	var deleted int64
	for _, turn := range f.turns {
		if turn.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, turn)
	}
	f.turns = kept
	return deleted, nil
}

type fakeCompletion struct {
	reply    string
	err      error
	calls    int
	received [][]ChatMessage
}

func (f *fakeCompletion) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	f.calls++
	f.received = append(f.received, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
