package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

type UserRepo interface {
	GetByTelegramID(ctx context.Context, tx *gorm.DB, telegramID int64) (*types.User, error)
	Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

// GetByTelegramID returns gorm.ErrRecordNotFound when no user exists
// for the given platform identifier.
func (ur *userRepo) GetByTelegramID(ctx context.Context, tx *gorm.DB, telegramID int64) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.User
	if err := transaction.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// Create fails with gorm.ErrDuplicatedKey when another unit of work
// already created a user for the same telegram_id.
func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
