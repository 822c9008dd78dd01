package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

type DialogRepo interface {
	Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Dialog, error)
	Append(ctx context.Context, tx *gorm.DB, dialog *types.Dialog) (*types.Dialog, error)
	PurgeByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type dialogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDialogRepo(db *gorm.DB, baseLog *logger.Logger) DialogRepo {
	repoLog := baseLog.With("repo", "DialogRepo")
	return &dialogRepo{db: db, log: repoLog}
}

// Recent returns at most limit turns for the user, most recent first.
func (dr *dialogRepo) Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Dialog, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Dialog
	if limit <= 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dialogRepo) Append(ctx context.Context, tx *gorm.DB, dialog *types.Dialog) (*types.Dialog, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if err := transaction.WithContext(ctx).Create(dialog).Error; err != nil {
		return nil, err
	}
	return dialog, nil
}

// PurgeByUser deletes every turn for the user and reports how many
// rows were removed. Full delete, not soft-delete.
func (dr *dialogRepo) PurgeByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.Dialog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
