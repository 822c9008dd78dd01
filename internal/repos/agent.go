package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

type AgentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, agent *types.Agent) (*types.Agent, error)
	GetByID(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) (*types.Agent, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Agent, error)
	Update(ctx context.Context, tx *gorm.DB, agent *types.Agent) (*types.Agent, error)
	Delete(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) error
}

type agentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgentRepo(db *gorm.DB, baseLog *logger.Logger) AgentRepo {
	repoLog := baseLog.With("repo", "AgentRepo")
	return &agentRepo{db: db, log: repoLog}
}

func (ar *agentRepo) Create(ctx context.Context, tx *gorm.DB, agent *types.Agent) (*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

func (ar *agentRepo) GetByID(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) (*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Agent
	if err := transaction.WithContext(ctx).
		Where("id = ?", agentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *agentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Agent
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *agentRepo) Update(ctx context.Context, tx *gorm.DB, agent *types.Agent) (*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Save(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

func (ar *agentRepo) Delete(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", agentID).
		Delete(&types.Agent{}).Error
}
