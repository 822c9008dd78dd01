package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/logger"
	"github.com/yungbote/chatbridge-backend/internal/repos"
	"github.com/yungbote/chatbridge-backend/internal/types"
)

type CreateAgentInput struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Config      datatypes.JSON `json:"config" binding:"required"`
}

type UpdateAgentInput struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Config      *datatypes.JSON `json:"config,omitempty"`
}

type AgentService interface {
	Create(ctx context.Context, input CreateAgentInput) (*types.Agent, error)
	Get(ctx context.Context, agentID uuid.UUID) (*types.Agent, error)
	List(ctx context.Context) ([]*types.Agent, error)
	Update(ctx context.Context, agentID uuid.UUID, input UpdateAgentInput) (*types.Agent, error)
	Delete(ctx context.Context, agentID uuid.UUID) error
}

type agentService struct {
	db        *gorm.DB
	log       *logger.Logger
	agentRepo repos.AgentRepo
}

func NewAgentService(db *gorm.DB, log *logger.Logger, agentRepo repos.AgentRepo) AgentService {
	return &agentService{
		db:        db,
		log:       log.With("service", "AgentService"),
		agentRepo: agentRepo,
	}
}

func (as *agentService) Create(ctx context.Context, input CreateAgentInput) (*types.Agent, error) {
	agent := &types.Agent{
		Name:        input.Name,
		Description: input.Description,
		Config:      input.Config,
	}
	created, err := as.agentRepo.Create(ctx, nil, agent)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	as.log.Info("Agent created", "agent_id", created.ID, "name", created.Name)
	return created, nil
}

func (as *agentService) Get(ctx context.Context, agentID uuid.UUID) (*types.Agent, error) {
	return as.agentRepo.GetByID(ctx, nil, agentID)
}

func (as *agentService) List(ctx context.Context) ([]*types.Agent, error) {
	return as.agentRepo.List(ctx, nil)
}

func (as *agentService) Update(ctx context.Context, agentID uuid.UUID, input UpdateAgentInput) (*types.Agent, error) {
	agent, err := as.agentRepo.GetByID(ctx, nil, agentID)
	if err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if input.Name != nil {
		agent.Name = *input.Name
	}
	if input.Description != nil {
		agent.Description = *input.Description
	}
	if input.Config != nil {
		agent.Config = *input.Config
	}
	updated, err := as.agentRepo.Update(ctx, nil, agent)
	if err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}
	return updated, nil
}

func (as *agentService) Delete(ctx context.Context, agentID uuid.UUID) error {
	return as.agentRepo.Delete(ctx, nil, agentID)
}
