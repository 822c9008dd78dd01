package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/chatbridge-backend/internal/services"
)

type AgentHandler struct {
	agentService services.AgentService
}

func NewAgentHandler(agentService services.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

func (ah *AgentHandler) Create(c *gin.Context) {
	var input services.CreateAgentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_agent", err)
		return
	}
	agent, err := ah.agentService.Create(c.Request.Context(), input)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "agent_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"agent": agent})
}

func (ah *AgentHandler) List(c *gin.Context) {
	agents, err := ah.agentService.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "agent_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"agents": agents})
}

func (ah *AgentHandler) Get(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_agent_id", err)
		return
	}
	agent, err := ah.agentService.Get(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "agent_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "agent_get_failed", err)
		return
	}
	RespondOK(c, gin.H{"agent": agent})
}

func (ah *AgentHandler) Update(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_agent_id", err)
		return
	}
	var input services.UpdateAgentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_agent", err)
		return
	}
	agent, err := ah.agentService.Update(c.Request.Context(), agentID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "agent_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "agent_update_failed", err)
		return
	}
	RespondOK(c, gin.H{"agent": agent})
}

func (ah *AgentHandler) Delete(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_agent_id", err)
		return
	}
	if err := ah.agentService.Delete(c.Request.Context(), agentID); err != nil {
		RespondError(c, http.StatusInternalServerError, "agent_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
