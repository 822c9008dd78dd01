package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dialog is one turn of a conversation. Turns are immutable once
// persisted: they are only appended, or bulk-deleted when a user
// resets their context.
type Dialog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	AgentID     *uuid.UUID `gorm:"type:uuid;column:agent_id" json:"agent_id,omitempty"`
	Message     string     `gorm:"type:text;not null;column:message" json:"message"`
	Context     string     `gorm:"type:text;column:context" json:"context,omitempty"`
	IsAssistant bool       `gorm:"not null;default:false;column:is_assistant" json:"is_assistant"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
}

func (Dialog) TableName() string {
	return "dialog"
}

func (d *Dialog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
