package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Agent is a named model configuration; dialogs may optionally be
// tagged with the agent that produced them.
type Agent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Description string         `gorm:"type:text;column:description" json:"description"`
	Config      datatypes.JSON `gorm:"type:jsonb;column:config" json:"config"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Agent) TableName() string {
	return "agent"
}

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
