package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a chat-platform sender, created lazily on first contact.
// TelegramID is the platform's stable identifier and is immutable
// after creation; rows are never deleted.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null;column:telegram_id" json:"telegram_id"`
	FirstName  string    `gorm:"column:first_name" json:"first_name"`
	LastName   string    `gorm:"column:last_name" json:"last_name"`
	Username   string    `gorm:"column:username" json:"username"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
