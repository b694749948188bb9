package model

import "time"

// User is created implicitly on first login by name.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:50;uniqueIndex" json:"name"`
	TelegramChatID *int64    `gorm:"index" json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}
