package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification - широковещательное сообщение, после создания не меняется
type Notification struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// UserNotification - доставка Notification конкретному пользователю
type UserNotification struct {
	BaseModel
	UserID         string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_notification;index"`
	NotificationID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_notification"`
	IsRead         bool   `gorm:"not null;default:false"`

	Notification *Notification `gorm:"foreignKey:NotificationID"`
}

// BroadcastLockName - единственная строка в broadcast_locks
const BroadcastLockName = "broadcast"

// BroadcastLock - строка-замок, сериализующая рассылки (UPDATE внутри транзакции)
type BroadcastLock struct {
	Name       string `gorm:"type:varchar(64);primaryKey"`
	AcquiredAt time.Time
}
