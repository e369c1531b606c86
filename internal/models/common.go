package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - id генерируется приложением, без uuid_generate_v4(), чтобы
// схема одинаково работала на postgres, mysql и sqlite.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AllModels - список для AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Scholarship{},
		&Application{},
		&Notification{},
		&UserNotification{},
		&BroadcastLock{},
	}
}
