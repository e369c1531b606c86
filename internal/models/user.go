package models

import "gorm.io/gorm"

type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Phone        string     `gorm:"type:varchar(32)"`
	IsAdmin      bool       `gorm:"not null;default:false"`
	IsBlocked    bool       `gorm:"not null;default:false"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'Active'"`
	ProfileImage string     `gorm:"type:varchar(512);not null;default:''"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	if u.IsBlocked {
		u.Status = UserStatusInactive
	}
	return u.BaseModel.BeforeCreate(tx)
}

// SetBlocked - единственный способ менять блокировку: держит IsBlocked и Status согласованными
func (u *User) SetBlocked(blocked bool) {
	u.IsBlocked = blocked
	if blocked {
		u.Status = UserStatusInactive
	} else {
		u.Status = UserStatusActive
	}
}
