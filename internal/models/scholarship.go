package models

import "gorm.io/gorm"

type Scholarship struct {
	BaseModel
	Name        string            `gorm:"type:varchar(255);not null"`
	Provider    string            `gorm:"type:varchar(255)"`
	Category    string            `gorm:"type:varchar(100);index"`
	Amount      float64
	Deadline    string            `gorm:"type:varchar(64)"`
	State       string            `gorm:"type:varchar(100)"`
	Type        string            `gorm:"type:varchar(100)"`
	Description string            `gorm:"type:text"`
	Eligibility string            `gorm:"type:text"`
	Status      ScholarshipStatus `gorm:"type:varchar(20);not null;default:'Active';index"`
}

func (s *Scholarship) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = ScholarshipStatusActive
	}
	return s.BaseModel.BeforeCreate(tx)
}
