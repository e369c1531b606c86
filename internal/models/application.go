package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxMarksheets - лимит файлов в слоте marksheets
const MaxMarksheets = 5

// ApplicationDocuments - ссылки (URL) на загруженные документы
type ApplicationDocuments struct {
	IDProof    string                      `gorm:"type:varchar(512)"`
	IncomeCert string                      `gorm:"type:varchar(512)"`
	Marksheets datatypes.JSONSlice[string]
	Bonafide   string                      `gorm:"type:varchar(512)"`
}

type Application struct {
	BaseModel
	UserID        string `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_user_scholarship"`
	ScholarshipID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_user_scholarship;index"`

	// Анкета заявителя на момент подачи
	FullName    string  `gorm:"type:varchar(255)"`
	Email       string  `gorm:"type:varchar(255)"`
	Mobile      string  `gorm:"type:varchar(32)"`
	DOB         string  `gorm:"column:dob;type:varchar(32)"`
	Gender      string  `gorm:"type:varchar(20)"`
	Institution string  `gorm:"type:varchar(255)"`
	Course      string  `gorm:"type:varchar(255)"`
	Year        string  `gorm:"type:varchar(16)"`
	CGPA        float64 `gorm:"column:cgpa"`
	Income      float64
	FatherName  string `gorm:"type:varchar(255)"`
	Occupation  string `gorm:"type:varchar(255)"`
	Address     string `gorm:"type:text"`
	State       string `gorm:"type:varchar(100)"`
	Pincode     string `gorm:"type:varchar(16)"`

	// Банковские реквизиты
	AccountHolder string `gorm:"type:varchar(255)"`
	BankName      string `gorm:"type:varchar(255)"`
	AccountNumber string `gorm:"type:varchar(64)"`
	IFSC          string `gorm:"column:ifsc;type:varchar(32)"`

	Documents ApplicationDocuments `gorm:"embedded;embeddedPrefix:doc_"`
	Status    ApplicationStatus    `gorm:"type:varchar(20);not null;default:'Submitted';index"`

	// Relations
	User        *User        `gorm:"foreignKey:UserID"`
	Scholarship *Scholarship `gorm:"foreignKey:ScholarshipID"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = ApplicationStatusSubmitted
	}
	return a.BaseModel.BeforeCreate(tx)
}
