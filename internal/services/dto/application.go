package dto

import "time"

// DocumentRefs - URL загруженных документов; пустой слот означает "файл не прислан"
type DocumentRefs struct {
	IDProof    string   `json:"id_proof"`
	IncomeCert string   `json:"income_cert"`
	Marksheets []string `json:"marksheets"`
	Bonafide   string   `json:"bonafide"`
}

// ApplyRequest - multipart-форма подачи заявки
type ApplyRequest struct {
	ScholarshipID string  `form:"scholarship_id" json:"scholarship_id" validate:"required"`
	FullName      string  `form:"full_name" json:"full_name" validate:"required,max=255"`
	Email         string  `form:"email" json:"email" validate:"required,email"`
	Mobile        string  `form:"mobile" json:"mobile" validate:"omitempty,max=32"`
	DOB           string  `form:"dob" json:"dob" validate:"omitempty,max=32"`
	Gender        string  `form:"gender" json:"gender" validate:"omitempty,is-gender"`
	Institution   string  `form:"institution" json:"institution" validate:"omitempty,max=255"`
	Course        string  `form:"course" json:"course" validate:"omitempty,max=255"`
	Year          string  `form:"year" json:"year" validate:"omitempty,max=16"`
	CGPA          float64 `form:"cgpa" json:"cgpa" validate:"gte=0,lte=10"`
	Income        float64 `form:"income" json:"income" validate:"gte=0"`
	FatherName    string  `form:"father_name" json:"father_name" validate:"omitempty,max=255"`
	Occupation    string  `form:"occupation" json:"occupation" validate:"omitempty,max=255"`
	Address       string  `form:"address" json:"address"`
	State         string  `form:"state" json:"state" validate:"omitempty,max=100"`
	Pincode       string  `form:"pincode" json:"pincode" validate:"omitempty,max=16"`

	AccountHolder string `form:"account_holder" json:"account_holder" validate:"omitempty,max=255"`
	BankName      string `form:"bank_name" json:"bank_name" validate:"omitempty,max=255"`
	AccountNumber string `form:"account_number" json:"account_number" validate:"omitempty,max=64"`
	IFSC          string `form:"ifsc" json:"ifsc" validate:"omitempty,max=32"`

	Documents DocumentRefs `form:"-" json:"-"`
}

// UpdateApplicationRequest - пустые значения не затирают сохраненные
type UpdateApplicationRequest struct {
	BankName      string  `form:"bank_name" json:"bank_name" validate:"omitempty,max=255"`
	AccountNumber string  `form:"account_number" json:"account_number" validate:"omitempty,max=64"`
	IFSC          string  `form:"ifsc" json:"ifsc" validate:"omitempty,max=32"`
	AccountHolder string  `form:"account_holder" json:"account_holder" validate:"omitempty,max=255"`
	CGPA          float64 `form:"cgpa" json:"cgpa" validate:"gte=0,lte=10"`
	Income        float64 `form:"income" json:"income" validate:"gte=0"`

	Documents DocumentRefs `form:"-" json:"-"`
}

type SetApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

type ApplicationResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	ScholarshipID string `json:"scholarship_id"`

	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Mobile      string  `json:"mobile"`
	DOB         string  `json:"dob"`
	Gender      string  `json:"gender"`
	Institution string  `json:"institution"`
	Course      string  `json:"course"`
	Year        string  `json:"year"`
	CGPA        float64 `json:"cgpa"`
	Income      float64 `json:"income"`
	FatherName  string  `json:"father_name"`
	Occupation  string  `json:"occupation"`
	Address     string  `json:"address"`
	State       string  `json:"state"`
	Pincode     string  `json:"pincode"`

	AccountHolder string `json:"account_holder"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`

	Documents DocumentRefs `json:"documents"`
	Status    string       `json:"status"`

	Scholarship *ScholarshipResponse `json:"scholarship,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminApplicationResponse - в списке администратора заявитель и стипендия в кратком виде
type AdminApplicationResponse struct {
	ApplicationResponse
	User        *UserSummary        `json:"user"`
	Scholarship *ScholarshipSummary `json:"scholarship"`
}
