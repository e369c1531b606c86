package dto

import "time"

type CreateScholarshipRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Provider    string  `json:"provider" validate:"max=255"`
	Category    string  `json:"category" validate:"max=100"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Deadline    string  `json:"deadline" validate:"max=64"`
	State       string  `json:"state" validate:"max=100"`
	Type        string  `json:"type" validate:"max=100"`
	Description string  `json:"description"`
	Eligibility string  `json:"eligibility"`
	Status      string  `json:"status" validate:"omitempty,is-scholarship-status"`
}

// UpdateScholarshipRequest - merge-patch: nil поля не меняются
type UpdateScholarshipRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Provider    *string  `json:"provider" validate:"omitempty,max=255"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Amount      *float64 `json:"amount" validate:"omitempty,gte=0"`
	Deadline    *string  `json:"deadline" validate:"omitempty,max=64"`
	State       *string  `json:"state" validate:"omitempty,max=100"`
	Type        *string  `json:"type" validate:"omitempty,max=100"`
	Description *string  `json:"description"`
	Eligibility *string  `json:"eligibility"`
	Status      *string  `json:"status" validate:"omitempty,is-scholarship-status"`
}

// SetScholarshipStatusRequest - пустой статус переключает Active/Inactive
type SetScholarshipStatusRequest struct {
	Status string `json:"status" validate:"omitempty,is-scholarship-status"`
}

type ScholarshipResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Provider          string    `json:"provider"`
	Category          string    `json:"category"`
	Amount            float64   `json:"amount"`
	Deadline          string    `json:"deadline"`
	State             string    `json:"state"`
	Type              string    `json:"type"`
	Description       string    `json:"description"`
	Eligibility       string    `json:"eligibility"`
	Status            string    `json:"status"`
	ApplicationsCount *int64    `json:"applications_count,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ScholarshipSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}
