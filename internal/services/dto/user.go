package dto

import "time"

// UpdateProfileRequest приходит multipart-формой (вместе с profile_image)
type UpdateProfileRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	Username        string `json:"username" form:"username" validate:"omitempty,max=100"`
	Email           string `json:"email" form:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" form:"phone" validate:"omitempty,max=32"`
	Password        string `json:"password" form:"password" validate:"omitempty,min=6"`

	ProfileImage string `json:"-" form:"-"` // URL, заполняется хэндлером после загрузки
}

type AdminUpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	IsAdmin   *bool   `json:"is_admin"`
	IsBlocked *bool   `json:"is_blocked"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	IsAdmin      bool      `json:"is_admin"`
	IsBlocked    bool      `json:"is_blocked"`
	Status       string    `json:"status"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary - встраивается в ответы по заявкам
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
