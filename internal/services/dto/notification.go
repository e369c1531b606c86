package dto

import "time"

type BroadcastRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type BroadcastResponse struct {
	Notification *NotificationResponse `json:"notification"`
	Delivered    int64                 `json:"delivered"`
}

// UserNotificationResponse - id здесь это id доставки (UserNotification)
type UserNotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

type MarkAllReadResponse struct {
	ModifiedCount int64 `json:"modified_count"`
}

type RepairResponse struct {
	Inserted int64 `json:"inserted"`
}
