package services

import (
	"scholarhub_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService           AuthService
	UserService           UserService
	ScholarshipService    ScholarshipService
	ApplicationService    ApplicationService
	RecommendationService RecommendationService
	NotificationService   NotificationService
	UploadService         UploadService
	EmailService          email.Provider
}
