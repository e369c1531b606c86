package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler           *AuthHandler
	UserHandler           *UserHandler
	ScholarshipHandler    *ScholarshipHandler
	ApplicationHandler    *ApplicationHandler
	RecommendationHandler *RecommendationHandler
	NotificationHandler   *NotificationHandler
}
