package handlers

import (
	"net/http"

	"scholarhub_backend/internal/middleware"
	"scholarhub_backend/internal/services"
	"scholarhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/notifications")
	admin.Use(h.Authenticated(), middleware.RequireAdmin())
	{
		admin.GET("", h.ListAll)
		admin.POST("", h.Broadcast)
		admin.POST("/repair", h.Repair)
	}

	// Проверка владельца выполняется в сервисе
	user := rg.Group("/notifications")
	user.Use(h.Authenticated())
	{
		user.PUT("/usernotification/:id/read", h.MarkOne)
		user.GET("/:userId", h.ListForUser)
		user.PUT("/:userId/read", h.MarkAllForUser)
	}
}

// --- Администратор ---

func (h *NotificationHandler) Broadcast(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.BroadcastRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.notificationService.Broadcast(h.GetDB(c), principal, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *NotificationHandler) ListAll(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.notificationService.ListAll(h.GetDB(c), principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) Repair(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	response, err := h.notificationService.RepairFanout(h.GetDB(c), principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// --- Пользователь ---

func (h *NotificationHandler) ListForUser(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.notificationService.ListForUser(h.GetDB(c), principal, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) MarkOne(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkOne(h.GetDB(c), principal, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllForUser(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	response, err := h.notificationService.MarkAllForUser(h.GetDB(c), principal, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
