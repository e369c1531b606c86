package handlers

import (
	"net/http"

	"scholarhub_backend/internal/middleware"
	"scholarhub_backend/internal/services"
	"scholarhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// Поле формы с новым изображением профиля
const profileImageField = "profile_image"

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	uploadService services.UploadService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, uploadService services.UploadService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		uploadService: uploadService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	me := rg.Group("/auth/me")
	me.Use(h.Authenticated())
	{
		me.GET("", h.GetProfile)
		me.PUT("", h.UpdateProfile)
	}

	admin := rg.Group("/admin/users")
	admin.Use(h.Authenticated(), middleware.RequireAdmin())
	{
		admin.GET("", h.ListUsers)
		admin.PUT("/:id", h.UpdateUser)
		admin.PATCH("/:id/block", h.ToggleBlock)
		admin.DELETE("/:id", h.DeleteUser)
	}
}

// --- Профиль ---

func (h *UserHandler) GetProfile(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	response, err := h.userService.GetProfile(h.GetDB(c), principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateProfile принимает multipart-форму; profile_image необязателен
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if file := formFile(c, profileImageField); file != nil {
		url, err := h.uploadService.Upload(c.Request.Context(), file)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		req.ProfileImage = url
	}

	response, err := h.userService.UpdateProfile(h.GetDB(c), principal, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// --- Администрирование ---

func (h *UserHandler) ListUsers(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(h.GetDB(c), principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.userService.UpdateUser(h.GetDB(c), principal, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) ToggleBlock(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	response, err := h.userService.ToggleBlock(h.GetDB(c), principal, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(h.GetDB(c), principal, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
