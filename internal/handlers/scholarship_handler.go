package handlers

import (
	"net/http"

	"scholarhub_backend/internal/middleware"
	"scholarhub_backend/internal/services"
	"scholarhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ScholarshipHandler struct {
	*BaseHandler
	scholarshipService services.ScholarshipService
}

func NewScholarshipHandler(base *BaseHandler, scholarshipService services.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{
		BaseHandler:        base,
		scholarshipService: scholarshipService,
	}
}

func (h *ScholarshipHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/scholarships", h.ListActive)

	admin := rg.Group("/admin/scholarships")
	admin.Use(h.Authenticated(), middleware.RequireAdmin())
	{
		admin.GET("", h.ListAll)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.PUT("/:id/status", h.SetStatus)
	}
}

func (h *ScholarshipHandler) ListActive(c *gin.Context) {
	list, err := h.scholarshipService.ListActive(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ScholarshipHandler) ListAll(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.scholarshipService.ListAllWithCounts(h.GetDB(c), principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ScholarshipHandler) Create(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateScholarshipRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.scholarshipService.Create(h.GetDB(c), principal, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *ScholarshipHandler) Update(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateScholarshipRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.scholarshipService.Update(h.GetDB(c), principal, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ScholarshipHandler) Delete(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	if err := h.scholarshipService.Delete(h.GetDB(c), principal, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scholarship deleted successfully"})
}

// SetStatus - тело можно не передавать, тогда статус переключается
func (h *ScholarshipHandler) SetStatus(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.SetScholarshipStatusRequest
	if c.Request.ContentLength != 0 {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	response, err := h.scholarshipService.SetStatus(h.GetDB(c), principal, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
