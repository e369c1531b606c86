package handlers

import (
	"net/http"

	"scholarhub_backend/internal/middleware"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/services"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Поля multipart-формы с документами
const (
	idProofField    = "id_proof"
	incomeCertField = "income_cert"
	marksheetsField = "marksheets"
	bonafideField   = "bonafide"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
	uploadService      services.UploadService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService, uploadService services.UploadService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
		uploadService:      uploadService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	owner := rg.Group("/applications")
	owner.Use(h.Authenticated())
	{
		owner.POST("/apply", h.Apply)
		owner.GET("/my", h.ListMine)
		owner.PUT("/:id/withdraw", h.Withdraw)
		owner.PUT("/:id/update", h.Update)
	}

	admin := rg.Group("/admin/applications")
	admin.Use(h.Authenticated(), middleware.RequireAdmin())
	{
		admin.GET("", h.ListAll)
		admin.PUT("/:id/status", h.SetStatus)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.applicationService.CheckSubmittable(db, principal, req.ScholarshipID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	docs, err := h.uploadDocuments(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	req.Documents = docs

	response, err := h.applicationService.Submit(db, principal, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.applicationService.ListMine(h.GetDB(c), principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	response, err := h.applicationService.Withdraw(h.GetDB(c), principal, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	docs, err := h.uploadDocuments(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	req.Documents = docs

	response, err := h.applicationService.UpdateOwnerFields(h.GetDB(c), principal, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ApplicationHandler) ListAll(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.applicationService.ListAll(h.GetDB(c), principal)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.SetApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.applicationService.SetStatus(h.GetDB(c), principal, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// uploadDocuments загружает присланные файлы и возвращает их URL.
// Неприсланный слот остается пустым.
func (h *ApplicationHandler) uploadDocuments(c *gin.Context) (dto.DocumentRefs, error) {
	ctx := c.Request.Context()
	var docs dto.DocumentRefs

	marksheets := formFiles(c, marksheetsField)
	if len(marksheets) > models.MaxMarksheets {
		return docs, apperrors.ErrTooManyFiles.WithDetails(map[string]int{"max": models.MaxMarksheets})
	}

	single := []struct {
		field string
		dst   *string
	}{
		{idProofField, &docs.IDProof},
		{incomeCertField, &docs.IncomeCert},
		{bonafideField, &docs.Bonafide},
	}
	for _, slot := range single {
		file := formFile(c, slot.field)
		if file == nil {
			continue
		}
		url, err := h.uploadService.Upload(ctx, file)
		if err != nil {
			return docs, err
		}
		*slot.dst = url
	}

	if len(marksheets) > 0 {
		urls, err := h.uploadService.UploadMany(ctx, marksheets)
		if err != nil {
			return docs, err
		}
		docs.Marksheets = urls
	}

	return docs, nil
}
