package services

import (
	"context"
	"strings"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/email"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/metrics"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	// Владелец
	CheckSubmittable(db *gorm.DB, principal auth.Principal, scholarshipID string) error
	Submit(db *gorm.DB, principal auth.Principal, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	UpdateOwnerFields(db *gorm.DB, principal auth.Principal, applicationID string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error)
	Withdraw(db *gorm.DB, principal auth.Principal, applicationID string) (*dto.ApplicationResponse, error)
	ListMine(db *gorm.DB, principal auth.Principal) ([]*dto.ApplicationResponse, error)

	// Администратор
	SetStatus(db *gorm.DB, principal auth.Principal, applicationID string, status string) (*dto.ApplicationResponse, error)
	ListAll(db *gorm.DB, principal auth.Principal) ([]*dto.AdminApplicationResponse, error)
}

type ApplicationServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	scholarshipRepo repositories.ScholarshipRepository
	mailer          email.Provider
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	scholarshipRepo repositories.ScholarshipRepository,
	mailer email.Provider,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo: applicationRepo,
		scholarshipRepo: scholarshipRepo,
		mailer:          mailer,
	}
}

// CheckSubmittable - проверки до загрузки документов, чтобы отклоненная
// подача не оставляла файлов в хранилище
func (s *ApplicationServiceImpl) CheckSubmittable(db *gorm.DB, principal auth.Principal, scholarshipID string) error {
	_, err := s.ensureSubmittable(db, principal, scholarshipID)
	return err
}

// Submit - одна заявка на пару (пользователь, стипендия)
func (s *ApplicationServiceImpl) Submit(db *gorm.DB, principal auth.Principal, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	ctx := db.Statement.Context

	if len(req.Documents.Marksheets) > models.MaxMarksheets {
		return nil, apperrors.ErrTooManyFiles
	}

	scholarship, err := s.ensureSubmittable(db, principal, req.ScholarshipID)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		UserID:        principal.UserID,
		ScholarshipID: scholarship.ID,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         normalizeEmail(req.Email),
		Mobile:        req.Mobile,
		DOB:           req.DOB,
		Gender:        req.Gender,
		Institution:   req.Institution,
		Course:        req.Course,
		Year:          req.Year,
		CGPA:          req.CGPA,
		Income:        req.Income,
		FatherName:    req.FatherName,
		Occupation:    req.Occupation,
		Address:       req.Address,
		State:         req.State,
		Pincode:       req.Pincode,
		AccountHolder: req.AccountHolder,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		Documents: models.ApplicationDocuments{
			IDProof:    req.Documents.IDProof,
			IncomeCert: req.Documents.IncomeCert,
			Marksheets: req.Documents.Marksheets,
			Bonafide:   req.Documents.Bonafide,
		},
		Status: models.ApplicationStatusSubmitted,
	}

	// гонку двух одновременных подач закрывает уникальный индекс
	if err := s.applicationRepo.Create(db, app); err != nil {
		return nil, handleApplicationError(err)
	}

	metrics.RecordApplicationSubmitted()
	logger.CtxInfo(ctx, "Application submitted", "application_id", app.ID, "scholarship_id", scholarship.ID)

	app.Scholarship = scholarship
	return buildApplicationResponse(app), nil
}

// UpdateOwnerFields - merge-patch банковских реквизитов, cgpa/income и документов.
// Пустая строка или ноль сохраняют прежнее значение.
func (s *ApplicationServiceImpl) UpdateOwnerFields(db *gorm.DB, principal auth.Principal, applicationID string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	app, err := s.loadOwned(db, principal, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status.IsDecided() {
		return nil, apperrors.ErrApplicationLocked
	}
	if len(req.Documents.Marksheets) > models.MaxMarksheets {
		return nil, apperrors.ErrTooManyFiles
	}

	mergeString(&app.BankName, req.BankName)
	mergeString(&app.AccountNumber, req.AccountNumber)
	mergeString(&app.IFSC, req.IFSC)
	mergeString(&app.AccountHolder, req.AccountHolder)
	if req.CGPA != 0 {
		app.CGPA = req.CGPA
	}
	if req.Income != 0 {
		app.Income = req.Income
	}

	mergeString(&app.Documents.IDProof, req.Documents.IDProof)
	mergeString(&app.Documents.IncomeCert, req.Documents.IncomeCert)
	mergeString(&app.Documents.Bonafide, req.Documents.Bonafide)
	if len(req.Documents.Marksheets) > 0 {
		app.Documents.Marksheets = req.Documents.Marksheets
	}

	// решение администратора между чтением и записью дает ErrApplicationLocked
	if err := s.applicationRepo.UpdateOwnerFields(db, app); err != nil {
		return nil, handleApplicationError(err)
	}

	logger.CtxInfo(db.Statement.Context, "Application updated by owner", "application_id", app.ID)
	return buildApplicationResponse(app), nil
}

func (s *ApplicationServiceImpl) Withdraw(db *gorm.DB, principal auth.Principal, applicationID string) (*dto.ApplicationResponse, error) {
	app, err := s.loadOwned(db, principal, applicationID)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanWithdraw() {
		return nil, apperrors.ErrApplicationNotWithdrawable.WithDetails(map[string]string{"status": string(app.Status)})
	}

	if err := s.applicationRepo.UpdateStatus(db, app.ID, models.ApplicationStatusWithdrawn); err != nil {
		return nil, handleApplicationError(err)
	}
	app.Status = models.ApplicationStatusWithdrawn

	metrics.RecordStatusChange(string(app.Status))
	logger.CtxInfo(db.Statement.Context, "Application withdrawn", "application_id", app.ID)
	return buildApplicationResponse(app), nil
}

func (s *ApplicationServiceImpl) ListMine(db *gorm.DB, principal auth.Principal) ([]*dto.ApplicationResponse, error) {
	apps, err := s.applicationRepo.FindByUser(db, principal.UserID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp = append(resp, buildApplicationResponse(&apps[i]))
	}
	return resp, nil
}

// SetStatus - решение администратора; переход из любого статуса в любой
func (s *ApplicationServiceImpl) SetStatus(db *gorm.DB, principal auth.Principal, applicationID string, status string) (*dto.ApplicationResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	next := models.ApplicationStatus(status)
	if !next.IsValid() {
		return nil, apperrors.ErrInvalidApplicationStatus
	}

	app, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, handleApplicationError(err)
	}

	if err := s.applicationRepo.UpdateStatus(db, app.ID, next); err != nil {
		return nil, handleApplicationError(err)
	}
	previous := app.Status
	app.Status = next

	metrics.RecordStatusChange(string(next))
	logger.CtxInfo(db.Statement.Context, "Application status changed",
		"application_id", app.ID,
		"from", previous,
		"to", next,
	)

	s.notifyStatusChange(db, app)
	return buildApplicationResponse(app), nil
}

func (s *ApplicationServiceImpl) ListAll(db *gorm.DB, principal auth.Principal) ([]*dto.AdminApplicationResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	apps, err := s.applicationRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := make([]*dto.AdminApplicationResponse, 0, len(apps))
	for i := range apps {
		resp = append(resp, buildAdminApplicationResponse(&apps[i]))
	}
	return resp, nil
}

func (s *ApplicationServiceImpl) ensureSubmittable(db *gorm.DB, principal auth.Principal, scholarshipID string) (*models.Scholarship, error) {
	scholarship, err := s.scholarshipRepo.FindByID(db, scholarshipID)
	if err != nil {
		return nil, handleScholarshipError(err)
	}

	exists, err := s.applicationRepo.Exists(db, principal.UserID, scholarship.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateApplication
	}
	return scholarship, nil
}

func (s *ApplicationServiceImpl) loadOwned(db *gorm.DB, principal auth.Principal, applicationID string) (*models.Application, error) {
	app, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if !principal.Owns(app.UserID) {
		logger.CtxWarn(db.Statement.Context, "Application access denied", "application_id", app.ID)
		return nil, apperrors.ErrApplicationAccessDenied
	}
	return app, nil
}

// notifyStatusChange отправляет письмо в фоне; ошибка почты не влияет на ответ
func (s *ApplicationServiceImpl) notifyStatusChange(db *gorm.DB, app *models.Application) {
	if s.mailer == nil || app.Email == "" {
		return
	}

	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	scholarshipName := app.ScholarshipID
	if sch, err := s.scholarshipRepo.FindByID(db, app.ScholarshipID); err == nil {
		scholarshipName = sch.Name
	}

	to := []string{app.Email}
	data := email.TemplateData{
		"Name":        app.FullName,
		"Scholarship": scholarshipName,
		"Status":      string(app.Status),
	}

	go func() {
		err := s.mailer.SendTemplate(to, "Application status updated", email.TemplateApplicationStatus, data)
		if err != nil {
			logger.CtxWithError(ctx, "Failed to send status email", err, "application_id", app.ID)
			return
		}
		logger.CtxDebug(ctx, "Status email sent", "application_id", app.ID)
	}()
}

func mergeString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
