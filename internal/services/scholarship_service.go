package services

import (
	"strings"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ScholarshipService interface {
	ListActive(db *gorm.DB) ([]*dto.ScholarshipResponse, error)

	// Администрирование
	ListAllWithCounts(db *gorm.DB, principal auth.Principal) ([]*dto.ScholarshipResponse, error)
	Create(db *gorm.DB, principal auth.Principal, req *dto.CreateScholarshipRequest) (*dto.ScholarshipResponse, error)
	Update(db *gorm.DB, principal auth.Principal, id string, req *dto.UpdateScholarshipRequest) (*dto.ScholarshipResponse, error)
	Delete(db *gorm.DB, principal auth.Principal, id string) error
	SetStatus(db *gorm.DB, principal auth.Principal, id string, status string) (*dto.ScholarshipResponse, error)
}

type ScholarshipServiceImpl struct {
	scholarshipRepo repositories.ScholarshipRepository
	applicationRepo repositories.ApplicationRepository
}

func NewScholarshipService(
	scholarshipRepo repositories.ScholarshipRepository,
	applicationRepo repositories.ApplicationRepository,
) ScholarshipService {
	return &ScholarshipServiceImpl{
		scholarshipRepo: scholarshipRepo,
		applicationRepo: applicationRepo,
	}
}

func (s *ScholarshipServiceImpl) ListActive(db *gorm.DB) ([]*dto.ScholarshipResponse, error) {
	list, err := s.scholarshipRepo.FindActive(db, repositories.NewestFirst)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := make([]*dto.ScholarshipResponse, 0, len(list))
	for i := range list {
		resp = append(resp, buildScholarshipResponse(&list[i]))
	}
	return resp, nil
}

func (s *ScholarshipServiceImpl) ListAllWithCounts(db *gorm.DB, principal auth.Principal) ([]*dto.ScholarshipResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	list, err := s.scholarshipRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	counts, err := s.applicationRepo.CountByScholarship(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := make([]*dto.ScholarshipResponse, 0, len(list))
	for i := range list {
		item := buildScholarshipResponse(&list[i])
		count := counts[list[i].ID]
		item.ApplicationsCount = &count
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *ScholarshipServiceImpl) Create(db *gorm.DB, principal auth.Principal, req *dto.CreateScholarshipRequest) (*dto.ScholarshipResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ErrInvalidInput("scholarships", "Name is required")
	}

	scholarship := &models.Scholarship{
		Name:        name,
		Provider:    req.Provider,
		Category:    req.Category,
		Amount:      req.Amount,
		Deadline:    req.Deadline,
		State:       req.State,
		Type:        req.Type,
		Description: req.Description,
		Eligibility: req.Eligibility,
		Status:      models.ScholarshipStatus(req.Status),
	}
	if scholarship.Status != "" && !scholarship.Status.IsValid() {
		return nil, apperrors.ErrInvalidInput("scholarships", "Status must be Active or Inactive")
	}

	if err := s.scholarshipRepo.Create(db, scholarship); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(db.Statement.Context, "Scholarship created", "scholarship_id", scholarship.ID)
	return buildScholarshipResponse(scholarship), nil
}

// Update - merge-patch: меняются только переданные поля
func (s *ScholarshipServiceImpl) Update(db *gorm.DB, principal auth.Principal, id string, req *dto.UpdateScholarshipRequest) (*dto.ScholarshipResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	scholarship, err := s.scholarshipRepo.FindByID(db, id)
	if err != nil {
		return nil, handleScholarshipError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ErrInvalidInput("scholarships", "Name cannot be empty")
		}
		scholarship.Name = name
	}
	setIfPresent(&scholarship.Provider, req.Provider)
	setIfPresent(&scholarship.Category, req.Category)
	setIfPresent(&scholarship.Deadline, req.Deadline)
	setIfPresent(&scholarship.State, req.State)
	setIfPresent(&scholarship.Type, req.Type)
	setIfPresent(&scholarship.Description, req.Description)
	setIfPresent(&scholarship.Eligibility, req.Eligibility)
	if req.Amount != nil {
		scholarship.Amount = *req.Amount
	}
	if req.Status != nil {
		status := models.ScholarshipStatus(*req.Status)
		if !status.IsValid() {
			return nil, apperrors.ErrInvalidInput("scholarships", "Status must be Active or Inactive")
		}
		scholarship.Status = status
	}

	if err := s.scholarshipRepo.Update(db, scholarship); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return buildScholarshipResponse(scholarship), nil
}

func (s *ScholarshipServiceImpl) Delete(db *gorm.DB, principal auth.Principal, id string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if err := s.scholarshipRepo.Delete(db, id); err != nil {
		return handleScholarshipError(err)
	}
	logger.CtxInfo(db.Statement.Context, "Scholarship deleted", "scholarship_id", id)
	return nil
}

// SetStatus - явный статус или переключение, если status пустой
func (s *ScholarshipServiceImpl) SetStatus(db *gorm.DB, principal auth.Principal, id string, status string) (*dto.ScholarshipResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	scholarship, err := s.scholarshipRepo.FindByID(db, id)
	if err != nil {
		return nil, handleScholarshipError(err)
	}

	next := scholarship.Status.Toggle()
	if status != "" {
		next = models.ScholarshipStatus(status)
		if !next.IsValid() {
			return nil, apperrors.ErrInvalidInput("scholarships", "Status must be Active or Inactive")
		}
	}
	scholarship.Status = next

	if err := s.scholarshipRepo.Update(db, scholarship); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return buildScholarshipResponse(scholarship), nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
