package services

import (
	"strconv"

	"scholarhub_backend/internal/algorithms"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/services/dto"
)

const (
	defaultCategory = "General"
	notAvailable    = "N/A"
)

func buildUserResponse(u *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		IsAdmin:      u.IsAdmin,
		IsBlocked:    u.IsBlocked,
		Status:       string(u.Status),
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func buildScholarshipResponse(s *models.Scholarship) *dto.ScholarshipResponse {
	return &dto.ScholarshipResponse{
		ID:          s.ID,
		Name:        s.Name,
		Provider:    s.Provider,
		Category:    s.Category,
		Amount:      s.Amount,
		Deadline:    s.Deadline,
		State:       s.State,
		Type:        s.Type,
		Description: s.Description,
		Eligibility: s.Eligibility,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func buildDocumentRefs(d models.ApplicationDocuments) dto.DocumentRefs {
	marksheets := []string(d.Marksheets)
	if marksheets == nil {
		marksheets = []string{}
	}
	return dto.DocumentRefs{
		IDProof:    d.IDProof,
		IncomeCert: d.IncomeCert,
		Marksheets: marksheets,
		Bonafide:   d.Bonafide,
	}
}

func buildApplicationResponse(a *models.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		ScholarshipID: a.ScholarshipID,
		FullName:      a.FullName,
		Email:         a.Email,
		Mobile:        a.Mobile,
		DOB:           a.DOB,
		Gender:        a.Gender,
		Institution:   a.Institution,
		Course:        a.Course,
		Year:          a.Year,
		CGPA:          a.CGPA,
		Income:        a.Income,
		FatherName:    a.FatherName,
		Occupation:    a.Occupation,
		Address:       a.Address,
		State:         a.State,
		Pincode:       a.Pincode,
		AccountHolder: a.AccountHolder,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		IFSC:          a.IFSC,
		Documents:     buildDocumentRefs(a.Documents),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.Scholarship != nil {
		resp.Scholarship = buildScholarshipResponse(a.Scholarship)
	}
	return resp
}

func buildAdminApplicationResponse(a *models.Application) *dto.AdminApplicationResponse {
	resp := &dto.AdminApplicationResponse{ApplicationResponse: *buildApplicationResponse(a)}
	resp.ApplicationResponse.Scholarship = nil
	if a.User != nil {
		resp.User = &dto.UserSummary{ID: a.User.ID, Username: a.User.Username, Email: a.User.Email}
	}
	if a.Scholarship != nil {
		resp.Scholarship = &dto.ScholarshipSummary{ID: a.Scholarship.ID, Name: a.Scholarship.Name, Provider: a.Scholarship.Provider}
	}
	return resp
}

// buildRecommendation - умолчания "General" и "N/A" только для холодного старта,
// ранжированные стипендии отдаются как есть
func buildRecommendation(m algorithms.Match, coldStart bool) *dto.RecommendationResponse {
	s := m.Scholarship
	resp := &dto.RecommendationResponse{
		ID:       s.ID,
		Name:     s.Name,
		Provider: s.Provider,
		Category: s.Category,
		Amount:   strconv.FormatFloat(s.Amount, 'f', -1, 64),
		Deadline: s.Deadline,
		State:    s.State,
		Match:    m.Score,
		Reason:   m.Reason,
	}
	if !coldStart {
		return resp
	}

	if resp.Category == "" {
		resp.Category = defaultCategory
	}
	if s.Amount <= 0 {
		resp.Amount = notAvailable
	}
	if resp.Deadline == "" {
		resp.Deadline = notAvailable
	}
	return resp
}

func buildNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt}
}

func buildUserNotificationResponse(un *models.UserNotification) *dto.UserNotificationResponse {
	resp := &dto.UserNotificationResponse{ID: un.ID, IsRead: un.IsRead, CreatedAt: un.CreatedAt}
	if un.Notification != nil {
		resp.Message = un.Notification.Message
		resp.CreatedAt = un.Notification.CreatedAt
	}
	return resp
}
