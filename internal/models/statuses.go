package models

type UserStatus string
type ScholarshipStatus string
type ApplicationStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"

	ScholarshipStatusActive   ScholarshipStatus = "Active"
	ScholarshipStatusInactive ScholarshipStatus = "Inactive"

	ApplicationStatusSubmitted   ApplicationStatus = "Submitted"
	ApplicationStatusUnderReview ApplicationStatus = "Under Review"
	ApplicationStatusApproved    ApplicationStatus = "Approved"
	ApplicationStatusRejected    ApplicationStatus = "Rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "Withdrawn"
)

// ApplicationStatuses - все допустимые статусы заявки
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

func (s ApplicationStatus) IsValid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsDecided - решение администратора принято, владелец больше не редактирует заявку
func (s ApplicationStatus) IsDecided() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// CanWithdraw - отзыв возможен только из незавершенных статусов
func (s ApplicationStatus) CanWithdraw() bool {
	return !s.IsDecided() && s != ApplicationStatusWithdrawn
}

func (s ScholarshipStatus) IsValid() bool {
	return s == ScholarshipStatusActive || s == ScholarshipStatusInactive
}

// Toggle возвращает противоположный статус
func (s ScholarshipStatus) Toggle() ScholarshipStatus {
	if s == ScholarshipStatusActive {
		return ScholarshipStatusInactive
	}
	return ScholarshipStatusActive
}
