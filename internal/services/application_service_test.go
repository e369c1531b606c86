package services_test

import (
	"sync"
	"testing"
	"time"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/email"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"
	"scholarhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingMailer запоминает отправленные шаблонные письма
type recordingMailer struct {
	mu   sync.Mutex
	sent []email.TemplateData
	to   [][]string
}

func (m *recordingMailer) Send(*email.Email) error { return nil }
func (m *recordingMailer) Validate() error         { return nil }

func (m *recordingMailer) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	m.sent = append(m.sent, data)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newApplicationService(mailer email.Provider) services.ApplicationService {
	return services.NewApplicationService(
		repositories.NewApplicationRepository(),
		repositories.NewScholarshipRepository(),
		mailer,
	)
}

func owner(u *models.User) auth.Principal {
	return auth.Principal{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func countApplications(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.Application{}).Count(&n).Error)
	return n
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{Name: "Merit Award"})

	req := &dto.ApplyRequest{
		ScholarshipID: s.ID,
		FullName:      "Student One",
		Email:         "Student@Test.com",
		Documents:     dto.DocumentRefs{IDProof: "/uploads/id.pdf"},
	}

	resp, err := svc.Submit(db, owner(user), req)
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationStatusSubmitted), resp.Status)
	assert.Equal(t, "student@test.com", resp.Email)
	assert.Equal(t, "/uploads/id.pdf", resp.Documents.IDProof)
	assert.Equal(t, []string{}, resp.Documents.Marksheets)

	_, err = svc.Submit(db, owner(user), req)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)
	assert.Equal(t, int64(1), countApplications(t, db))
}

func TestSubmitUnknownScholarship(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)

	_, err := svc.Submit(db, owner(user), &dto.ApplyRequest{ScholarshipID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrScholarshipNotFound)
}

func TestCheckSubmittable(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{})

	assert.NoError(t, svc.CheckSubmittable(db, owner(user), s.ID))
	assert.ErrorIs(t, svc.CheckSubmittable(db, owner(user), "missing"), apperrors.ErrScholarshipNotFound)

	helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusSubmitted)
	assert.ErrorIs(t, svc.CheckSubmittable(db, owner(user), s.ID), apperrors.ErrDuplicateApplication)
}

func TestSubmitTooManyMarksheets(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{})

	req := &dto.ApplyRequest{
		ScholarshipID: s.ID,
		Documents:     dto.DocumentRefs{Marksheets: []string{"1", "2", "3", "4", "5", "6"}},
	}
	_, err := svc.Submit(db, owner(user), req)
	assert.ErrorIs(t, err, apperrors.ErrTooManyFiles)
	assert.Equal(t, int64(0), countApplications(t, db))
}

func TestUpdateOwnerFieldsMergesProvidedValues(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{})
	app := helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusSubmitted)

	resp, err := svc.UpdateOwnerFields(db, owner(user), app.ID, &dto.UpdateApplicationRequest{
		BankName:  "New Bank",
		Documents: dto.DocumentRefs{Marksheets: []string{"/uploads/m1.pdf"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "New Bank", resp.BankName)
	assert.Equal(t, "OLD0001", resp.IFSC, "не переданное поле не меняется")
	assert.Equal(t, 7.5, resp.CGPA)
	assert.Equal(t, []string{"/uploads/m1.pdf"}, resp.Documents.Marksheets)

	var stored models.Application
	require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, "New Bank", stored.BankName)
	assert.Equal(t, "OLD0001", stored.IFSC)
}

func TestUpdateOwnerFieldsLockedAfterDecision(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{})

	for _, status := range []models.ApplicationStatus{models.ApplicationStatusApproved, models.ApplicationStatusRejected} {
		app := helpers.CreateApplication(t, db, user.ID, helpers.CreateScholarship(t, db, &models.Scholarship{}).ID, status)
		_, err := svc.UpdateOwnerFields(db, owner(user), app.ID, &dto.UpdateApplicationRequest{BankName: "X"})
		assert.ErrorIs(t, err, apperrors.ErrApplicationLocked, status)
	}

	other := helpers.CreateUser(t, db, "other", "other@test.com", false)
	app := helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusSubmitted)
	_, err := svc.UpdateOwnerFields(db, owner(other), app.ID, &dto.UpdateApplicationRequest{BankName: "X"})
	assert.ErrorIs(t, err, apperrors.ErrApplicationAccessDenied)
}

// decidingRepository - администратор выносит решение между чтением заявки и записью владельца
type decidingRepository struct {
	repositories.ApplicationRepository
	decision models.ApplicationStatus
}

func (r *decidingRepository) UpdateOwnerFields(db *gorm.DB, app *models.Application) error {
	if err := r.ApplicationRepository.UpdateStatus(db, app.ID, r.decision); err != nil {
		return err
	}
	return r.ApplicationRepository.UpdateOwnerFields(db, app)
}

func TestUpdateOwnerFieldsDoesNotOverwriteConcurrentDecision(t *testing.T) {
	db := helpers.NewTestDB(t)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)

	for _, decision := range []models.ApplicationStatus{models.ApplicationStatusApproved, models.ApplicationStatusRejected} {
		s := helpers.CreateScholarship(t, db, &models.Scholarship{})
		app := helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusSubmitted)

		svc := services.NewApplicationService(
			&decidingRepository{ApplicationRepository: repositories.NewApplicationRepository(), decision: decision},
			repositories.NewScholarshipRepository(),
			nil,
		)
		_, err := svc.UpdateOwnerFields(db, owner(user), app.ID, &dto.UpdateApplicationRequest{BankName: "B"})
		assert.ErrorIs(t, err, apperrors.ErrApplicationLocked, decision)

		var stored models.Application
		require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)
		assert.Equal(t, decision, stored.Status)
		assert.Equal(t, "Old Bank", stored.BankName)
	}
}

func TestUpdateOwnerFieldsByStatus(t *testing.T) {
	cases := []struct {
		name   string
		status models.ApplicationStatus
		req    *dto.UpdateApplicationRequest
		check  func(t *testing.T, stored *models.Application)
	}{
		{
			name:   "only cgpa changes",
			status: models.ApplicationStatusSubmitted,
			req:    &dto.UpdateApplicationRequest{CGPA: 9},
			check: func(t *testing.T, stored *models.Application) {
				assert.Equal(t, 9.0, stored.CGPA)
				assert.Equal(t, 500000.0, stored.Income)
				assert.Equal(t, "Old Bank", stored.BankName)
				assert.Equal(t, "OLD0001", stored.IFSC)
				assert.Equal(t, models.ApplicationStatusSubmitted, stored.Status)
			},
		},
		{
			name:   "under review is editable",
			status: models.ApplicationStatusUnderReview,
			req:    &dto.UpdateApplicationRequest{IFSC: "NEW0002"},
			check: func(t *testing.T, stored *models.Application) {
				assert.Equal(t, "NEW0002", stored.IFSC)
				assert.Equal(t, models.ApplicationStatusUnderReview, stored.Status)
			},
		},
		{
			name:   "withdrawn is editable",
			status: models.ApplicationStatusWithdrawn,
			req:    &dto.UpdateApplicationRequest{Income: 100000},
			check: func(t *testing.T, stored *models.Application) {
				assert.Equal(t, 100000.0, stored.Income)
				assert.Equal(t, 7.5, stored.CGPA)
				assert.Equal(t, models.ApplicationStatusWithdrawn, stored.Status)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := helpers.NewTestDB(t)
			svc := newApplicationService(nil)
			user := helpers.CreateUser(t, db, "student", "student@test.com", false)
			s := helpers.CreateScholarship(t, db, &models.Scholarship{})
			app := helpers.CreateApplication(t, db, user.ID, s.ID, tc.status)

			_, err := svc.UpdateOwnerFields(db, owner(user), app.ID, tc.req)
			require.NoError(t, err)

			var stored models.Application
			require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)
			tc.check(t, &stored)
		})
	}
}

func TestWithdrawFromTerminalStatus(t *testing.T) {
	cases := []struct {
		status models.ApplicationStatus
		ok     bool
	}{
		{models.ApplicationStatusSubmitted, true},
		{models.ApplicationStatusUnderReview, true},
		{models.ApplicationStatusApproved, false},
		{models.ApplicationStatusRejected, false},
		{models.ApplicationStatusWithdrawn, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			db := helpers.NewTestDB(t)
			svc := newApplicationService(nil)
			user := helpers.CreateUser(t, db, "student", "student@test.com", false)
			s := helpers.CreateScholarship(t, db, &models.Scholarship{})
			app := helpers.CreateApplication(t, db, user.ID, s.ID, tc.status)

			_, err := svc.Withdraw(db, owner(user), app.ID)
			var stored models.Application
			require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)

			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, models.ApplicationStatusWithdrawn, stored.Status)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrApplicationNotWithdrawable)
			assert.Equal(t, tc.status, stored.Status)
		})
	}
}

func TestWithdrawOnlyOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{})
	app := helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusUnderReview)

	resp, err := svc.Withdraw(db, owner(user), app.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationStatusWithdrawn), resp.Status)

	_, err = svc.Withdraw(db, owner(user), app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotWithdrawable)

	_, err = svc.Withdraw(db, owner(user), "missing")
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestSetStatusRequiresAdminAndSendsEmail(t *testing.T) {
	db := helpers.NewTestDB(t)
	mailer := &recordingMailer{}
	svc := newApplicationService(mailer)
	admin := helpers.CreateUser(t, db, "admin", "admin@test.com", true)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{Name: "Merit Award"})
	app := helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusSubmitted)

	_, err := svc.SetStatus(db, owner(user), app.ID, string(models.ApplicationStatusApproved))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = svc.SetStatus(db, owner(admin), app.ID, "Pending")
	assert.ErrorIs(t, err, apperrors.ErrInvalidApplicationStatus)

	resp, err := svc.SetStatus(db, owner(admin), app.ID, string(models.ApplicationStatusApproved))
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationStatusApproved), resp.Status)

	require.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 10*time.Millisecond)
	mailer.mu.Lock()
	assert.Equal(t, []string{"applicant@test.com"}, mailer.to[0])
	assert.Equal(t, "Merit Award", mailer.sent[0]["Scholarship"])
	assert.Equal(t, "Approved", mailer.sent[0]["Status"])
	mailer.mu.Unlock()

	// администратор может вернуть любой статус, в том числе из Withdrawn
	_, err = svc.SetStatus(db, owner(admin), app.ID, string(models.ApplicationStatusWithdrawn))
	require.NoError(t, err)
	_, err = svc.SetStatus(db, owner(admin), app.ID, string(models.ApplicationStatusUnderReview))
	require.NoError(t, err)
}

func TestListAllIncludesApplicantAndScholarship(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newApplicationService(nil)
	admin := helpers.CreateUser(t, db, "admin", "admin@test.com", true)
	user := helpers.CreateUser(t, db, "student", "student@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{Name: "Merit Award", Provider: "Gov"})
	helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusSubmitted)

	_, err := svc.ListAll(db, owner(user))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	list, err := svc.ListAll(db, owner(admin))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].User)
	require.NotNil(t, list[0].Scholarship)
	assert.Equal(t, "student", list[0].User.Username)
	assert.Equal(t, "Gov", list[0].Scholarship.Provider)

	mine, err := svc.ListMine(db, owner(user))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Scholarship)
	assert.Equal(t, "Merit Award", mine[0].Scholarship.Name)
}
