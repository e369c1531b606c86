package repositories_test

import (
	"testing"
	"time"

	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryEmailTaken(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewUserRepository()
	u := helpers.CreateUser(t, db, "anna", "anna@test.com", false)

	taken, err := repo.EmailTaken(db, "anna@test.com", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(db, "anna@test.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "собственный email не считается занятым")

	_, err = repo.FindByID(db, "missing")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestScholarshipRepositoryFindActiveOrder(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewScholarshipRepository()
	base := time.Now().UTC().Add(-time.Hour)

	first := helpers.CreateScholarship(t, db, &models.Scholarship{Name: "First", BaseModel: models.BaseModel{CreatedAt: base}})
	helpers.CreateScholarship(t, db, &models.Scholarship{Name: "Hidden", Status: models.ScholarshipStatusInactive, BaseModel: models.BaseModel{CreatedAt: base.Add(time.Minute)}})
	second := helpers.CreateScholarship(t, db, &models.Scholarship{Name: "Second", BaseModel: models.BaseModel{CreatedAt: base.Add(2 * time.Minute)}})

	oldest, err := repo.FindActive(db, repositories.OldestFirst)
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, first.ID, oldest[0].ID)
	assert.Equal(t, second.ID, oldest[1].ID)

	newest, err := repo.FindActive(db, repositories.NewestFirst)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, second.ID, newest[0].ID)

	assert.ErrorIs(t, repo.Delete(db, "missing"), repositories.ErrScholarshipNotFound)
}

func TestApplicationRepository(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewApplicationRepository()
	user := helpers.CreateUser(t, db, "ivan", "ivan@test.com", false)
	s1 := helpers.CreateScholarship(t, db, &models.Scholarship{})
	s2 := helpers.CreateScholarship(t, db, &models.Scholarship{})

	latest, err := repo.FindLatestByUser(db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	older := &models.Application{UserID: user.ID, ScholarshipID: s1.ID, BaseModel: models.BaseModel{CreatedAt: time.Now().UTC().Add(-time.Hour)}}
	require.NoError(t, repo.Create(db, older))
	newer := &models.Application{UserID: user.ID, ScholarshipID: s2.ID}
	require.NoError(t, repo.Create(db, newer))
	assert.Equal(t, models.ApplicationStatusSubmitted, older.Status)

	exists, err := repo.Exists(db, user.ID, s1.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	latest, err = repo.FindLatestByUser(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.ID, latest.ID)

	mine, err := repo.FindByUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.NotNil(t, mine[0].Scholarship)

	require.NoError(t, repo.UpdateStatus(db, older.ID, models.ApplicationStatusApproved))
	reloaded, err := repo.FindByID(db, older.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, reloaded.Status)
	assert.ErrorIs(t, repo.UpdateStatus(db, "missing", models.ApplicationStatusApproved), repositories.ErrApplicationNotFound)

	counts, err := repo.CountByScholarship(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[s1.ID])
	assert.Equal(t, int64(1), counts[s2.ID])
}

func TestApplicationRepositoryUpdateOwnerFields(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewApplicationRepository()
	user := helpers.CreateUser(t, db, "ivan", "ivan@test.com", false)
	s := helpers.CreateScholarship(t, db, &models.Scholarship{})
	app := helpers.CreateApplication(t, db, user.ID, s.ID, models.ApplicationStatusSubmitted)

	// модель загружена со статусом Submitted, в базе статус уже другой
	require.NoError(t, repo.UpdateStatus(db, app.ID, models.ApplicationStatusUnderReview))
	app.BankName = "New Bank"
	app.FullName = "Changed Name"
	app.Documents.Marksheets = []string{"/uploads/m1.pdf"}
	require.NoError(t, repo.UpdateOwnerFields(db, app))

	stored, err := repo.FindByID(db, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusUnderReview, stored.Status)
	assert.Equal(t, "New Bank", stored.BankName)
	assert.Equal(t, "Test Applicant", stored.FullName, "анкета владельцем не меняется")
	assert.Equal(t, []string{"/uploads/m1.pdf"}, []string(stored.Documents.Marksheets))

	require.NoError(t, repo.UpdateStatus(db, app.ID, models.ApplicationStatusApproved))
	app.BankName = "Late Bank"
	assert.ErrorIs(t, repo.UpdateOwnerFields(db, app), repositories.ErrApplicationDecided)

	stored, err = repo.FindByID(db, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, stored.Status)
	assert.Equal(t, "New Bank", stored.BankName)
}

func TestNotificationRepositoryDeliveries(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewNotificationRepository()
	a := helpers.CreateUser(t, db, "a", "a@test.com", false)
	b := helpers.CreateUser(t, db, "b", "b@test.com", false)
	c := helpers.CreateUser(t, db, "c", "c@test.com", false)

	n := &models.Notification{Message: "hello", CreatedAt: time.Now().UTC().Add(time.Minute)}
	require.NoError(t, repo.Create(db, n))

	inserted, err := repo.CreateDeliveries(db, n.ID, []string{a.ID, b.ID}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	missing, err := repo.FindUndeliveredUserIDs(db, n)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, missing)

	list, err := repo.FindForUser(db, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Notification)
	assert.Equal(t, "hello", list[0].Notification.Message)

	changed, err := repo.MarkRead(db, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
	changed, err = repo.MarkRead(db, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed, "повторная отметка ничего не меняет")

	changed, err = repo.MarkAllRead(db, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	require.NoError(t, repo.DeleteForUser(db, a.ID))
	list, err = repo.FindForUser(db, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.FindUserNotificationByID(db, "missing")
	assert.ErrorIs(t, err, repositories.ErrUserNotificationNotFound)
}

func TestNotificationRepositoryLatestAndLock(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewNotificationRepository()

	latest, err := repo.FindLatest(db)
	require.NoError(t, err)
	assert.Nil(t, latest)

	now := time.Now().UTC()
	require.NoError(t, repo.AcquireBroadcastLock(db, now))

	require.NoError(t, repo.Create(db, &models.Notification{Message: "old", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(db, &models.Notification{Message: "new", CreatedAt: now}))

	latest, err = repo.FindLatest(db)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "new", latest.Message)
}
