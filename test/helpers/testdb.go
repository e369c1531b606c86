package helpers

import (
	"fmt"
	"testing"

	"scholarhub_backend/database"
	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DefaultPassword - пароль пользователей, созданных фикстурами
const DefaultPassword = "password123"

// NewTestDB открывает отдельную in-memory sqlite базу на каждый тест и мигрирует схему
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// одно соединение: in-memory база живет, пока оно открыто
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "Не удалось выполнить миграцию")
	return db
}

// CreateUser создает пользователя с паролем DefaultPassword
func CreateUser(t *testing.T, db *gorm.DB, username, email string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя %s", email)
	return user
}

// CreateScholarship - пустые поля заполняются значениями по умолчанию
func CreateScholarship(t *testing.T, db *gorm.DB, s *models.Scholarship) *models.Scholarship {
	t.Helper()

	if s.Name == "" {
		s.Name = "Scholarship " + uuid.NewString()[:8]
	}
	if s.Provider == "" {
		s.Provider = "Test Foundation"
	}
	require.NoError(t, db.Create(s).Error, "Не удалось создать стипендию")
	return s
}

// CreateApplication создает заявку пользователя на стипендию
func CreateApplication(t *testing.T, db *gorm.DB, userID, scholarshipID string, status models.ApplicationStatus) *models.Application {
	t.Helper()

	app := &models.Application{
		UserID:        userID,
		ScholarshipID: scholarshipID,
		FullName:      "Test Applicant",
		Email:         "applicant@test.com",
		BankName:      "Old Bank",
		IFSC:          "OLD0001",
		CGPA:          7.5,
		Income:        500000,
		Status:        status,
	}
	require.NoError(t, db.Create(app).Error, "Не удалось создать заявку")
	return app
}
