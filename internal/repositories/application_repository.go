package repositories

import (
	"errors"

	"scholarhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already exists for this scholarship")
	ErrApplicationDecided   = errors.New("application is already decided")
)

// ownerColumns - колонки, которые владелец может менять в своей заявке
var ownerColumns = []string{
	"bank_name", "account_number", "ifsc", "account_holder", "cgpa", "income",
	"doc_id_proof", "doc_income_cert", "doc_marksheets", "doc_bonafide",
	"updated_at",
}

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	Exists(db *gorm.DB, userID, scholarshipID string) (bool, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Application, error)
	FindAll(db *gorm.DB) ([]models.Application, error)
	FindLatestByUser(db *gorm.DB, userID string) (*models.Application, error)
	UpdateOwnerFields(db *gorm.DB, app *models.Application) error
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error
	CountByScholarship(db *gorm.DB) (map[string]int64, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

// Create - уникальный индекс (user_id, scholarship_id) закрывает гонку двух одновременных подач
func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	if err := db.Omit("User", "Scholarship").Create(app).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	if err := db.First(&app, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) Exists(db *gorm.DB, userID, scholarshipID string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("user_id = ? AND scholarship_id = ?", userID, scholarshipID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Preload("Scholarship").
		Where("user_id = ?", userID).
		Order(NewestFirst.clause()).
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindAll(db *gorm.DB) ([]models.Application, error) {
	var apps []models.Application
	err := db.
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username", "email")
		}).
		Preload("Scholarship", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "provider")
		}).
		Order(NewestFirst.clause()).
		Find(&apps).Error
	return apps, err
}

// FindLatestByUser возвращает nil, nil если у пользователя нет заявок
func (r *ApplicationRepositoryImpl) FindLatestByUser(db *gorm.DB, userID string) (*models.Application, error) {
	var apps []models.Application
	err := db.Where("user_id = ?", userID).
		Order(NewestFirst.clause()).
		Limit(1).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, nil
	}
	return &apps[0], nil
}

// UpdateOwnerFields пишет только поля владельца и только пока заявка не решена.
// Статус из загруженной модели не записывается.
func (r *ApplicationRepositoryImpl) UpdateOwnerFields(db *gorm.DB, app *models.Application) error {
	result := db.Model(app).
		Where("status NOT IN ?", []models.ApplicationStatus{models.ApplicationStatusApproved, models.ApplicationStatusRejected}).
		Select(ownerColumns).
		Updates(app)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationDecided
	}
	return nil
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// CountByScholarship - одно сгруппированное выражение вместо запроса на каждую стипендию
func (r *ApplicationRepositoryImpl) CountByScholarship(db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		ScholarshipID string
		Count         int64
	}
	err := db.Model(&models.Application{}).
		Select("scholarship_id, COUNT(*) AS count").
		Group("scholarship_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ScholarshipID] = row.Count
	}
	return counts, nil
}
