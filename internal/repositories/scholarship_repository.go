package repositories

import (
	"errors"

	"scholarhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrScholarshipNotFound = errors.New("scholarship not found")

type ScholarshipRepository interface {
	Create(db *gorm.DB, scholarship *models.Scholarship) error
	FindByID(db *gorm.DB, id string) (*models.Scholarship, error)
	FindAll(db *gorm.DB) ([]models.Scholarship, error)
	FindActive(db *gorm.DB, order SortOrder) ([]models.Scholarship, error)
	Update(db *gorm.DB, scholarship *models.Scholarship) error
	Delete(db *gorm.DB, id string) error
}

type ScholarshipRepositoryImpl struct{}

func NewScholarshipRepository() ScholarshipRepository {
	return &ScholarshipRepositoryImpl{}
}

func (r *ScholarshipRepositoryImpl) Create(db *gorm.DB, scholarship *models.Scholarship) error {
	return db.Create(scholarship).Error
}

func (r *ScholarshipRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Scholarship, error) {
	var s models.Scholarship
	if err := db.First(&s, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScholarshipRepositoryImpl) FindAll(db *gorm.DB) ([]models.Scholarship, error) {
	var list []models.Scholarship
	err := db.Order(NewestFirst.clause()).Find(&list).Error
	return list, err
}

// FindActive - только Active; OldestFirst дает порядок создания (нужен скорингу)
func (r *ScholarshipRepositoryImpl) FindActive(db *gorm.DB, order SortOrder) ([]models.Scholarship, error) {
	var list []models.Scholarship
	err := db.Where("status = ?", models.ScholarshipStatusActive).
		Order(order.clause()).
		Find(&list).Error
	return list, err
}

func (r *ScholarshipRepositoryImpl) Update(db *gorm.DB, scholarship *models.Scholarship) error {
	return db.Save(scholarship).Error
}

func (r *ScholarshipRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Scholarship{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScholarshipNotFound
	}
	return nil
}
