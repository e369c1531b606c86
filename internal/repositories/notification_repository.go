package repositories

import (
	"errors"
	"time"

	"scholarhub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrUserNotificationNotFound = errors.New("user notification not found")
)

type NotificationRepository interface {
	// Broadcast (вызываются внутри одной транзакции)
	AcquireBroadcastLock(tx *gorm.DB, now time.Time) error
	FindLatest(tx *gorm.DB) (*models.Notification, error)
	Create(tx *gorm.DB, n *models.Notification) error

	FindAll(db *gorm.DB) ([]models.Notification, error)

	// Доставка
	CreateDeliveries(db *gorm.DB, notificationID string, userIDs []string, batchSize int) (int64, error)
	FindUndeliveredUserIDs(db *gorm.DB, n *models.Notification) ([]string, error)

	// Пользовательские уведомления
	FindForUser(db *gorm.DB, userID string) ([]models.UserNotification, error)
	FindUserNotificationByID(db *gorm.DB, id string) (*models.UserNotification, error)
	MarkRead(db *gorm.DB, id string) (int64, error)
	MarkAllRead(db *gorm.DB, userID string) (int64, error)
	DeleteForUser(db *gorm.DB, userID string) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

// AcquireBroadcastLock берет блокировку строки broadcast_locks до конца транзакции.
// UPDATE блокирует строку на postgres и mysql, на sqlite - всю базу на запись.
func (r *NotificationRepositoryImpl) AcquireBroadcastLock(tx *gorm.DB, now time.Time) error {
	update := func() (int64, error) {
		res := tx.Model(&models.BroadcastLock{}).
			Where("name = ?", models.BroadcastLockName).
			Update("acquired_at", now)
		return res.RowsAffected, res.Error
	}

	rows, err := update()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// строки нет (база без миграции) - создаем и повторяем
	lock := models.BroadcastLock{Name: models.BroadcastLockName, AcquiredAt: now}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock).Error; err != nil && !isDuplicateKey(err) {
		return err
	}
	_, err = update()
	return err
}

// FindLatest возвращает nil, nil если уведомлений еще не было
func (r *NotificationRepositoryImpl) FindLatest(tx *gorm.DB) (*models.Notification, error) {
	var list []models.Notification
	if err := tx.Order(NewestFirst.clause()).Limit(1).Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *NotificationRepositoryImpl) Create(tx *gorm.DB, n *models.Notification) error {
	return tx.Create(n).Error
}

func (r *NotificationRepositoryImpl) FindAll(db *gorm.DB) ([]models.Notification, error) {
	var list []models.Notification
	err := db.Order(NewestFirst.clause()).Find(&list).Error
	return list, err
}

// CreateDeliveries вставляет непрочитанные UserNotification пачками.
// Уже существующие пары (user_id, notification_id) пропускаются.
func (r *NotificationRepositoryImpl) CreateDeliveries(db *gorm.DB, notificationID string, userIDs []string, batchSize int) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	rows := make([]models.UserNotification, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, models.UserNotification{
			UserID:         userID,
			NotificationID: notificationID,
		})
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, batchSize)
	return result.RowsAffected, result.Error
}

// FindUndeliveredUserIDs - пользователи, существовавшие на момент рассылки, но без доставки
func (r *NotificationRepositoryImpl) FindUndeliveredUserIDs(db *gorm.DB, n *models.Notification) ([]string, error) {
	var ids []string
	err := db.Model(&models.User{}).
		Where("created_at <= ?", n.CreatedAt).
		Where("NOT EXISTS (SELECT 1 FROM user_notifications un WHERE un.user_id = users.id AND un.notification_id = ?)", n.ID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *NotificationRepositoryImpl) FindForUser(db *gorm.DB, userID string) ([]models.UserNotification, error) {
	var list []models.UserNotification
	err := db.Preload("Notification").
		Where("user_id = ?", userID).
		Order(NewestFirst.clause()).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepositoryImpl) FindUserNotificationByID(db *gorm.DB, id string) (*models.UserNotification, error) {
	var un models.UserNotification
	if err := db.First(&un, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotificationNotFound
		}
		return nil, err
	}
	return &un, nil
}

// MarkRead меняет только непрочитанную запись, повторный вызов вернет 0
func (r *NotificationRepositoryImpl) MarkRead(db *gorm.DB, id string) (int64, error) {
	result := db.Model(&models.UserNotification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) MarkAllRead(db *gorm.DB, userID string) (int64, error) {
	result := db.Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteForUser(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.UserNotification{}).Error
}
