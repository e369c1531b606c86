package services

import (
	"errors"
	"strings"
	"time"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/metrics"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	// Администратор
	Broadcast(db *gorm.DB, principal auth.Principal, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error)
	ListAll(db *gorm.DB, principal auth.Principal) ([]*dto.NotificationResponse, error)
	RepairFanout(db *gorm.DB, principal auth.Principal) (*dto.RepairResponse, error)

	// Владелец
	ListForUser(db *gorm.DB, principal auth.Principal, userID string) ([]*dto.UserNotificationResponse, error)
	MarkOne(db *gorm.DB, principal auth.Principal, userNotificationID string) error
	MarkAllForUser(db *gorm.DB, principal auth.Principal, userID string) (*dto.MarkAllReadResponse, error)

	// Repair без проверки прав, для планировщика
	Repair(db *gorm.DB) (int64, error)
}

type NotificationConfig struct {
	Cooldown  time.Duration
	BatchSize int
	Now       func() time.Time
}

func GetDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Cooldown:  3 * time.Second,
		BatchSize: 100,
		Now:       time.Now,
	}
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	config           NotificationConfig
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	config NotificationConfig,
) NotificationService {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		config:           config,
	}
}

// Broadcast создает уведомление и раздает его всем пользователям.
// Проверка cooldown и вставка идут под замком broadcast_locks в одной транзакции.
func (s *NotificationServiceImpl) Broadcast(db *gorm.DB, principal auth.Principal, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error) {
	ctx := db.Statement.Context

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperrors.ErrEmptyNotification
	}

	now := s.config.Now().UTC()
	notification := &models.Notification{Message: message, CreatedAt: now}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.notificationRepo.AcquireBroadcastLock(tx, now); err != nil {
			return apperrors.DatabaseError(err)
		}

		latest, err := s.notificationRepo.FindLatest(tx)
		if err != nil {
			return apperrors.DatabaseError(err)
		}
		if latest != nil && now.Sub(latest.CreatedAt) < s.config.Cooldown {
			wait := s.config.Cooldown - now.Sub(latest.CreatedAt)
			return apperrors.ErrBroadcastRateLimited.WithDetails(map[string]int64{"retry_after_ms": wait.Milliseconds()})
		}

		if err := s.notificationRepo.Create(tx, notification); err != nil {
			return apperrors.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrBroadcastRateLimited) {
			metrics.RecordBroadcast("rate_limited")
			logger.CtxWarn(ctx, "Broadcast rejected by cooldown")
		} else {
			metrics.RecordBroadcast("error")
		}
		return nil, err
	}

	metrics.RecordBroadcast("ok")
	logger.CtxInfo(ctx, "Notification broadcast created", "notification_id", notification.ID)

	// после коммита: ошибка доставки не откатывает уведомление
	delivered, err := s.fanout(db, notification)
	if err != nil {
		metrics.RecordFanoutFailure()
		logger.CtxWithError(ctx, "Notification fan-out failed", err, "notification_id", notification.ID)
	}

	return &dto.BroadcastResponse{
		Notification: buildNotificationResponse(notification),
		Delivered:    delivered,
	}, nil
}

func (s *NotificationServiceImpl) fanout(db *gorm.DB, n *models.Notification) (int64, error) {
	userIDs, err := s.userRepo.ListIDs(db)
	if err != nil {
		return 0, err
	}

	inserted, err := s.notificationRepo.CreateDeliveries(db, n.ID, userIDs, s.config.BatchSize)
	metrics.RecordDeliveries("broadcast", inserted)
	return inserted, err
}

func (s *NotificationServiceImpl) ListAll(db *gorm.DB, principal auth.Principal) ([]*dto.NotificationResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	list, err := s.notificationRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := make([]*dto.NotificationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, buildNotificationResponse(&list[i]))
	}
	return resp, nil
}

func (s *NotificationServiceImpl) RepairFanout(db *gorm.DB, principal auth.Principal) (*dto.RepairResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	inserted, err := s.Repair(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &dto.RepairResponse{Inserted: inserted}, nil
}

// Repair досоздает недостающие доставки для пользователей, существовавших
// на момент рассылки. Повторный запуск ничего не вставит.
func (s *NotificationServiceImpl) Repair(db *gorm.DB) (int64, error) {
	notifications, err := s.notificationRepo.FindAll(db)
	if err != nil {
		return 0, err
	}

	var total int64
	for i := range notifications {
		n := &notifications[i]
		userIDs, err := s.notificationRepo.FindUndeliveredUserIDs(db, n)
		if err != nil {
			return total, err
		}
		if len(userIDs) == 0 {
			continue
		}

		inserted, err := s.notificationRepo.CreateDeliveries(db, n.ID, userIDs, s.config.BatchSize)
		total += inserted
		if err != nil {
			return total, err
		}
	}

	metrics.RecordDeliveries("repair", total)
	if total > 0 {
		logger.CtxInfo(db.Statement.Context, "Notification fan-out repaired", "inserted", total)
	}
	return total, nil
}

func (s *NotificationServiceImpl) ListForUser(db *gorm.DB, principal auth.Principal, userID string) ([]*dto.UserNotificationResponse, error) {
	if !principal.Owns(userID) {
		return nil, apperrors.ErrNotificationAccessDenied
	}

	list, err := s.notificationRepo.FindForUser(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := make([]*dto.UserNotificationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, buildUserNotificationResponse(&list[i]))
	}
	return resp, nil
}

// MarkOne идемпотентен: уже прочитанная запись не меняется
func (s *NotificationServiceImpl) MarkOne(db *gorm.DB, principal auth.Principal, userNotificationID string) error {
	un, err := s.notificationRepo.FindUserNotificationByID(db, userNotificationID)
	if err != nil {
		return handleNotificationError(err)
	}
	if !principal.Owns(un.UserID) {
		return apperrors.ErrNotificationAccessDenied
	}

	if _, err := s.notificationRepo.MarkRead(db, un.ID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllForUser(db *gorm.DB, principal auth.Principal, userID string) (*dto.MarkAllReadResponse, error) {
	if !principal.Owns(userID) {
		return nil, apperrors.ErrNotificationAccessDenied
	}

	modified, err := s.notificationRepo.MarkAllRead(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &dto.MarkAllReadResponse{ModifiedCount: modified}, nil
}
