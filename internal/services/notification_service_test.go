package services_test

import (
	"sync"
	"testing"
	"time"

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

// fakeClock - управляемое время для проверки cooldown
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newNotificationService(clock *fakeClock) services.NotificationService {
	return services.NewNotificationService(
		repositories.NewNotificationRepository(),
		repositories.NewUserRepository(),
		services.NotificationConfig{
			Cooldown:  3 * time.Second,
			BatchSize: 2,
			Now:       clock.Now,
		},
	)
}

func countDeliveries(t *testing.T, db *gorm.DB, notificationID string) int64 {
	var n int64
	require.NoError(t, db.Model(&models.UserNotification{}).Where("notification_id = ?", notificationID).Count(&n).Error)
	return n
}

func TestBroadcastCooldown(t *testing.T) {
	db := helpers.NewTestDB(t)
	// рассылка "в будущем", чтобы все пользователи были созданы раньше нее
	clock := &fakeClock{now: time.Now().UTC().Add(time.Hour)}
	svc := newNotificationService(clock)

	admin := helpers.CreateUser(t, db, "admin", "admin@test.com", true)
	helpers.CreateUser(t, db, "u1", "u1@test.com", false)
	helpers.CreateUser(t, db, "u2", "u2@test.com", false)

	first, err := svc.Broadcast(db, owner(admin), &dto.BroadcastRequest{Message: "  Deadline extended  "})
	require.NoError(t, err)
	assert.Equal(t, "Deadline extended", first.Notification.Message)
	assert.Equal(t, int64(3), first.Delivered)
	assert.Equal(t, int64(3), countDeliveries(t, db, first.Notification.ID))

	clock.Advance(time.Second)
	_, err = svc.Broadcast(db, owner(admin), &dto.BroadcastRequest{Message: "too soon"})
	assert.ErrorIs(t, err, apperrors.ErrBroadcastRateLimited)

	var total int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	clock.Advance(3 * time.Second)
	second, err := svc.Broadcast(db, owner(admin), &dto.BroadcastRequest{Message: "later"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), countDeliveries(t, db, second.Notification.ID))

	all, err := svc.ListAll(db, owner(admin))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "later", all[0].Message, "новые первыми")
}

func TestBroadcastValidation(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newNotificationService(&fakeClock{now: time.Now().UTC()})
	admin := helpers.CreateUser(t, db, "admin", "admin@test.com", true)
	user := helpers.CreateUser(t, db, "u1", "u1@test.com", false)

	_, err := svc.Broadcast(db, owner(user), &dto.BroadcastRequest{Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = svc.Broadcast(db, owner(admin), &dto.BroadcastRequest{Message: "   "})
	assert.ErrorIs(t, err, apperrors.ErrEmptyNotification)
}

func TestUserNotificationsOwnershipAndReadState(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := &fakeClock{now: time.Now().UTC().Add(time.Hour)}
	svc := newNotificationService(clock)
	admin := helpers.CreateUser(t, db, "admin", "admin@test.com", true)
	user := helpers.CreateUser(t, db, "u1", "u1@test.com", false)
	other := helpers.CreateUser(t, db, "u2", "u2@test.com", false)

	for _, msg := range []string{"one", "two"} {
		_, err := svc.Broadcast(db, owner(admin), &dto.BroadcastRequest{Message: msg})
		require.NoError(t, err)
		clock.Advance(5 * time.Second)
	}

	_, err := svc.ListForUser(db, owner(other), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationAccessDenied)

	list, err := svc.ListForUser(db, owner(user), user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsRead)

	assert.ErrorIs(t, svc.MarkOne(db, owner(other), list[0].ID), apperrors.ErrNotificationAccessDenied)
	assert.ErrorIs(t, svc.MarkOne(db, owner(user), "missing"), apperrors.ErrNotificationNotFound)
	require.NoError(t, svc.MarkOne(db, owner(user), list[0].ID))
	require.NoError(t, svc.MarkOne(db, owner(user), list[0].ID), "повторная отметка не ошибка")

	res, err := svc.MarkAllForUser(db, owner(user), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	res, err = svc.MarkAllForUser(db, owner(user), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ModifiedCount)

	_, err = svc.MarkAllForUser(db, owner(other), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationAccessDenied)
}

func TestRepairFanoutFillsGaps(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := &fakeClock{now: time.Now().UTC().Add(time.Hour)}
	svc := newNotificationService(clock)
	admin := helpers.CreateUser(t, db, "admin", "admin@test.com", true)
	user := helpers.CreateUser(t, db, "u1", "u1@test.com", false)

	sent, err := svc.Broadcast(db, owner(admin), &dto.BroadcastRequest{Message: "hello"})
	require.NoError(t, err)

	// имитация сбоя: доставка одному пользователю потеряна
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.UserNotification{}).Error)

	_, err = svc.RepairFanout(db, owner(user))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	res, err := svc.RepairFanout(db, owner(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Inserted)
	assert.Equal(t, int64(2), countDeliveries(t, db, sent.Notification.ID))

	again, err := svc.Repair(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again)
}
