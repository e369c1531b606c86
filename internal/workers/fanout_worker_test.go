package workers_test

import (
	"context"
	"testing"

	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services"
	"scholarhub_backend/internal/workers"
	"scholarhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWorker(db *gorm.DB, schedule string) *workers.FanoutRepairWorker {
	svc := services.NewNotificationService(
		repositories.NewNotificationRepository(),
		repositories.NewUserRepository(),
		services.GetDefaultNotificationConfig(),
	)
	return workers.NewFanoutRepairWorker(db, svc, schedule)
}

func TestRunOnceRepairsMissingDeliveries(t *testing.T) {
	db := helpers.NewTestDB(t)
	helpers.CreateUser(t, db, "anna", "anna@test.com", false)
	helpers.CreateUser(t, db, "bob", "bob@test.com", false)
	require.NoError(t, db.Create(&models.Notification{Message: "lost fan-out"}).Error)

	w := newWorker(db, "")
	assert.Equal(t, int64(2), w.RunOnce(context.Background()))
	assert.Zero(t, w.RunOnce(context.Background()), "повторный проход ничего не добавляет")
}

func TestStartSchedule(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, newWorker(db, "").Start(ctx))
	assert.ErrorContains(t, newWorker(db, "not a schedule").Start(ctx), "invalid repair schedule")
	assert.NoError(t, newWorker(db, "@every 1h").Start(ctx))
}
