package workers

import (
	"context"
	"fmt"
	"time"

	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const fanoutWorkerName = "fanout_repair"

// FanoutRepairWorker по расписанию досоздает доставки уведомлений,
// потерянные при сбое рассылки.
type FanoutRepairWorker struct {
	db            *gorm.DB
	notifications services.NotificationService
	schedule      string
	cron          *cron.Cron
}

func NewFanoutRepairWorker(db *gorm.DB, notifications services.NotificationService, schedule string) *FanoutRepairWorker {
	return &FanoutRepairWorker{
		db:            db,
		notifications: notifications,
		schedule:      schedule,
		cron:          cron.New(),
	}
}

// Start регистрирует задачу и останавливает планировщик при отмене ctx.
// Пустое расписание отключает воркер.
func (w *FanoutRepairWorker) Start(ctx context.Context) error {
	if w.schedule == "" {
		logger.Info("Fan-out repair worker disabled")
		return nil
	}

	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid repair schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	logger.Info("Fan-out repair worker started", "schedule", w.schedule)

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		logger.Info("Fan-out repair worker stopped")
	}()
	return nil
}

// RunOnce - один проход починки
func (w *FanoutRepairWorker) RunOnce(ctx context.Context) int64 {
	start := time.Now()
	inserted, err := w.notifications.Repair(w.db.WithContext(ctx))
	logger.WorkerLog(fanoutWorkerName, "repair", time.Since(start), err)
	return inserted
}
