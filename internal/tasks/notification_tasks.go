package tasks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

// MarkNotificationsReadTaskDef flags Selección notifications as read after
// the photographer listed them
type MarkNotificationsReadTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *MarkNotificationsReadTaskDef) TaskID() string {
	return models.TaskMarkNotificationsRead
}

// CreateTask builds a ScheduledTask record for this task
func (t *MarkNotificationsReadTaskDef) CreateTask(args services.MarkNotificationsReadArgs) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, time.Now(), nil, models.ScheduledTaskTypeOneTime, DefaultMaxAttempt)
}

// HandleExecution marks the notifications listed in the arguments as read
func (t *MarkNotificationsReadTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var args services.MarkNotificationsReadArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}

	if len(args.IDs) == 0 {
		return map[string]interface{}{"status": "skipped", "updated": 0}, nil
	}

	updated, err := services.NewNotificationService(db, nil).MarkRead(ctx, args.IDs)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status":    "success",
		"requested": len(args.IDs),
		"updated":   updated,
	}, nil
}

// MarkNotificationsReadTask is the singleton instance of MarkNotificationsReadTaskDef
var MarkNotificationsReadTask = &MarkNotificationsReadTaskDef{}
