package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"picxury_api/internal/models"
)

// DefaultMaxAttempt is used for tasks queued by the API
const DefaultMaxAttempt = 3

// BuildScheduledTask is a helper to build ScheduledTask records generically
func BuildScheduledTask(taskName string, args interface{}, due time.Time, recurringInterval *string, taskType models.ScheduledTaskType, maxAttempt int) (*models.ScheduledTask, error) {
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}

	var mapArgs map[string]interface{}
	if err := json.Unmarshal(argsBytes, &mapArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	return &models.ScheduledTask{
		TaskName:          taskName,
		Arguments:         mapArgs,
		Due:               due,
		RecurringInterval: recurringInterval,
		Status:            models.ScheduledTaskStatusActive,
		TaskType:          taskType,
		MaxAttempt:        maxAttempt,
	}, nil
}

// decodeArgs converts the stored argument map back into a typed struct
func decodeArgs(task models.ScheduledTask, dest interface{}) error {
	argsBytes, err := json.Marshal(task.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal args: %w", err)
	}
	if err := json.Unmarshal(argsBytes, dest); err != nil {
		return fmt.Errorf("failed to unmarshal args: %w", err)
	}
	return nil
}

// Queue writes one-time tasks to the scheduled task table, due immediately.
// The worker picks them up on its next tick.
type Queue struct {
	db  *gorm.DB
	now func() time.Time
}

func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db, now: time.Now}
}

// Enqueue implements services.TaskEnqueuer
func (q *Queue) Enqueue(ctx context.Context, taskName string, args interface{}) error {
	task, err := BuildScheduledTask(taskName, args, q.now(), nil, models.ScheduledTaskTypeOneTime, DefaultMaxAttempt)
	if err != nil {
		return err
	}
	if err := q.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("enqueue %s: %w", taskName, err)
	}
	return nil
}
