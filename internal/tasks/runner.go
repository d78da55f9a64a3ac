package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"picxury_api/internal/logger"
	"picxury_api/internal/models"
)

// tickLockKey guards a tick so only one worker replica processes due tasks
const tickLockKey = "worker:scheduled_tasks:tick"

// Locker takes a short-lived exclusive lock, e.g. a Redis SETNX
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

// Runner executes due scheduled tasks and records their history
type Runner struct {
	db       *gorm.DB
	registry *Registry
	locker   Locker
	lockTTL  time.Duration
	now      func() time.Time
}

// NewRunner builds a runner. locker may be nil when a single worker runs.
func NewRunner(db *gorm.DB, registry *Registry, locker Locker, lockTTL time.Duration) *Runner {
	return &Runner{
		db:       db,
		registry: registry,
		locker:   locker,
		lockTTL:  lockTTL,
		now:      time.Now,
	}
}

// Tick runs every active task whose due time has passed. It returns the
// number of tasks processed.
func (r *Runner) Tick(ctx context.Context) (int, error) {
	if r.locker != nil {
		owner, _ := os.Hostname()
		acquired, err := r.locker.SetNX(ctx, tickLockKey, owner, r.lockTTL)
		if err != nil {
			logger.Log.Warnw("tick lock unavailable, running anyway", "error", err)
		} else if !acquired {
			logger.Log.Infow("another worker holds the tick lock")
			return 0, nil
		}
	}

	var pendingTasks []models.ScheduledTask
	err := r.db.WithContext(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, r.now()).
		Order("due").
		Find(&pendingTasks).Error
	if err != nil {
		return 0, fmt.Errorf("fetch pending tasks: %w", err)
	}

	if len(pendingTasks) == 0 {
		return 0, nil
	}
	logger.Log.Infow("processing pending tasks", "count", len(pendingTasks))

	processed := 0
	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		r.Execute(ctx, task)
		processed++
	}
	return processed, nil
}

// Execute runs one task, retrying up to MaxAttempt times within the same
// tick, and moves it to its next state. Every attempt leaves a history row.
func (r *Runner) Execute(ctx context.Context, task models.ScheduledTask) {
	handler, found := r.registry.Get(task.TaskName)
	if !found {
		logger.Log.Errorw("task handler not found", "task", task.TaskName, "task_id", task.ID)
		now := r.now()
		r.record(ctx, task, now, 0, "handler_not_found", 1, map[string]interface{}{"error": "Handler not found"})
		r.update(ctx, task, map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		return
	}

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}

	var startTime time.Time
	succeeded := false
	for attempt := 1; attempt <= maxAttempt; attempt++ {
		startTime = r.now()
		result, err := handler(ctx, r.db.WithContext(ctx), task)
		runtimeMs := int(r.now().Sub(startTime).Milliseconds())

		if err != nil {
			logger.Log.Errorw("task failed", "task", task.TaskName, "task_id", task.ID, "attempt", attempt, "error", err)
			if result == nil {
				result = map[string]interface{}{}
			}
			result["error"] = err.Error()
			r.record(ctx, task, startTime, runtimeMs, "failure", attempt, result)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		logger.Log.Infow("task completed", "task", task.TaskName, "task_id", task.ID, "attempt", attempt)
		r.record(ctx, task, startTime, runtimeMs, "success", attempt, result)
		succeeded = true
		break
	}

	updates := map[string]interface{}{"last_run": &startTime}
	switch {
	case task.IsRecurring():
		// A failed run does not stop the schedule; the next occurrence retries.
		nextDue := task.NextDue(r.now())
		if nextDue.After(task.Due) {
			updates["status"] = models.ScheduledTaskStatusActive
			updates["due"] = nextDue
		} else if succeeded {
			updates["status"] = models.ScheduledTaskStatusDone
		} else {
			updates["status"] = models.ScheduledTaskStatusFailure
		}
	case succeeded:
		updates["status"] = models.ScheduledTaskStatusDone
	default:
		updates["status"] = models.ScheduledTaskStatusFailure
	}

	r.update(ctx, task, updates)
}

func (r *Runner) record(ctx context.Context, task models.ScheduledTask, runAt time.Time, runtimeMs int, status string, attempt int, result map[string]interface{}) {
	history := models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           runAt,
		Runtime:         runtimeMs,
		Status:          status,
		AttemptNumber:   attempt,
		Arguments:       task.Arguments,
		Result:          result,
	}
	if err := r.db.WithContext(ctx).Create(&history).Error; err != nil {
		logger.Log.Errorw("failed to record task history", "task_id", task.ID, "error", err)
	}
}

func (r *Runner) update(ctx context.Context, task models.ScheduledTask, updates map[string]interface{}) {
	if err := r.db.WithContext(ctx).Model(&models.ScheduledTask{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
		logger.Log.Errorw("failed to update task", "task_id", task.ID, "error", err)
	}
}
