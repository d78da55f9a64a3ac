package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"picxury_api/internal/config"
	"picxury_api/internal/logger"
	"picxury_api/internal/models"
	"picxury_api/internal/services"
	"picxury_api/internal/tasks"
)

func main() {
	taskName := flag.String("task_name", "", "Name of the task (mandatory)")
	argsStr := flag.String("arguments", "{}", "JSON arguments for the task")
	dueStr := flag.String("due", "", "Due date (format: 2006-01-02 15:04 or RFC3339, default: now)")
	taskType := flag.String("tasktype", string(models.ScheduledTaskTypeOneTime), "Task type: onetime or recurring")
	recurring := flag.String("recurring", "", "Recurrence rule, e.g. FREQ=DAILY;BYHOUR=8 (recurring tasks)")
	maxAttempt := flag.Int("max_attempt", tasks.DefaultMaxAttempt, "Max attempts per run")
	flag.Parse()

	if *taskName == "" {
		fmt.Println("Usage: schedule_task -task_name <name> [-arguments <json_args>] [-due <YYYY-MM-DD HH:MM>] [options]")
		fmt.Printf("Known tasks: %s, %s, %s\n", models.TaskMarkNotificationsRead, models.TaskSendContactMessage, models.TaskSendSessionReminders)
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, _, err := config.Load()
	logger.Init(cfg.LogMode)
	defer logger.Sync()
	if err != nil {
		logger.Log.Fatalw("invalid configuration", "error", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Log.Fatal("DATABASE_URL is not set")
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(*argsStr), &args); err != nil {
		logger.Log.Fatalw("Invalid JSON arguments", "error", err)
	}

	due, err := parseDue(*dueStr)
	if err != nil {
		logger.Log.Fatalw("Invalid due date format. Use '2006-01-02 15:04' (Local) or RFC3339", "error", err)
	}

	kind := models.ScheduledTaskType(*taskType)
	if kind != models.ScheduledTaskTypeOneTime && kind != models.ScheduledTaskTypeRecurring {
		logger.Log.Fatalw("Unknown task type", "tasktype", *taskType)
	}

	var recurringPtr *string
	if *recurring != "" {
		recurringPtr = recurring
	}
	if kind == models.ScheduledTaskTypeRecurring && recurringPtr == nil {
		logger.Log.Fatal("Recurring tasks need -recurring")
	}

	task, err := tasks.BuildScheduledTask(*taskName, args, due, recurringPtr, kind, *maxAttempt)
	if err != nil {
		logger.Log.Fatalw("Failed to build task", "error", err)
	}
	if task.IsRecurring() && task.NextDue(due).Equal(task.Due) {
		logger.Log.Fatalw("Recurrence rule does not produce future dates", "recurring", *recurring)
	}

	db, err := services.InitDB(cfg.DatabaseURL, cfg.LogMode)
	if err != nil {
		logger.Log.Fatalw("Failed to connect DB", "error", err)
	}
	if err := db.Create(task).Error; err != nil {
		logger.Log.Fatalw("Failed to create task", "error", err)
	}

	fmt.Printf("Successfully created task ID: %d\n", task.ID)
	fmt.Printf("Task: %s\nDue: %s\nType: %s\n", task.TaskName, task.Due, task.TaskType)
}

func parseDue(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if due, err := time.Parse(time.RFC3339, value); err == nil {
		return due, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", value, time.Local)
}
