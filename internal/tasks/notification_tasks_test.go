package tasks

import (
	"context"
	"testing"

	"picxury_api/internal/models"
	"picxury_api/internal/services"
	"picxury_api/internal/testutil"
)

func TestMarkNotificationsReadTask(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, 5)
	client := testutil.Client(t, db, "laura@example.com")
	session := testutil.Session(t, db, f.Photographer.ID, client, models.SessionStatusWaiting)

	var ids []uint
	for i := 0; i < 3; i++ {
		n := models.Notification{PhotographerID: f.Photographer.ID, PhotoSessionID: session.ID, Type: models.NotificationTypeSelection, Title: "Selección"}
		db.Create(&n)
		ids = append(ids, n.ID)
	}

	task, err := MarkNotificationsReadTask.CreateTask(services.MarkNotificationsReadArgs{IDs: ids[:2]})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	result, err := MarkNotificationsReadTask.HandleExecution(context.Background(), db, *task)
	if err != nil {
		t.Fatalf("HandleExecution() error = %v", err)
	}
	if result["updated"] != int64(2) {
		t.Errorf("updated = %v; want 2", result["updated"])
	}

	var read int64
	db.Model(&models.Notification{}).Where("is_read = ?", true).Count(&read)
	if read != 2 {
		t.Errorf("read notifications = %d; want 2", read)
	}
}

func TestMarkNotificationsReadTaskWithoutIDs(t *testing.T) {
	db := testutil.NewDB(t)

	result, err := MarkNotificationsReadTask.HandleExecution(context.Background(), db, models.ScheduledTask{Arguments: map[string]interface{}{}})
	if err != nil {
		t.Fatalf("HandleExecution() error = %v", err)
	}
	if result["status"] != "skipped" {
		t.Errorf("status = %v; want skipped", result["status"])
	}
}
