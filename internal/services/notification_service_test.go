package services

import (
	"context"
	"errors"
	"testing"

	"picxury_api/internal/models"
	"picxury_api/internal/testutil"
)

func createNotification(t *testing.T, svc *NotificationService, photographerID, sessionID uint, typ models.NotificationType, read bool) models.Notification {
	t.Helper()
	n := models.Notification{PhotographerID: photographerID, PhotoSessionID: sessionID, Type: typ, Title: string(typ), IsRead: read}
	if err := svc.db.Create(&n).Error; err != nil {
		t.Fatalf("create notification: %v", err)
	}
	return n
}

func TestNotificationListQueuesMarkRead(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, testPhotoServiceID)
	client := testutil.Client(t, db, "laura@example.com")
	session := testutil.Session(t, db, f.Photographer.ID, client, models.SessionStatusWaiting)
	queue := &recordingQueue{}
	svc := NewNotificationService(db, queue)

	request := createNotification(t, svc, f.Photographer.ID, session.ID, models.NotificationTypeRequest, false)
	unread := createNotification(t, svc, f.Photographer.ID, session.ID, models.NotificationTypeSelection, false)
	createNotification(t, svc, f.Photographer.ID, session.ID, models.NotificationTypeSelection, true)
	createNotification(t, svc, f.Photographer.ID+1, session.ID, models.NotificationTypeSelection, false)

	list, err := svc.List(ctx, f.Photographer.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("notifications = %d; want 3", len(list))
	}
	for _, n := range list {
		if n.ID == unread.ID && n.IsRead {
			t.Error("listed notification already read; marking must happen in the background")
		}
	}

	if len(queue.tasks) != 1 || queue.tasks[0].name != models.TaskMarkNotificationsRead {
		t.Fatalf("queued = %+v; want one mark read task", queue.tasks)
	}
	args, ok := queue.tasks[0].args.(MarkNotificationsReadArgs)
	if !ok || len(args.IDs) != 1 || args.IDs[0] != unread.ID {
		t.Errorf("args = %+v; want ids [%d]", queue.tasks[0].args, unread.ID)
	}

	n, err := svc.MarkRead(ctx, args.IDs)
	if err != nil || n != 1 {
		t.Fatalf("MarkRead() = %d, %v; want 1", n, err)
	}
	var stored models.Notification
	db.First(&stored, unread.ID)
	if !stored.IsRead {
		t.Error("notification still unread after MarkRead")
	}
	var requestNote models.Notification
	if err := db.First(&requestNote, request.ID).Error; err != nil {
		t.Fatalf("load request notification: %v", err)
	}
	if requestNote.IsRead {
		t.Error("request notification must stay unread")
	}
}

func TestNotificationListWithoutUnreadSkipsQueue(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, testPhotoServiceID)
	queue := &recordingQueue{}

	if _, err := NewNotificationService(db, queue).List(context.Background(), f.Photographer.ID); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(queue.tasks) != 0 {
		t.Errorf("queued = %d; want 0", len(queue.tasks))
	}
}

func TestNotificationShow(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, testPhotoServiceID)
	client := testutil.Client(t, db, "laura@example.com")
	session := testutil.Session(t, db, f.Photographer.ID, client, models.SessionStatusRequested,
		testutil.Line(f.ProfessionalPhoto, 2))
	svc := NewNotificationService(db, nil)
	n := createNotification(t, svc, f.Photographer.ID, session.ID, models.NotificationTypeRequest, false)

	detail, err := svc.Show(ctx, f.Photographer.ID, n.ID)
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if detail.Session.Client == nil || detail.Session.Type == nil || len(detail.Session.Services) != 1 {
		t.Errorf("session = %+v; want client, type and services", detail.Session)
	}

	if _, err := svc.Show(ctx, f.Photographer.ID+1, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Show() by other photographer error = %v; want ErrNotFound", err)
	}
}

func TestNotificationDecide(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		decision   models.PhotographerDecision
		wantStatus models.SessionStatus
	}{
		{decision: models.DecisionAccepted, wantStatus: models.SessionStatusToDo},
		{decision: models.DecisionRejected, wantStatus: models.SessionStatusRejected},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			db := testutil.NewDB(t)
			f := testutil.Seed(t, db, testPhotoServiceID)
			client := testutil.Client(t, db, "laura@example.com")
			session := testutil.Session(t, db, f.Photographer.ID, client, models.SessionStatusRequested)
			svc := NewNotificationService(db, nil)
			n := createNotification(t, svc, f.Photographer.ID, session.ID, models.NotificationTypeRequest, false)

			decided, err := svc.Decide(ctx, f.Photographer.ID, n.ID, tt.decision)
			if err != nil {
				t.Fatalf("Decide() error = %v", err)
			}
			if decided.Status != tt.wantStatus {
				t.Errorf("Status = %q; want %q", decided.Status, tt.wantStatus)
			}

			var stored models.PhotoSession
			db.First(&stored, session.ID)
			if stored.PhotographerDecision == nil || *stored.PhotographerDecision != tt.decision {
				t.Errorf("PhotographerDecision = %v; want %s", stored.PhotographerDecision, tt.decision)
			}
			var storedNotification models.Notification
			db.First(&storedNotification, n.ID)
			if !storedNotification.IsRead {
				t.Error("notification not marked read")
			}
		})
	}
}

func TestNotificationDecideErrors(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, testPhotoServiceID)
	svc := NewNotificationService(db, nil)

	if _, err := svc.Decide(ctx, f.Photographer.ID, 1, "maybe"); err == nil {
		t.Error("Decide(maybe) error = nil; want validation error")
	}
	if _, err := svc.Decide(ctx, f.Photographer.ID, 999, models.DecisionAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("Decide(999) error = %v; want ErrNotFound", err)
	}
}
