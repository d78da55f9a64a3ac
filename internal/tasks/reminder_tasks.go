package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"picxury_api/internal/format"
	"picxury_api/internal/logger"
	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

// SessionRemindersArgs configures the reminder run. DaysAhead defaults to 1.
type SessionRemindersArgs struct {
	DaysAhead int `json:"days_ahead"`
}

// SendSessionRemindersTaskDef reminds clients (email) and photographers
// (WhatsApp) of sessions coming up. It is meant to run as a recurring task.
type SendSessionRemindersTaskDef struct {
	mailer    services.Mailer
	messenger services.Messenger
	now       func() time.Time
}

func NewSendSessionRemindersTask(mailer services.Mailer, messenger services.Messenger) *SendSessionRemindersTaskDef {
	return &SendSessionRemindersTaskDef{mailer: mailer, messenger: messenger, now: time.Now}
}

// TaskID returns the unique identifier for this task
func (t *SendSessionRemindersTaskDef) TaskID() string {
	return models.TaskSendSessionReminders
}

// CreateTask builds a daily recurring ScheduledTask starting at due
func (t *SendSessionRemindersTaskDef) CreateTask(args SessionRemindersArgs, due time.Time) (*models.ScheduledTask, error) {
	rule := "FREQ=DAILY"
	return BuildScheduledTask(t.TaskID(), args, due, &rule, models.ScheduledTaskTypeRecurring, DefaultMaxAttempt)
}

// dayBounds returns the UTC start of t's day and of the next one. Session
// dates are stored as UTC midnights.
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// HandleExecution sends one reminder per upcoming session and channel
func (t *SendSessionRemindersTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var args SessionRemindersArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}
	if args.DaysAhead <= 0 {
		args.DaysAhead = 1
	}

	target := t.now().AddDate(0, 0, args.DaysAhead)

	from, to := dayBounds(target)

	var sessions []models.PhotoSession
	err := db.WithContext(ctx).
		Preload("Client").
		Preload("Photographer").
		Where("status = ?", models.SessionStatusToDo).
		Where("date >= ? AND date < ?", from, to).
		Order("start_time").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	emailed, messaged, failureCount := 0, 0, 0
	var failures []string

	for _, s := range sessions {
		if t.mailer != nil && s.Client != nil && s.Client.Email != "" {
			if err := t.mailer.SendEmail([]string{s.Client.Email}, "Recordatorio de sesión fotográfica - Picxury", clientReminder(s), ""); err != nil {
				logger.Log.Errorw("reminder email failed", "session_id", s.ID, "error", err)
				failureCount++
				failures = append(failures, fmt.Sprintf("session %d email: %v", s.ID, err))
			} else {
				emailed++
			}
		}

		if t.messenger != nil && s.Photographer != nil && s.Photographer.PhoneNumber != "" {
			if err := t.messenger.SendMessage(s.Photographer.PhoneNumber, photographerReminder(s)); err != nil {
				logger.Log.Errorw("reminder whatsapp failed", "session_id", s.ID, "error", err)
				failureCount++
				failures = append(failures, fmt.Sprintf("session %d whatsapp: %v", s.ID, err))
			} else {
				messaged++
			}
		}
	}

	result := map[string]interface{}{
		"date":     target.Format("2006-01-02"),
		"sessions": len(sessions),
		"emailed":  emailed,
		"messaged": messaged,
		"failure":  failureCount,
	}
	if failureCount > 0 {
		result["errors"] = failures
		if emailed+messaged == 0 {
			return result, fmt.Errorf("failed to deliver %d reminders", failureCount)
		}
	}

	return result, nil
}

func clientReminder(s models.PhotoSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", s.Client.Name)
	fmt.Fprintf(&b, "Te recordamos tu sesión fotográfica \"%s\"", s.Title)
	if s.Photographer != nil {
		fmt.Fprintf(&b, " con %s", s.Photographer.FullName())
	}
	b.WriteString(".\n\n")
	fmt.Fprintf(&b, "Fecha: %s\n", format.Date(s.Date))
	fmt.Fprintf(&b, "Hora: %s - %s\n", format.ClockTime(s.StartTime), format.ClockTime(s.EndTime))
	fmt.Fprintf(&b, "Lugar: %s, %s, %s\n", s.Address, s.City, s.Department)
	if s.PlaceDescription != nil && *s.PlaceDescription != "" {
		fmt.Fprintf(&b, "Indicaciones: %s\n", *s.PlaceDescription)
	}
	b.WriteString("\nPicxury")
	return b.String()
}

func photographerReminder(s models.PhotoSession) string {
	client := "tu cliente"
	if s.Client != nil {
		client = s.Client.FullName()
	}
	return fmt.Sprintf("Hola %s, recuerda tu sesión \"%s\" con %s el %s a las %s en %s, %s.",
		s.Photographer.Name, s.Title, client, format.Date(s.Date), format.ClockTime(s.StartTime), s.Address, s.City)
}
