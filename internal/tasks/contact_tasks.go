package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"picxury_api/internal/logger"
	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

// ContactMessageArgs is a message left on the public contact form
type ContactMessageArgs struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendContactMessageTaskDef mails contact form messages to the site inbox
type SendContactMessageTaskDef struct {
	mailer services.Mailer
	to     string
}

func NewSendContactMessageTask(mailer services.Mailer, to string) *SendContactMessageTaskDef {
	return &SendContactMessageTaskDef{mailer: mailer, to: to}
}

// TaskID returns the unique identifier for this task
func (t *SendContactMessageTaskDef) TaskID() string {
	return models.TaskSendContactMessage
}

// CreateTask builds a ScheduledTask record for this task
func (t *SendContactMessageTaskDef) CreateTask(args ContactMessageArgs) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, time.Now(), nil, models.ScheduledTaskTypeOneTime, DefaultMaxAttempt)
}

// ContactSubject is the subject line of a forwarded contact message
func ContactSubject(subject string) string {
	return "Mensaje de Contacto - Picxury | " + subject
}

// ContactBody renders the forwarded contact message
func ContactBody(args ContactMessageArgs) string {
	var b strings.Builder
	b.WriteString("Has recibido un nuevo mensaje a través del formulario de contacto de Picxury.\n\n")
	fmt.Fprintf(&b, "Nombre: %s\n", args.Name)
	fmt.Fprintf(&b, "Email: %s\n\n", args.Email)
	b.WriteString("Mensaje:\n")
	b.WriteString(args.Message)
	return b.String()
}

// HandleExecution sends the message, replying to the visitor's address
func (t *SendContactMessageTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var args ContactMessageArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}

	if t.mailer == nil || t.to == "" {
		return nil, fmt.Errorf("contact inbox is not configured")
	}
	if args.Email == "" {
		return nil, fmt.Errorf("sender email is missing")
	}

	if err := t.mailer.SendEmail([]string{t.to}, ContactSubject(args.Subject), ContactBody(args), args.Email); err != nil {
		return nil, err
	}

	logger.Log.Infow("contact message forwarded", "from", args.Email, "task_id", task.ID)
	return map[string]interface{}{"status": "success", "to": t.to}, nil
}
