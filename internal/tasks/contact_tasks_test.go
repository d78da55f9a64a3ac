package tasks

import (
	"context"
	"strings"
	"testing"

	"picxury_api/internal/models"
)

func TestSendContactMessageTask(t *testing.T) {
	args := ContactMessageArgs{
		Name:    "Andrés",
		Email:   "andres@example.com",
		Subject: "Cotización boda",
		Message: "¿Tienen fecha libre en junio?",
	}

	tests := []struct {
		name    string
		mailer  *fakeMailer
		to      string
		args    ContactMessageArgs
		wantErr bool
	}{
		{name: "delivered", mailer: &fakeMailer{}, to: "hola@picxury.com", args: args},
		{name: "no inbox", mailer: &fakeMailer{}, to: "", args: args, wantErr: true},
		{name: "missing sender", mailer: &fakeMailer{}, to: "hola@picxury.com", args: ContactMessageArgs{Subject: "x"}, wantErr: true},
		{name: "smtp failure", mailer: &fakeMailer{err: errSMTPDown}, to: "hola@picxury.com", args: args, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := NewSendContactMessageTask(tt.mailer, tt.to)
			task, err := def.CreateTask(tt.args)
			if err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
			if task.TaskName != models.TaskSendContactMessage {
				t.Errorf("task name = %q", task.TaskName)
			}

			_, err = def.HandleExecution(context.Background(), nil, *task)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HandleExecution() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(tt.mailer.sent) != 1 {
				t.Fatalf("sent = %d; want 1", len(tt.mailer.sent))
			}
			mail := tt.mailer.sent[0]
			if mail.to[0] != tt.to || mail.replyTo != args.Email {
				t.Errorf("to = %v, reply-to = %q", mail.to, mail.replyTo)
			}
			if mail.subject != "Mensaje de Contacto - Picxury | Cotización boda" {
				t.Errorf("subject = %q", mail.subject)
			}
			for _, want := range []string{"Nombre: Andrés", "Email: andres@example.com", args.Message} {
				if !strings.Contains(mail.body, want) {
					t.Errorf("body missing %q:\n%s", want, mail.body)
				}
			}
		})
	}
}
