package tasks

import (
	"picxury_api/internal/services"
)

// Dependencies are the outside collaborators tasks deliver through
type Dependencies struct {
	Mailer       services.Mailer
	Messenger    services.Messenger
	ContactEmail string
}

// Define registers every task on r
func Define(r *Registry, deps Dependencies) {
	r.Register(MarkNotificationsReadTask.TaskID(), MarkNotificationsReadTask.HandleExecution)

	contact := NewSendContactMessageTask(deps.Mailer, deps.ContactEmail)
	r.Register(contact.TaskID(), contact.HandleExecution)

	reminders := NewSendSessionRemindersTask(deps.Mailer, deps.Messenger)
	r.Register(reminders.TaskID(), reminders.HandleExecution)
}

// DefineTasks registers all available tasks on the global registry
func DefineTasks(deps Dependencies) {
	Define(GlobalRegistry, deps)
}
