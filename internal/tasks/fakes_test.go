package tasks

import (
	"context"
	"errors"
	"sync"
	"time"
)

type sentEmail struct {
	to      []string
	subject string
	body    string
	replyTo string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendEmail(to []string, subject, body string, replyTo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body, replyTo: replyTo})
	return nil
}

type sentMessage struct {
	chatID string
	text   string
}

type fakeMessenger struct {
	sent []sentMessage
	err  error
}

func (m *fakeMessenger) SendMessage(chatID, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeLocker struct {
	acquired bool
	err      error
	keys     []string
}

func (l *fakeLocker) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.acquired, l.err
}

var errSMTPDown = errors.New("smtp down")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
