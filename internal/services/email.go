package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"picxury_api/internal/config"
)

// Mailer sends plain text email
type Mailer interface {
	SendEmail(to []string, subject, body string, replyTo string) error
}

type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Pass,
		from:     cfg.From,
	}
}

// BuildMessage renders the RFC 822 message sent over SMTP
func BuildMessage(from string, to []string, subject, body, replyTo string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	if replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (s *EmailService) SendEmail(to []string, subject, body string, replyTo string) error {
	if s.host == "" || s.port == "" || s.user == "" || s.password == "" {
		return fmt.Errorf("SMTP credentials not fully configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	err := smtp.SendMail(addr, auth, s.from, to, BuildMessage(s.from, to, subject, body, replyTo))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
