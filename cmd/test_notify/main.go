package main

import (
	"flag"

	"picxury_api/internal/config"
	"picxury_api/internal/logger"
	"picxury_api/internal/services"
)

// test_notify sends a test message through the channels used for session
// reminders, to check WAHA and SMTP settings.
func main() {
	phone := flag.String("phone", "", "Phone number (e.g. 3001234567 or 573001234567)")
	email := flag.String("email", "", "Email address")
	msg := flag.String("msg", "Mensaje de prueba de Picxury", "Message body")
	flag.Parse()

	cfg, _, err := config.Load()
	logger.Init(cfg.LogMode)
	defer logger.Sync()
	if err != nil {
		logger.Log.Fatalw("invalid configuration", "error", err)
	}

	if *phone == "" && *email == "" {
		logger.Log.Fatal("Please provide -phone and/or -email")
	}

	if *phone != "" {
		chatID := services.NormalizeChatID(*phone)
		logger.Log.Infow("Sending WhatsApp message", "chat_id", chatID)
		if err := services.NewWahaService(cfg.Waha).SendMessage(chatID, *msg); err != nil {
			logger.Log.Fatalw("Failed to send message", "error", err)
		}
		logger.Log.Info("WhatsApp message sent successfully")
	}

	if *email != "" {
		logger.Log.Infow("Sending email", "to", *email)
		if err := services.NewEmailService(cfg.SMTP).SendEmail([]string{*email}, "Prueba - Picxury", *msg, ""); err != nil {
			logger.Log.Fatalw("Failed to send email", "error", err)
		}
		logger.Log.Info("Email sent successfully")
	}
}
