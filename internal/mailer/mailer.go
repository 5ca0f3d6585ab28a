package mailer

import (
	"fmt"
	"net/smtp"

	"cvforge/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
}

// NewSMTPMailer builds a Mailer over plain SMTP with optional AUTH.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
	}
}

func (m *smtpMailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// OTPBody renders the plain-text verification mail.
func OTPBody(name, code string) string {
	greeting := "Hi there!"
	if name != "" {
		greeting = "Hi " + name + "!"
	}
	return fmt.Sprintf(`%s

Your CVForge verification code is: %s

The code expires in 10 minutes. Do not share it with anyone.

If you did not request this code, you can ignore this email.
`, greeting, code)
}
