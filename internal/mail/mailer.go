package mail

import (
	"fmt"
	"net/smtp"
	"time"
)

// Mailer sends transactional mail over plain SMTP.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewMailer(host, port, username, password, from string) *Mailer {
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

// SendPasswordReset mails the reset link. The stated validity window comes
// from the same TTL that is set on the token, so mail and token can never
// disagree.
func (m *Mailer) SendPasswordReset(to, resetURL string, ttl time.Duration) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"A password reset was requested for your account. Open the link "+
			"below to choose a new password. The link is valid for %s.\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you did not request this, you can ignore this mail.\r\n",
		formatTTL(ttl), resetURL,
	)

	msg := []byte(
		"From: " + m.From + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" + body,
	)

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := m.Host + ":" + m.Port

	if err := smtp.SendMail(addr, auth, m.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

func formatTTL(ttl time.Duration) string {
	if ttl >= time.Hour && ttl%time.Hour == 0 {
		hours := int(ttl / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	minutes := int(ttl / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
