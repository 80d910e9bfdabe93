// Outbound email delivery over SMTP.
//
// Environment:
//   - SMTP_HOST / SMTP_PORT / SMTP_USERNAME / SMTP_PASSWORD
//   - SMTP_FROM / SMTP_FROM_NAME
//   - FRONTEND_URL: base for the password-reset link
//
// Without SMTP credentials the client runs in dev mode and logs the message
// instead of sending it, so local setups work without a mail account.
package client

import (
	"fmt"
	"log"
	"net"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/movietrack/backend/internal/config"
)

type Mailer struct {
	cfg         config.SMTPConfig
	frontendURL string
	devMode     bool
}

func NewMailer(cfg config.SMTPConfig, frontendURL string) *Mailer {
	devMode := cfg.Username == "" || cfg.Password == ""
	if devMode {
		log.Println("[Mailer] SMTP credentials missing, running in dev mode (emails are logged, not sent)")
	}
	return &Mailer{
		cfg:         cfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		devMode:     devMode,
	}
}

func (m *Mailer) SendWelcome(name, email string) error {
	body := fmt.Sprintf("<h1>Hi %s,</h1><p>Thank you for registering. We're excited to have you!</p>", name)
	return m.send(email, "Welcome to MovieTrack!", body)
}

// SendPasswordReset delivers the plaintext reset secret as a link query
// parameter. The secret exists only in this message; the store holds its hash.
func (m *Mailer) SendPasswordReset(email, secret string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, url.QueryEscape(secret))
	body := fmt.Sprintf(
		"<p>Please click the following link to reset your password:</p><a href=%q>Reset Password</a><p>This link will expire in 1 hour.</p>",
		link,
	)
	return m.send(email, "Your Password Reset Link", body)
}

func (m *Mailer) SendPremiereReminder(email, title string) error {
	body := fmt.Sprintf(
		"<h1>Hello!</h1><p>This is a reminder that the movie \"<strong>%s</strong>\" you added premieres today. Enjoy!</p>",
		title,
	)
	return m.send(email, fmt.Sprintf("Premiere reminder: %q is out today!", title), body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if m.devMode {
		log.Printf("[Mailer] dev mode: to=%s subject=%q", to, subject)
		return nil
	}

	from := m.cfg.From
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.cfg.FromName, from),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}
