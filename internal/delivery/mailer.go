package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
)

// Mailer delivers a magic-link token to a user's email address. Delivery
// failure is the mailer's concern: the authentication flow treats the
// hand-off as fire-and-forget.
type Mailer interface {
	Deliver(ctx context.Context, email, token string) error
}

func magicLinkURL(baseURL, token string) string {
	return fmt.Sprintf("%s/login?token=%s", baseURL, url.QueryEscape(token))
}

// LogMailer writes the magic link to the structured logger instead of
// sending mail. Used in development.
type LogMailer struct {
	logger  *slog.Logger
	baseURL string
}

// NewLogMailer constructs a logging mailer.
func NewLogMailer(logger *slog.Logger, baseURL string) *LogMailer {
	return &LogMailer{logger: logger, baseURL: baseURL}
}

// Deliver logs the link and always succeeds.
func (m *LogMailer) Deliver(_ context.Context, email, token string) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("magic link issued", "email", email, "link", magicLinkURL(m.baseURL, token))
	return nil
}

// SMTPMailer sends the magic link over SMTP with STARTTLS.
type SMTPMailer struct {
	Host     string
	Port     string
	Sender   string
	Password string
	BaseURL  string
	TTLNote  string
}

// Deliver sends the magic-link email.
func (m *SMTPMailer) Deliver(_ context.Context, email, token string) error {
	link := magicLinkURL(m.BaseURL, token)
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your sign-in link\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n"+
		"<html><body><h2>Your sign-in link</h2>"+
		"<p><a href=%q>Log in</a></p>"+
		"<p>This link expires in %s. If you did not request it, ignore this email.</p>"+
		"</body></html>\r\n", m.Sender, email, link, m.TTLNote)

	auth := smtp.PlainAuth("", m.Sender, m.Password, m.Host)
	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.Sender, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}
