package notification

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"marche/models"
)

// SendMailFunc matches net/smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailChannel delivers intents over SMTP.
type EmailChannel struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SendMail SendMailFunc
}

func NewEmailChannel(host string, port int, user, pass, from string) *EmailChannel {
	return &EmailChannel{Host: host, Port: port, Username: user, Password: pass, From: from, SendMail: smtp.SendMail}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(_ context.Context, user *models.User, intent models.NotificationIntent) error {
	if user.Email == "" {
		return ErrSkipped
	}

	var auth smtp.Auth
	if c.Username != "" {
		auth = smtp.PlainAuth("", c.Username, c.Password, c.Host)
	}
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	if err := c.SendMail(addr, auth, c.From, []string{user.Email}, buildMessage(c.From, user.Email, intent)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", user.ID, err)
	}
	return nil
}

func buildMessage(from, to string, intent models.NotificationIntent) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", titleFor(intent.Kind))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(intent.Summary)
	if intent.Link != "" {
		b.WriteString("\r\n\r\n")
		b.WriteString(intent.Link)
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}
