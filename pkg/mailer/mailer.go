package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/chylers/storefront-api/pkg/config"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("smtp not configured")

// Message is one outbound HTML email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTP delivers mail through an authenticated SMTP relay.
type SMTP struct {
	host     string
	addr     string
	from     mail.Address
	username string
	password string
	send     sendFunc
	now      func() time.Time
}

// NewSMTP builds a sender from config. Send fails with ErrNotConfigured when
// the host is empty so local environments can run without a relay.
func NewSMTP(cfg config.SMTPConfig) *SMTP {
	return &SMTP{
		host:     cfg.Host,
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:     mail.Address{Name: cfg.FromName, Address: cfg.FromEmail},
		username: cfg.Username,
		password: cfg.Password,
		send:     smtp.SendMail,
		now:      time.Now,
	}
}

// Send delivers msg. The context is checked before dialing; net/smtp offers no
// cancellation once the exchange starts.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(s.host) == "" {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return errors.New("mail recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" && s.password != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := s.send(s.addr, auth, s.from.Address, msg.To, s.build(msg)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

func (s *SMTP) build(msg Message) []byte {
	var buf bytes.Buffer
	writeHeader := func(key, value string) {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}

	writeHeader("From", s.from.String())
	writeHeader("To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		writeHeader("Reply-To", msg.ReplyTo)
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader("Date", s.now().Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/html; charset="UTF-8"`)
	buf.WriteString("\r\n")
	buf.WriteString(msg.HTML)
	return buf.Bytes()
}
