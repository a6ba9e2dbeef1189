package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/chylers/storefront-api/pkg/config"
)

type capture struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
	err  error
}

func (c *capture) send(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	c.addr, c.auth, c.from, c.to, c.msg = addr, auth, from, to, string(msg)
	return c.err
}

func newTestSMTP(c *capture) *SMTP {
	s := NewSMTP(config.SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "user",
		Password:  "pw",
		FromEmail: "BeefChips@chylers.com",
		FromName:  "Chyler's Hawaiian Beef Chips",
	})
	s.send = c.send
	s.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	return s
}

func TestSendBuildsHTMLMessage(t *testing.T) {
	c := &capture{}
	s := newTestSMTP(c)

	err := s.Send(context.Background(), Message{
		To:      []string{"kai@example.com"},
		ReplyTo: "kai@example.com",
		Subject: "Order Confirmation - #1001",
		HTML:    "<p>Mahalo</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if c.addr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %s", c.addr)
	}
	if c.auth == nil {
		t.Fatalf("expected plain auth when credentials are set")
	}
	if c.from != "BeefChips@chylers.com" {
		t.Fatalf("unexpected envelope sender %s", c.from)
	}
	for _, want := range []string{
		"Subject: Order Confirmation - #1001\r\n",
		"Reply-To: kai@example.com\r\n",
		"Content-Type: text/html; charset=\"UTF-8\"\r\n",
		"\r\n\r\n<p>Mahalo</p>",
	} {
		if !strings.Contains(c.msg, want) {
			t.Fatalf("message missing %q:\n%s", want, c.msg)
		}
	}
	if !strings.Contains(c.msg, "<BeefChips@chylers.com>") {
		t.Fatalf("expected display-name From header:\n%s", c.msg)
	}
}

func TestSendRequiresHost(t *testing.T) {
	s := NewSMTP(config.SMTPConfig{Port: 587})
	if err := s.Send(context.Background(), Message{To: []string{"a@b.c"}}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendWrapsTransportError(t *testing.T) {
	c := &capture{err: errors.New("421 try later")}
	s := newTestSMTP(c)
	err := s.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "x"})
	if err == nil || !strings.Contains(err.Error(), "421") {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSendHonorsCancelledContext(t *testing.T) {
	c := &capture{}
	s := newTestSMTP(c)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, Message{To: []string{"a@b.c"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.addr != "" {
		t.Fatalf("should not dial after cancellation")
	}
}
