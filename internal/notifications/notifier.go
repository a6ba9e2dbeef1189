package notifications

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/chylers/storefront-api/pkg/mailer"
	"github.com/shopspring/decimal"
)

// Template names one transactional email.
type Template string

const (
	TemplateOrderConfirmation Template = "order_confirmation"
	TemplatePasswordReset     Template = "password_reset"
	TemplateContactInquiry    Template = "contact_inquiry"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[Template]string{
	TemplateOrderConfirmation: "Order Confirmation - {{.OrderNumber}}",
	TemplatePasswordReset:     "Password Reset Request - Chyler's Hawaiian Beef Chips",
	TemplateContactInquiry:    "New Contact Inquiry - {{.InquiryType}}",
}

// OrderLine is one purchased item in an order confirmation.
type OrderLine struct {
	Title        string
	VariantTitle string
	Quantity     int
	Price        decimal.Decimal
}

type OrderConfirmationData struct {
	OrderNumber string
	TotalPrice  decimal.Decimal
	LineItems   []OrderLine
}

type PasswordResetData struct {
	ResetLink string
	ExpiresIn string
}

type ContactInquiryData struct {
	Name        string
	Email       string
	Phone       string
	InquiryType string
	OrderNumber string
	Subject     string
	Message     string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Notifier renders transactional templates and hands them to a Sender.
type Notifier struct {
	sender   Sender
	bodies   *htmltemplate.Template
	subjects map[Template]*texttemplate.Template
}

// NewNotifier parses the embedded templates.
func NewNotifier(sender Sender) (*Notifier, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	bodies, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	parsed := make(map[Template]*texttemplate.Template, len(subjects))
	for name, src := range subjects {
		if bodies.Lookup(string(name)) == nil {
			return nil, fmt.Errorf("email template %q has no body", name)
		}
		tmpl, err := texttemplate.New(string(name)).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse subject %q: %w", name, err)
		}
		parsed[name] = tmpl
	}
	return &Notifier{sender: sender, bodies: bodies, subjects: parsed}, nil
}

// Send renders name with data and mails it to one recipient.
func (n *Notifier) Send(ctx context.Context, to string, name Template, data any) error {
	msg, err := n.Render(to, name, data)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}

// Render builds the message without sending it.
func (n *Notifier) Render(to string, name Template, data any) (mailer.Message, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return mailer.Message{}, fmt.Errorf("recipient required for %s", name)
	}
	subjectTmpl, ok := n.subjects[name]
	if !ok {
		return mailer.Message{}, fmt.Errorf("unknown email template %q", name)
	}

	var subject bytes.Buffer
	if err := subjectTmpl.Execute(&subject, data); err != nil {
		return mailer.Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	var body bytes.Buffer
	if err := n.bodies.ExecuteTemplate(&body, string(name), data); err != nil {
		return mailer.Message{}, fmt.Errorf("render %s body: %w", name, err)
	}

	msg := mailer.Message{
		To:      []string{to},
		Subject: strings.TrimSpace(subject.String()),
		HTML:    body.String(),
	}
	if inquiry, ok := data.(ContactInquiryData); ok {
		msg.ReplyTo = inquiry.Email
	}
	return msg, nil
}
