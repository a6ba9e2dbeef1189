package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chylers/storefront-api/pkg/mailer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestOrderConfirmationRendersItems(t *testing.T) {
	sender := &recordingSender{}
	n, err := NewNotifier(sender)
	require.NoError(t, err)

	err = n.Send(context.Background(), "kai@example.com", TemplateOrderConfirmation, OrderConfirmationData{
		OrderNumber: "#1001",
		TotalPrice:  decimal.RequireFromString("42.50"),
		LineItems: []OrderLine{
			{Title: "Original Beef Chips", VariantTitle: "3 oz", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	require.Equal(t, []string{"kai@example.com"}, msg.To)
	require.Equal(t, "Order Confirmation - #1001", msg.Subject)
	require.Contains(t, msg.HTML, "Original Beef Chips (3 oz)")
	require.Contains(t, msg.HTML, "Total: $42.5")
}

func TestPasswordResetSubjectIsNotEscaped(t *testing.T) {
	n, err := NewNotifier(&recordingSender{})
	require.NoError(t, err)

	msg, err := n.Render("kai@example.com", TemplatePasswordReset, PasswordResetData{
		ResetLink: "https://chylers.com/reset-password?token=abc.def",
		ExpiresIn: "1 hour",
	})
	require.NoError(t, err)
	require.Equal(t, "Password Reset Request - Chyler's Hawaiian Beef Chips", msg.Subject)
	require.Contains(t, msg.HTML, `href="https://chylers.com/reset-password?token=abc.def"`)
}

func TestContactInquiryEscapesUserInput(t *testing.T) {
	n, err := NewNotifier(&recordingSender{})
	require.NoError(t, err)

	msg, err := n.Render("BeefChips@chylers.com", TemplateContactInquiry, ContactInquiryData{
		Name:        "Kai",
		Email:       "kai@example.com",
		InquiryType: "wholesale",
		Message:     "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	require.Equal(t, "New Contact Inquiry - wholesale", msg.Subject)
	require.Equal(t, "kai@example.com", msg.ReplyTo)
	require.Contains(t, msg.HTML, "Not provided")
	require.False(t, strings.Contains(msg.HTML, "<script>"))
}

func TestSendErrors(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	n, err := NewNotifier(sender)
	require.NoError(t, err)

	require.Error(t, n.Send(context.Background(), "", TemplatePasswordReset, PasswordResetData{}))
	require.Error(t, n.Send(context.Background(), "a@b.c", Template("welcome"), nil))
	require.Error(t, n.Send(context.Background(), "a@b.c", TemplatePasswordReset, PasswordResetData{}))
	require.Len(t, sender.sent, 1)
}

func TestNewNotifierRequiresSender(t *testing.T) {
	_, err := NewNotifier(nil)
	require.Error(t, err)
}
