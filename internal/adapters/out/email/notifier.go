// Package email delivers customer notifications over plain SMTP.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"orderflow/internal/pkg/errs"
)

// sendMailFunc matches smtp.SendMail; injectable for tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier implements ports.Notifier over a single SMTP relay.
type SMTPNotifier struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

// NewSMTPNotifier creates a notifier. auth may be nil for an open relay
// (local development).
func NewSMTPNotifier(addr, from string, auth smtp.Auth) (*SMTPNotifier, error) {
	if addr == "" {
		return nil, errs.NewValueIsRequiredError("addr")
	}
	if from == "" {
		return nil, errs.NewValueIsRequiredError("from")
	}
	return &SMTPNotifier{addr: addr, from: from, auth: auth, sendMail: smtp.SendMail}, nil
}

// SendInvoice emails the customer where to find their invoice.
func (n *SMTPNotifier) SendInvoice(ctx context.Context, recipient string, orderID string, artifactRef string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recipient == "" {
		return errs.NewValueIsRequiredError("recipient")
	}

	msg := buildInvoiceMessage(n.from, recipient, orderID, artifactRef)
	if err := n.sendMail(n.addr, n.auth, n.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send invoice email for order %s: %w", orderID, err)
	}
	return nil
}

func buildInvoiceMessage(from, to, orderID, artifactRef string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Invoice for order %s\r\n", orderID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your order %s has shipped.\r\n", orderID)
	fmt.Fprintf(&b, "The invoice is available at: %s\r\n", artifactRef)
	return []byte(b.String())
}
