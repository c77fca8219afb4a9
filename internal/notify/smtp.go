package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	settingsrepo "github.com/soorihai2/ssksilks-sub001/internal/repository/settings"
)

// SMTPDispatcher delivers mail through the SMTP account in settings,
// re-read on every dispatch.
type SMTPDispatcher struct {
	settings settingsrepo.Repository
	logger   logrus.FieldLogger
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(settings settingsrepo.Repository, logger logrus.FieldLogger) *SMTPDispatcher {
	return &SMTPDispatcher{settings: settings, logger: logger, send: smtp.SendMail}
}

func (d *SMTPDispatcher) OrderConfirmation(ctx context.Context, o *domain.Order) Result {
	recipient := ""
	if o.ShippingAddress != nil {
		recipient = strings.TrimSpace(o.ShippingAddress.Email)
	}
	if recipient == "" {
		return Skipped()
	}
	subject := fmt.Sprintf("Order confirmed – %s", o.ID)
	body := orderBody(o)
	return d.deliver(ctx, recipient, subject, body, logrus.Fields{"order_id": o.ID})
}

func (d *SMTPDispatcher) TestMessage(ctx context.Context, recipient string) Result {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Skipped()
	}
	return d.deliver(ctx, recipient, "Test email", "This is a test email from the store.", logrus.Fields{"test": true})
}

func (d *SMTPDispatcher) deliver(ctx context.Context, recipient, subject, body string, fields logrus.Fields) Result {
	s, err := d.settings.Read(ctx)
	if err != nil {
		d.logger.WithFields(fields).WithError(err).Warn("email dispatch: read settings")
		return Failed(err)
	}
	e := s.Email
	if e.SMTPHost == "" || e.SMTPPort == 0 || e.From == "" {
		err := &domain.ConfigurationError{Section: "email"}
		d.logger.WithFields(fields).Warn(err.Error())
		return Failed(err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		e.From, recipient, subject, body)

	var auth smtp.Auth
	if e.Username != "" {
		auth = smtp.PlainAuth("", e.Username, e.Password, e.SMTPHost)
	}
	addr := fmt.Sprintf("%s:%d", e.SMTPHost, e.SMTPPort)
	if err := d.send(addr, auth, e.From, []string{recipient}, []byte(msg)); err != nil {
		d.logger.WithFields(fields).WithError(err).Warn("email dispatch failed")
		return Failed(err)
	}
	d.logger.WithFields(fields).WithField("recipient", recipient).Info("email sent")
	return Sent()
}

func orderBody(o *domain.Order) string {
	var b strings.Builder
	name := ""
	if o.ShippingAddress != nil {
		name = o.ShippingAddress.FullName
	}
	fmt.Fprintf(&b, "Dear %s,\r\n\r\nThank you for your order %s.\r\n\r\n", name, o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s x%d – Rs. %d\r\n", it.Name, it.Quantity, it.Price*int64(it.Quantity))
	}
	if o.Discount > 0 {
		fmt.Fprintf(&b, "\r\nSubtotal: Rs. %d\r\nDiscount: Rs. %d", o.Subtotal, o.Discount)
		if o.AppliedOffer != nil {
			fmt.Fprintf(&b, " (%s)", o.AppliedOffer.Label)
		}
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "Total: Rs. %d\r\n", o.Total)
	return b.String()
}
