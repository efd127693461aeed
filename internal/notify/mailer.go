package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Message is a rendered email ready for delivery.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer creates a mailer for the given relay. Credentials may be empty.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send dials the relay and delivers one message. gomail has no context support,
// so cancellation abandons the wait but not the dial.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(gm)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log logrus.FieldLogger
}

func NewLogMailer(log logrus.FieldLogger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"bytes":   len(msg.HTML),
	}).Info("Email delivery disabled, message logged")
	return nil
}
