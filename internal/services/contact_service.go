package services

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/j-bridge/volunteerhub.com/internal/notify"
)

// ContactService forwards inquiries from the public contact form.
type ContactService struct {
	notifier Notifications
	inbox    string
	log      logrus.FieldLogger
}

// NewContactService creates a new ContactService delivering to inbox.
func NewContactService(notifier Notifications, inbox string, log logrus.FieldLogger) *ContactService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ContactService{notifier: notifier, inbox: inbox, log: log.WithField("service", "contact")}
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name         string
	Email        string
	Organization string
	Message      string
}

// Submit emails the inquiry to the inbox and an acknowledgement to the sender.
// Delivery problems are logged and never reported back.
func (s *ContactService) Submit(input ContactInput) error {
	data := notify.ContactData{
		Name:         strings.TrimSpace(input.Name),
		Email:        NormalizeEmail(input.Email),
		Organization: strings.TrimSpace(input.Organization),
		Message:      strings.TrimSpace(input.Message),
	}
	if data.Name == "" || data.Message == "" || !validEmail(data.Email) {
		return ErrInvalidContact
	}

	if s.inbox != "" {
		s.notifier.Enqueue("New inquiry from "+data.Name, []string{s.inbox}, notify.TemplateContactInbox, data)
	} else {
		s.log.Warn("Contact inbox is not configured; inquiry not forwarded")
	}
	s.notifier.Enqueue("We received your message", []string{data.Email}, notify.TemplateContactAck, data)
	return nil
}
