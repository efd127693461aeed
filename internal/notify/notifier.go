package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/j-bridge/volunteerhub.com/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	TemplateApplicationSubmitted = "application_submitted"
	TemplateApplicationReceived  = "application_received"
	TemplateApplicationDecision  = "application_decision"
	TemplateCertificateIssued    = "certificate_issued"
	TemplatePasswordReset        = "password_reset"
	TemplateContactInbox         = "contact_inbox"
	TemplateContactAck           = "contact_ack"
)

var ErrNotifierClosed = errors.New("notifier closed")

// Options configures a Notifier.
type Options struct {
	From string
	// Workers is the number of background senders. Zero sends inline.
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
	Logger      logrus.FieldLogger
	Metrics     *metrics.Metrics
}

type job struct {
	subject    string
	recipients []string
	template   string
	data       any
}

// Notifier renders templated email and delivers it on a bounded worker pool.
type Notifier struct {
	mailer    Mailer
	templates *template.Template
	from      string
	timeout   time.Duration
	log       logrus.FieldLogger
	metrics   *metrics.Metrics

	queue     chan job
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New parses the embedded templates and starts the workers.
func New(mailer Mailer, opts Options) (*Notifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}

	n := &Notifier{
		mailer:    mailer,
		templates: tmpl,
		from:      opts.From,
		timeout:   opts.SendTimeout,
		log:       opts.Logger.WithField("component", "notifier"),
		metrics:   opts.Metrics,
	}

	if opts.Workers > 0 {
		n.queue = make(chan job, opts.QueueSize)
		for i := 0; i < opts.Workers; i++ {
			n.wg.Add(1)
			go n.work()
		}
	}
	return n, nil
}

func (n *Notifier) work() {
	defer n.wg.Done()
	for j := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		n.SendTemplatedEmail(ctx, j.subject, j.recipients, j.template, j.data)
		cancel()
	}
}

// SendTemplatedEmail renders and delivers a message synchronously. It never
// returns an error; failures are logged and counted and reported as false.
func (n *Notifier) SendTemplatedEmail(ctx context.Context, subject string, recipients []string, templateName string, data any) bool {
	to := cleanRecipients(recipients)
	entry := n.log.WithFields(logrus.Fields{"template": templateName, "subject": subject})
	if len(to) == 0 {
		entry.Warn("Email skipped, no recipients")
		n.metrics.EmailResult(templateName, "skipped")
		return false
	}

	body, err := n.Render(templateName, data)
	if err != nil {
		entry.WithError(err).Error("Failed to render email")
		n.metrics.EmailResult(templateName, "failed")
		return false
	}

	msg := Message{From: n.from, To: to, Subject: subject, HTML: body}
	if err := n.mailer.Send(ctx, msg); err != nil {
		entry.WithError(err).WithField("to", to).Error("Failed to send email")
		n.metrics.EmailResult(templateName, "failed")
		return false
	}

	n.metrics.EmailResult(templateName, "sent")
	return true
}

// Enqueue schedules a message for background delivery. A full queue drops the
// message. Without workers the message is sent inline.
func (n *Notifier) Enqueue(subject string, recipients []string, templateName string, data any) bool {
	if n.queue == nil {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		return n.SendTemplatedEmail(ctx, subject, recipients, templateName, data)
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.log.WithField("template", templateName).Warn("Email dropped, notifier closed")
		n.metrics.EmailResult(templateName, "dropped")
		return false
	}

	select {
	case n.queue <- job{subject: subject, recipients: recipients, template: templateName, data: data}:
		return true
	default:
		n.log.WithField("template", templateName).Warn("Email dropped, queue full")
		n.metrics.EmailResult(templateName, "dropped")
		return false
	}
}

// Render executes a named template.
func (n *Notifier) Render(templateName string, data any) (string, error) {
	var buf bytes.Buffer
	if err := n.templates.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Close stops accepting work and waits for queued messages until ctx is done.
func (n *Notifier) Close(ctx context.Context) error {
	if n.queue == nil {
		return nil
	}

	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.queue)
		n.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNotifierClosed, ctx.Err())
	}
}

func cleanRecipients(recipients []string) []string {
	seen := make(map[string]struct{}, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		key := strings.ToLower(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
