package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/sccbd/catalog-api/src/logging"
	"github.com/sccbd/catalog-api/src/templates"
)

// Mailer sends the account emails that carry one-time links
type Mailer interface {
	SendActivation(ctx context.Context, toEmail, toName, link string) error
	SendPasswordReset(ctx context.Context, toEmail, toName, link string) error
}

// renderedEmail is a subject with its HTML and plain text bodies
type renderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// renderLinkEmail renders one of the embedded link templates
func renderLinkEmail(name, toName, link string) (renderedEmail, error) {
	cfg, err := templates.LoadEmailConfig()
	if err != nil {
		return renderedEmail{}, err
	}

	subject, msg := cfg.Subjects.Activation, cfg.Activation
	if name == templates.PasswordReset {
		subject, msg = cfg.Subjects.PasswordReset, cfg.PasswordReset
	}

	data := templates.NewLinkEmailData(cfg, msg, toName, link)
	html, err := templates.RenderHTML(name, data)
	if err != nil {
		return renderedEmail{}, err
	}
	text, err := templates.RenderText(name, data)
	if err != nil {
		return renderedEmail{}, err
	}
	return renderedEmail{Subject: subject, HTML: html, Text: text}, nil
}

// MailgunMailer delivers email through Mailgun
type MailgunMailer struct {
	mg        *mailgun.MailgunImpl
	fromEmail string
	fromName  string
}

// NewMailgunMailer creates a mailer for the given Mailgun domain
func NewMailgunMailer(domain, apiKey, fromEmail, fromName string) *MailgunMailer {
	mg := mailgun.NewMailgun(domain, apiKey)
	return &MailgunMailer{mg: mg, fromEmail: fromEmail, fromName: fromName}
}

func (m *MailgunMailer) send(ctx context.Context, toEmail string, email renderedEmail) error {
	message := m.mg.NewMessage(
		fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail),
		email.Subject,
		email.Text,
		toEmail,
	)
	message.SetHtml(email.HTML)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, _, err := m.mg.Send(ctxWithTimeout, message); err != nil {
		return fmt.Errorf("failed to send email via Mailgun: %w", err)
	}
	return nil
}

func (m *MailgunMailer) SendActivation(ctx context.Context, toEmail, toName, link string) error {
	email, err := renderLinkEmail(templates.Activation, toName, link)
	if err != nil {
		return err
	}
	return m.send(ctx, toEmail, email)
}

func (m *MailgunMailer) SendPasswordReset(ctx context.Context, toEmail, toName, link string) error {
	email, err := renderLinkEmail(templates.PasswordReset, toName, link)
	if err != nil {
		return err
	}
	return m.send(ctx, toEmail, email)
}

// ResendMailer delivers email through the Resend API
type ResendMailer struct {
	client   *resend.Client
	fromAddr string
}

// NewResendMailer creates a mailer authenticated with apiKey
func NewResendMailer(apiKey, fromEmail, fromName string) *ResendMailer {
	return &ResendMailer{
		client:   resend.NewClient(apiKey),
		fromAddr: fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}
}

func (m *ResendMailer) send(toEmail string, email renderedEmail) error {
	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.fromAddr,
		To:      []string{toEmail},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	return nil
}

func (m *ResendMailer) SendActivation(_ context.Context, toEmail, toName, link string) error {
	email, err := renderLinkEmail(templates.Activation, toName, link)
	if err != nil {
		return err
	}
	return m.send(toEmail, email)
}

func (m *ResendMailer) SendPasswordReset(_ context.Context, toEmail, toName, link string) error {
	email, err := renderLinkEmail(templates.PasswordReset, toName, link)
	if err != nil {
		return err
	}
	return m.send(toEmail, email)
}

// LogMailer writes links to the log instead of sending them. Used when no provider is configured.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer() *LogMailer {
	return &LogMailer{logger: logging.NewLogger("mailer")}
}

func (m *LogMailer) SendActivation(_ context.Context, toEmail, _ string, link string) error {
	m.logger.Warn().Str("to", logging.MaskEmail(toEmail)).Str("link", withoutQuery(link)).Msg("no mail provider configured, activation email not sent")
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, toEmail, _ string, link string) error {
	m.logger.Warn().Str("to", logging.MaskEmail(toEmail)).Str("link", withoutQuery(link)).Msg("no mail provider configured, reset email not sent")
	return nil
}

// withoutQuery drops the query string, which carries the one-time token
func withoutQuery(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// MailerConfig selects and configures a mail provider
type MailerConfig struct {
	MailgunDomain string
	MailgunAPIKey string
	ResendAPIKey  string
	FromEmail     string
	FromName      string
}

// NewMailer picks Mailgun, then Resend, then the log mailer, depending on which credentials are set
func NewMailer(cfg MailerConfig) Mailer {
	switch {
	case cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "":
		return NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.FromEmail, cfg.FromName)
	case cfg.ResendAPIKey != "":
		return NewResendMailer(cfg.ResendAPIKey, cfg.FromEmail, cfg.FromName)
	default:
		return NewLogMailer()
	}
}

// SentEmail records one call on MockMailer
type SentEmail struct {
	Kind    string
	ToEmail string
	ToName  string
	Link    string
}

// MockMailer records sent emails for tests
type MockMailer struct {
	Err error

	mu   sync.Mutex
	Sent []SentEmail
}

// NewMockMailer creates a mailer that records instead of sending
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) record(kind, toEmail, toName, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{Kind: kind, ToEmail: toEmail, ToName: toName, Link: link})
	return m.Err
}

// Last returns the most recent email, or false when none was sent
func (m *MockMailer) Last() (SentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentEmail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

func (m *MockMailer) SendActivation(_ context.Context, toEmail, toName, link string) error {
	return m.record(templates.Activation, toEmail, toName, link)
}

func (m *MockMailer) SendPasswordReset(_ context.Context, toEmail, toName, link string) error {
	return m.record(templates.PasswordReset, toEmail, toName, link)
}

var (
	_ Mailer = (*MailgunMailer)(nil)
	_ Mailer = (*ResendMailer)(nil)
	_ Mailer = (*LogMailer)(nil)
	_ Mailer = (*MockMailer)(nil)
)
