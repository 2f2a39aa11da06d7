package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/config"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// Sender delivers one HTML message.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type smtpSender struct {
	cfg      config.SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff  time.Duration
}

// NewSMTPSender sends through cfg with up to three attempts.
func NewSMTPSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{
		cfg:      cfg,
		sendMail: smtp.SendMail,
		backoff:  time.Second,
	}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.sendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1x, 2x, 4x
		if attempt < maxRetries {
			time.Sleep(s.backoff << (attempt - 1))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}

// EmployeeDirectory resolves a recipient id to an employee.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, id string) (employee.Employee, error)
}

// Sink forwards every notification to the in-app sink and e-mails employees
// when one of their requests is decided. Mail is sent in the background.
type Sink struct {
	next      notification.Sink
	directory EmployeeDirectory
	sender    Sender
	templates *template.Template
	wg        sync.WaitGroup
}

func NewSink(next notification.Sink, directory EmployeeDirectory, sender Sender) (*Sink, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Sink{
		next:      next,
		directory: directory,
		sender:    sender,
		templates: tmpl,
	}, nil
}

var decisionTypes = map[notification.NotificationType]bool{
	notification.TypeLeaveRequestApproved:      true,
	notification.TypeLeaveRequestRejected:      true,
	notification.TypeOvertimeRequestApproved:   true,
	notification.TypeOvertimeRequestRejected:   true,
	notification.TypePermissionRequestApproved: true,
	notification.TypePermissionRequestRejected: true,
}

// Notify implements notification.Sink.
func (s *Sink) Notify(ctx context.Context, recipient string, t notification.NotificationType, payload notification.Payload) {
	s.next.Notify(ctx, recipient, t, payload)

	if recipient == notification.RecipientAdmin || !decisionTypes[t] {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.deliver(context.WithoutCancel(ctx), recipient, payload); err != nil {
			slog.Warn("decision email not sent", "recipient_id", recipient, "type", t, "error", err)
		}
	}()
}

// Wait blocks until every queued e-mail has been attempted.
func (s *Sink) Wait() {
	s.wg.Wait()
}

type decisionEmailData struct {
	EmployeeName string
	Title        string
	Message      string
	ActionURL    string
}

func (s *Sink) deliver(ctx context.Context, employeeID string, payload notification.Payload) error {
	emp, err := s.directory.GetByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.Email == nil || *emp.Email == "" {
		return nil
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "decision.html", decisionEmailData{
		EmployeeName: emp.FullName,
		Title:        payload.Title,
		Message:      payload.Message,
		ActionURL:    payload.ActionURL,
	}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sender.Send(*emp.Email, payload.Title, body.String())
}
