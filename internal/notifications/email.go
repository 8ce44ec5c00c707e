package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"time"

	"homestay/internal/shared/config"
	"homestay/pkg/logger"
)

// EmailSender delivers a single notification email.
type EmailSender interface {
	Send(ctx context.Context, notification *EmailNotification) error
}

const bookingCreatedTemplate = `
<h2>Booking received</h2>
<p>Hi {{.guest_name}},</p>
<p>Your booking at <strong>{{.homestay_name}}</strong> has been received and is awaiting confirmation.</p>
<p>Booking code: <strong>{{.booking_code}}</strong></p>
<p>Check-in: {{.check_in}}<br>Check-out: {{.check_out}}<br>Nights: {{.nights}}</p>
<p>Total amount: {{.total_amount}}</p>
<p>We look forward to hosting you.</p>
`

const bookingCancelledTemplate = `
<h2>Booking cancelled</h2>
<p>Hi {{.guest_name}},</p>
<p>Your booking <strong>{{.booking_code}}</strong> at <strong>{{.homestay_name}}</strong> has been cancelled.</p>
<p>The rooms for {{.check_in}} to {{.check_out}} have been released.</p>
<p>If this was unexpected, please contact the host.</p>
`

// SMTPEmailSender delivers notifications over SMTP with STARTTLS.
type SMTPEmailSender struct {
	cfg       config.EmailConfig
	templates map[EventType]*template.Template
	log       *logger.Logger
}

func NewSMTPEmailSender(cfg config.EmailConfig) (*SMTPEmailSender, error) {
	if cfg.SMTPHost == "" || cfg.FromEmail == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}

	templates := map[EventType]*template.Template{
		EventBookingCreated:   template.Must(template.New("booking_created").Parse(bookingCreatedTemplate)),
		EventBookingCancelled: template.Must(template.New("booking_cancelled").Parse(bookingCancelledTemplate)),
	}

	return &SMTPEmailSender{
		cfg:       cfg,
		templates: templates,
		log:       logger.GetDefault(),
	}, nil
}

func (s *SMTPEmailSender) Send(ctx context.Context, notification *EmailNotification) error {
	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return fmt.Errorf("no template for notification type %s", notification.Type)
	}

	var htmlBuf bytes.Buffer
	if err := tmpl.Execute(&htmlBuf, notification.Data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	message := s.buildMessage(notification.RecipientEmail, notification.Subject, htmlBuf.String())
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := s.sendWithSTARTTLS(addr, auth, notification.RecipientEmail, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("email sent", "to", notification.RecipientEmail, "type", notification.Type)
	return nil
}

func (s *SMTPEmailSender) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if s.cfg.SMTPUsername != "" {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailSender) buildMessage(to, subject, htmlBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(htmlBody + "\r\n")
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}

// LogEmailSender is used when SMTP is not configured: notifications are
// logged instead of delivered, so local development needs no mail server.
type LogEmailSender struct {
	log *logger.Logger
}

func NewLogEmailSender() *LogEmailSender {
	return &LogEmailSender{log: logger.GetDefault()}
}

func (s *LogEmailSender) Send(_ context.Context, notification *EmailNotification) error {
	s.log.Info("email (log only)",
		"to", notification.RecipientEmail,
		"type", notification.Type,
		"subject", notification.Subject,
	)
	return nil
}
