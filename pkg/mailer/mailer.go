package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// Message is a single transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender when SMTP is configured, otherwise a sender that
// only logs the outgoing message.
func New(cfg config.SMTPConfig, logg *logger.Logger) Sender {
	if !cfg.Enabled() {
		return &LogSender{logg: logg}
	}
	return NewSMTPSender(cfg, logg)
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	host    string
	port    int
	from    string
	user    string
	pass    string
	tlsMode string
	logg    *logger.Logger
	send    func(*mail.Dialer, *mail.Message) error
}

func NewSMTPSender(cfg config.SMTPConfig, logg *logger.Logger) *SMTPSender {
	return &SMTPSender{
		host:    cfg.Host,
		port:    cfg.Port,
		from:    cfg.From,
		user:    cfg.Username,
		pass:    cfg.Password,
		tlsMode: strings.ToLower(strings.TrimSpace(cfg.TLSMode)),
		logg:    logg,
		send: func(d *mail.Dialer, m *mail.Message) error {
			return d.DialAndSend(m)
		},
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}

	m := s.buildMessage(msg)

	d := mail.NewDialer(s.host, s.port, s.user, s.pass)
	d.TLSConfig = &tls.Config{ServerName: s.host}
	switch s.tlsMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = nil
	}

	if err := s.send(d, m); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "smtp_host", s.host), "smtp send failed", err)
		}
		return fmt.Errorf("smtp send: %w", err)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "subject", msg.Subject), "email sent")
	}
	return nil
}

func (s *SMTPSender) buildMessage(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	// multipart/alternative when both bodies are present
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text == "" {
			m.SetBody("text/html", msg.HTML)
		} else {
			m.AddAlternative("text/html", msg.HTML)
		}
	}
	return m
}

// LogSender writes outgoing mail to the log instead of delivering it.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}
	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{"to": msg.To, "subject": msg.Subject})
		l.logg.Info(ctx, "smtp not configured; email logged instead of sent")
	}
	return nil
}
