package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: buf})
}

func TestNewPicksSenderFromConfig(t *testing.T) {
	logg := testLogger(&bytes.Buffer{})
	assert.IsType(t, &LogSender{}, New(config.SMTPConfig{}, logg))
	assert.IsType(t, &SMTPSender{}, New(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, logg))
}

func TestSMTPSenderBuildsAlternativeMessage(t *testing.T) {
	var sent bytes.Buffer
	var dialer *mail.Dialer
	sender := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 465, From: "no-reply@shop.test", TLSMode: "SSL"}, testLogger(&bytes.Buffer{}))
	sender.send = func(d *mail.Dialer, m *mail.Message) error {
		dialer = d
		_, err := m.WriteTo(&sent)
		return err
	}

	err := sender.Send(context.Background(), Message{To: "a@b.com", Subject: "Hello", HTML: "<p>hi</p>", Text: "hi"})
	require.NoError(t, err)

	require.NotNil(t, dialer)
	assert.True(t, dialer.SSL)
	assert.Equal(t, "smtp.example.com", dialer.Host)
	raw := sent.String()
	assert.Contains(t, raw, "To: a@b.com")
	assert.Contains(t, raw, "Subject: Hello")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/html")
}

func TestSMTPSenderWrapsFailures(t *testing.T) {
	var logs bytes.Buffer
	sender := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, testLogger(&logs))
	sender.send = func(*mail.Dialer, *mail.Message) error { return errors.New("connection refused") }

	err := sender.Send(context.Background(), Message{To: "a@b.com", Subject: "x", HTML: "<p>x</p>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send")
	assert.Contains(t, logs.String(), "smtp send failed")

	assert.Error(t, sender.Send(context.Background(), Message{}))
}

func TestLogSenderRecordsRecipient(t *testing.T) {
	var logs bytes.Buffer
	sender := NewLogSender(testLogger(&logs))

	require.NoError(t, sender.Send(context.Background(), Message{To: "a@b.com", Subject: "Verify"}))
	assert.Contains(t, logs.String(), `"to":"a@b.com"`)
	assert.Contains(t, logs.String(), `"subject":"Verify"`)
}

func TestRendererVerificationEmail(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	msg, err := r.VerificationEmail("a@b.com", "Ada", "123456", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", msg.To)
	assert.Equal(t, "ShopDesk: Verify your email", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Ada,")
	assert.Contains(t, msg.HTML, "123456")
	assert.Contains(t, msg.HTML, "15 minutes")
	assert.True(t, strings.Contains(msg.Text, "123456"))
}

func TestRendererPasswordResetEscapesName(t *testing.T) {
	r, err := NewRenderer("Acme")
	require.NoError(t, err)

	msg, err := r.PasswordResetEmail("a@b.com", "<b>Eve</b>", "654321", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "Acme: Reset your password", msg.Subject)
	assert.NotContains(t, msg.HTML, "<b>Eve</b>")
	assert.Contains(t, msg.HTML, "654321")
}
