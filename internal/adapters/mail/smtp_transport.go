package mail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// SMTPTransport delivers notifications over SMTP
type SMTPTransport struct {
	addr     string
	from     string
	username string
	password string
	logger   *zap.Logger
}

// NewSMTPTransport creates a new SMTP transport
func NewSMTPTransport(addr, from, username, password string, logger *zap.Logger) *SMTPTransport {
	return &SMTPTransport{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Send delivers the message. A message without recipients is treated as
// already delivered: a scrubbed notification must not surface an error.
func (t *SMTPTransport) Send(ctx context.Context, msg *core.MailMessage) error {
	if len(msg.To) == 0 {
		t.logger.Debug("Message has no recipients, skipping delivery")
		return nil
	}

	var auth sasl.Client
	if t.username != "" {
		auth = sasl.NewPlainClient("", t.username, t.password)
	}

	raw := t.encode(msg)
	if err := smtp.SendMail(t.addr, auth, t.from, msg.To, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	t.logger.Info("Notification delivered",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// encode renders the message as an RFC 5322 payload
func (t *SMTPTransport) encode(msg *core.MailMessage) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", t.from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	if len(msg.ReplyTo) > 0 {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", strings.Join(msg.ReplyTo, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	for key, values := range msg.Headers {
		for _, value := range values {
			fmt.Fprintf(&buf, "%s: %s\r\n", key, value)
		}
	}
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)

	return buf.Bytes()
}
