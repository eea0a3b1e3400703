package mail

import (
	"context"

	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// LogTransport logs notifications instead of delivering them. It is the
// default transport, useful for local runs without an SMTP relay.
type LogTransport struct {
	logger *zap.Logger
}

// NewLogTransport creates a new log-only transport
func NewLogTransport(logger *zap.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

// Send logs the message instead of delivering it
func (t *LogTransport) Send(ctx context.Context, msg *core.MailMessage) error {
	if len(msg.To) == 0 {
		t.logger.Debug("Message has no recipients, skipping delivery")
		return nil
	}

	t.logger.Info("Notification (log transport, not delivered)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)))
	return nil
}
