package mail

import (
	"context"

	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// Mailer sends outbound notifications, running every suppressor stage
// around the real transport. All three stages fire on every send so that a
// flagged request is neutralized even when an individual stage is
// unavailable or bypassed in a given host configuration.
type Mailer struct {
	transport  core.MailTransport
	suppressor *Suppressor
	logger     *zap.Logger
}

// NewMailer creates a new suppressing mailer
func NewMailer(transport core.MailTransport, suppressor *Suppressor, logger *zap.Logger) *Mailer {
	return &Mailer{
		transport:  transport,
		suppressor: suppressor,
		logger:     logger,
	}
}

// Send delivers the message unless the request is flagged as spam, in which
// case it reports success without delivering anything
func (m *Mailer) Send(ctx context.Context, req *core.Request, msg *core.MailMessage) error {
	if m.suppressor.PreSend(ctx, req) {
		// Report success-without-sending so the host pipeline proceeds
		return nil
	}

	msg = m.suppressor.FilterMessage(ctx, req, msg)
	m.suppressor.ScrubTransport(ctx, req, msg)

	return m.transport.Send(ctx, msg)
}
