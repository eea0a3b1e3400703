package mail

import (
	"context"

	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// Suppressor neutralizes outbound notifications for requests flagged as
// spam. It exposes three independent interception stages because the host
// notification pipeline offers no single reliable cancellation point across
// its versions: an early short-circuit, a message rewrite, and a last-resort
// scrub of the transport object. Each stage checks the spam state itself and
// is a safe no-op for clean requests, so the stages may run in any order and
// any subset.
type Suppressor struct {
	tracker core.SpamTracker
	logger  *zap.Logger
}

// NewSuppressor creates a new notification suppressor
func NewSuppressor(tracker core.SpamTracker, logger *zap.Logger) *Suppressor {
	return &Suppressor{
		tracker: tracker,
		logger:  logger,
	}
}

// PreSend is the earliest interception point. It returns true when the send
// should be skipped entirely; the caller must then report success without
// sending so the host pipeline does not error out.
func (s *Suppressor) PreSend(ctx context.Context, req *core.Request) bool {
	if !s.tracker.IsSpam(ctx, req) {
		return false
	}
	s.logger.Info("Suppressing notification before send",
		zap.String("request_id", req.ID))
	return true
}

// FilterMessage rewrites a flagged message to have no recipients, subject
// or body, so it cannot be delivered even if the pre-send stage was
// bypassed. Clean messages pass through untouched.
func (s *Suppressor) FilterMessage(ctx context.Context, req *core.Request, msg *core.MailMessage) *core.MailMessage {
	if !s.tracker.IsSpam(ctx, req) {
		return msg
	}
	s.logger.Info("Rewriting notification to empty message",
		zap.String("request_id", req.ID))
	msg.To = nil
	msg.Subject = ""
	msg.Body = ""
	return msg
}

// ScrubTransport is the last-resort stage, run immediately before the
// literal transport call. It clears every field of the message so that even
// a fully populated one cannot be delivered.
func (s *Suppressor) ScrubTransport(ctx context.Context, req *core.Request, msg *core.MailMessage) {
	if !s.tracker.IsSpam(ctx, req) {
		return
	}
	s.logger.Info("Scrubbing transport message",
		zap.String("request_id", req.ID))
	msg.To = nil
	msg.ReplyTo = nil
	msg.Subject = ""
	msg.Body = ""
	msg.AltBody = ""
	msg.Headers = nil
	msg.Attachments = nil
}
