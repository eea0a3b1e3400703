package mail

import (
	"context"
	"testing"
	"time"

	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

type fakeTracker struct {
	marked map[string]bool
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{marked: make(map[string]bool)}
}

func (t *fakeTracker) Mark(ctx context.Context, req *core.Request) {
	req.Flag()
	t.marked[req.ID] = true
}

func (t *fakeTracker) IsSpam(ctx context.Context, req *core.Request) bool {
	return req.Flagged() || t.marked[req.ID]
}

func (t *fakeTracker) Clear(ctx context.Context, req *core.Request) {
	req.Unflag()
	delete(t.marked, req.ID)
}

type recordingTransport struct {
	delivered []*core.MailMessage
}

func (t *recordingTransport) Send(ctx context.Context, msg *core.MailMessage) error {
	if len(msg.To) == 0 {
		return nil
	}
	t.delivered = append(t.delivered, msg)
	return nil
}

func testMessage() *core.MailMessage {
	return &core.MailMessage{
		To:      []string{"ops@example.test"},
		ReplyTo: []string{"sender@example.test"},
		Subject: "New form submission",
		Body:    "hello",
		AltBody: "hello",
		Headers: map[string][]string{"X-Form": {"contact"}},
		Attachments: []core.Attachment{
			{Filename: "upload.txt", Content: []byte("data")},
		},
	}
}

func TestSuppressorStagesPassCleanRequestsThrough(t *testing.T) {
	tracker := newFakeTracker()
	suppressor := NewSuppressor(tracker, zap.NewNop())
	ctx := context.Background()
	req := core.NewRequest(time.Now(), "203.0.113.7")
	msg := testMessage()

	if suppressor.PreSend(ctx, req) {
		t.Error("pre-send must not short-circuit a clean request")
	}
	suppressor.FilterMessage(ctx, req, msg)
	suppressor.ScrubTransport(ctx, req, msg)

	if len(msg.To) != 1 || msg.Subject == "" || msg.Body == "" {
		t.Error("clean message must pass through every stage untouched")
	}
}

func TestSuppressorPreSendShortCircuits(t *testing.T) {
	tracker := newFakeTracker()
	suppressor := NewSuppressor(tracker, zap.NewNop())
	ctx := context.Background()
	req := core.NewRequest(time.Now(), "203.0.113.7")
	tracker.Mark(ctx, req)

	if !suppressor.PreSend(ctx, req) {
		t.Error("pre-send must short-circuit a flagged request")
	}
}

func TestSuppressorFilterMessageEmptiesEnvelope(t *testing.T) {
	tracker := newFakeTracker()
	suppressor := NewSuppressor(tracker, zap.NewNop())
	ctx := context.Background()
	req := core.NewRequest(time.Now(), "203.0.113.7")
	tracker.Mark(ctx, req)

	msg := suppressor.FilterMessage(ctx, req, testMessage())
	if len(msg.To) != 0 || msg.Subject != "" || msg.Body != "" {
		t.Error("filtered message must have no recipients, subject or body")
	}
}

func TestSuppressorScrubClearsEveryField(t *testing.T) {
	tracker := newFakeTracker()
	suppressor := NewSuppressor(tracker, zap.NewNop())
	ctx := context.Background()
	req := core.NewRequest(time.Now(), "203.0.113.7")
	tracker.Mark(ctx, req)

	msg := testMessage()
	suppressor.ScrubTransport(ctx, req, msg)

	if len(msg.To) != 0 || len(msg.ReplyTo) != 0 || msg.Subject != "" ||
		msg.Body != "" || msg.AltBody != "" || msg.Headers != nil || msg.Attachments != nil {
		t.Errorf("scrubbed message must be fully cleared: %+v", msg)
	}
}

func TestSuppressorStagesAreIdempotent(t *testing.T) {
	tracker := newFakeTracker()
	suppressor := NewSuppressor(tracker, zap.NewNop())
	ctx := context.Background()
	req := core.NewRequest(time.Now(), "203.0.113.7")
	tracker.Mark(ctx, req)

	msg := testMessage()
	// Stages may run in any order, any number of times
	suppressor.ScrubTransport(ctx, req, msg)
	suppressor.FilterMessage(ctx, req, msg)
	suppressor.ScrubTransport(ctx, req, msg)

	if len(msg.To) != 0 {
		t.Error("repeated stages must leave the message neutralized")
	}
}

func TestMailerSuppressesFlaggedRequests(t *testing.T) {
	tracker := newFakeTracker()
	transport := &recordingTransport{}
	mailer := NewMailer(transport, NewSuppressor(tracker, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	req := core.NewRequest(time.Now(), "203.0.113.7")
	tracker.Mark(ctx, req)

	// Success-without-sending: the host pipeline must not see an error
	if err := mailer.Send(ctx, req, testMessage()); err != nil {
		t.Fatalf("suppressed send must report success, got %v", err)
	}
	if len(transport.delivered) != 0 {
		t.Errorf("flagged request produced %d deliveries, want 0", len(transport.delivered))
	}
}

func TestMailerDeliversCleanRequests(t *testing.T) {
	tracker := newFakeTracker()
	transport := &recordingTransport{}
	mailer := NewMailer(transport, NewSuppressor(tracker, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	req := core.NewRequest(time.Now(), "203.0.113.7")
	if err := mailer.Send(ctx, req, testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(transport.delivered) != 1 {
		t.Errorf("clean request produced %d deliveries, want 1", len(transport.delivered))
	}
}

func TestMailerIsolatesConcurrentRequests(t *testing.T) {
	tracker := newFakeTracker()
	transport := &recordingTransport{}
	mailer := NewMailer(transport, NewSuppressor(tracker, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	spam := core.NewRequest(time.Now(), "203.0.113.7")
	clean := core.NewRequest(time.Now().Add(time.Millisecond), "198.51.100.4")
	tracker.Mark(ctx, spam)

	if err := mailer.Send(ctx, spam, testMessage()); err != nil {
		t.Fatalf("Send(spam): %v", err)
	}
	if err := mailer.Send(ctx, clean, testMessage()); err != nil {
		t.Fatalf("Send(clean): %v", err)
	}

	if len(transport.delivered) != 1 {
		t.Fatalf("deliveries = %d, want exactly the clean request's", len(transport.delivered))
	}
}
