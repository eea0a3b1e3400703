package core

import (
	"context"
	"time"
)

// SettingsSource provides the blocklist settings. Load is called at the
// start of every classification phase and must degrade malformed or missing
// configuration to safe defaults instead of failing.
type SettingsSource interface {
	Load(ctx context.Context) Settings
}

// SpamTracker tracks the per-request spam flag across the redundant
// backings (request instance, process-wide registry, durable fallback)
type SpamTracker interface {
	// Mark flags the request as spam in every backing
	Mark(ctx context.Context, req *Request)

	// IsSpam reports whether any backing flags the request
	IsSpam(ctx context.Context, req *Request) bool

	// Clear unconditionally resets every backing for the request
	Clear(ctx context.Context, req *Request)
}

// FlagStore is the short-lived durable fallback behind the tracker. Entries
// carry an absolute expiry to bound leakage if the end-of-request clear is
// ever skipped.
type FlagStore interface {
	// Set stores the flag for a request id with an absolute TTL
	Set(ctx context.Context, requestID string, ttl time.Duration) error

	// Get reports whether an unexpired flag exists for the request id
	Get(ctx context.Context, requestID string) (bool, error)

	// Clear removes the flag for a request id
	Clear(ctx context.Context, requestID string) error
}

// SubmissionStore persists submissions, their field values and the per-action
// log. The annotator performs best-effort writes through it.
type SubmissionStore interface {
	// CreateSubmission stores a submission and its field values, returning
	// the new submission id
	CreateSubmission(ctx context.Context, formID string, record *SubmissionRecord) (int64, error)

	// LatestSubmissionID returns the id of the most recently created submission
	LatestSubmissionID(ctx context.Context) (int64, error)

	// AppendValue adds a field value row to an existing submission
	AppendValue(ctx context.Context, submissionID int64, key, value string) error

	// WriteActionLog records a log entry for an action of a submission
	WriteActionLog(ctx context.Context, submissionID int64, actionName, log string) error

	// UpdateActionLog rewrites the log of an existing action entry
	UpdateActionLog(ctx context.Context, submissionID int64, actionName, log string) error
}

// MailTransport performs the literal delivery of an outbound notification.
// Implementations must treat a message without recipients as already
// delivered so that a scrubbed message cannot produce an error.
type MailTransport interface {
	Send(ctx context.Context, msg *MailMessage) error
}
