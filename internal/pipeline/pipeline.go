package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// Mailer sends one outbound notification for a request
type Mailer interface {
	Send(ctx context.Context, req *core.Request, msg *core.MailMessage) error
}

// Result is the outcome of a processed submission
type Result struct {
	Accepted bool
	Message  string
}

// Pipeline is the host form pipeline: it invokes the enforcement policy at
// each phase boundary in order (validation, record creation, backup check,
// annotation mark, notification dispatch, end of request). Reject-mode
// aborts unwind the pipeline before any record is persisted or notification
// attempted.
type Pipeline struct {
	policy *core.EnforcementPolicy
	store  core.SubmissionStore
	mailer Mailer
	logger *zap.Logger
}

// New creates a new form pipeline
func New(policy *core.EnforcementPolicy, store core.SubmissionStore, mailer Mailer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		policy: policy,
		store:  store,
		mailer: mailer,
		logger: logger,
	}
}

// actionName returns the action-log name for the i-th notification. The
// first two mirror the host convention the annotator matches on.
func actionName(i int) string {
	if i == 0 {
		return "email"
	}
	return fmt.Sprintf("email%d", i+1)
}

// Process runs one submission through every phase. The returned Result
// reports a rejection as a normal outcome; an error is returned only for
// pipeline failures the host should surface.
func (p *Pipeline) Process(
	ctx context.Context,
	remoteAddr string,
	formID string,
	record *core.SubmissionRecord,
	notifications []*core.MailMessage,
) (*Result, error) {
	req := core.NewRequest(time.Now(), remoteAddr)
	// End-of-request phase runs unconditionally, even on abort
	defer p.policy.EndRequest(ctx, req)

	// Validation phase: may abort the whole pipeline
	if err := p.policy.ValidateSubmission(ctx, req, record); err != nil {
		var rejected *core.RejectedError
		if errors.As(err, &rejected) {
			return &Result{Accepted: false, Message: rejected.Message}, nil
		}
		return nil, err
	}

	// Record-creation phase. Persistence failures are the host's concern,
	// not a classification outcome; log and continue without an id.
	submissionID, err := p.store.CreateSubmission(ctx, formID, record)
	if err != nil {
		p.logger.Error("Failed to persist submission",
			zap.String("request_id", req.ID),
			zap.Error(err))
	} else {
		req.SetSubmissionID(submissionID)
	}

	// Backup check, in case validation was bypassed
	p.policy.RecheckOnRecord(ctx, req, record)

	// Late record-creation phase: mark for post-hoc annotation
	p.policy.MarkForAnnotation(ctx, req, formID)

	// Notification phases
	for i, msg := range notifications {
		name := actionName(i)
		if err := p.mailer.Send(ctx, req, msg); err != nil {
			p.logger.Error("Notification send failed",
				zap.String("request_id", req.ID),
				zap.String("action", name),
				zap.Error(err))
			p.writeActionLog(ctx, req, name, "Failed to send email")
			continue
		}
		p.writeActionLog(ctx, req, name, "Email sent")
	}

	return &Result{Accepted: true}, nil
}

func (p *Pipeline) writeActionLog(ctx context.Context, req *core.Request, name, log string) {
	if req.SubmissionID() == 0 {
		return
	}
	if err := p.store.WriteActionLog(ctx, req.SubmissionID(), name, log); err != nil {
		p.logger.Warn("Failed to write action log",
			zap.Int64("submission_id", req.SubmissionID()),
			zap.String("action", name),
			zap.Error(err))
	}
}
