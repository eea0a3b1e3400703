package core

import (
	"context"

	"go.uber.org/zap"
)

const (
	// AnnotationKey is the field key added to a blocked submission
	AnnotationKey = "Spam Status"
	// AnnotationValue is the value stored under AnnotationKey
	AnnotationValue = "Email blocked by Spam Blocker"
	// AnnotationLog replaces the log of suppressed email actions
	AnnotationLog = "Blocked by Spam Blocker (email not sent)"
)

// emailActionNames are the action-log entries rewritten by the annotator
var emailActionNames = []string{"email", "email2"}

// Annotator tags a persisted submission as blocked, for operator
// visibility. It is best effort: every failure is logged and swallowed,
// and it never affects whether mail was actually suppressed.
//
// When the pipeline did not thread a submission id through the request, the
// annotator falls back to the most recently created submission. That lookup
// is racy under concurrent submissions; it is kept as a known limitation
// rather than papered over with an id-correlation scheme the host does not
// provide.
type Annotator struct {
	store  SubmissionStore
	logger *zap.Logger
}

// NewAnnotator creates a new submission annotator
func NewAnnotator(store SubmissionStore, logger *zap.Logger) *Annotator {
	return &Annotator{
		store:  store,
		logger: logger,
	}
}

// Annotate writes the blocked markers for the request's submission
func (a *Annotator) Annotate(ctx context.Context, req *Request) {
	id := req.SubmissionID()
	if id == 0 {
		latest, err := a.store.LatestSubmissionID(ctx)
		if err != nil {
			a.logger.Warn("No submission found to annotate",
				zap.String("request_id", req.ID),
				zap.Error(err))
			return
		}
		id = latest
	}

	if err := a.store.AppendValue(ctx, id, AnnotationKey, AnnotationValue); err != nil {
		a.logger.Warn("Failed to append spam status value",
			zap.Int64("submission_id", id),
			zap.Error(err))
	}

	for _, action := range emailActionNames {
		if err := a.store.UpdateActionLog(ctx, id, action, AnnotationLog); err != nil {
			a.logger.Warn("Failed to update action log",
				zap.Int64("submission_id", id),
				zap.String("action", action),
				zap.Error(err))
		}
	}

	a.logger.Info("Annotated blocked submission", zap.Int64("submission_id", id))
}
