package core

import (
	"context"

	"go.uber.org/zap"
)

// EnforcementPolicy is the core service deciding what happens to a
// submission at each phase of the host pipeline. Settings are reloaded at
// the start of every classification so operator edits apply immediately.
type EnforcementPolicy struct {
	settings  SettingsSource
	tracker   SpamTracker
	annotator *Annotator
	logger    *zap.Logger
}

// NewEnforcementPolicy creates a new enforcement policy service
func NewEnforcementPolicy(
	settings SettingsSource,
	tracker SpamTracker,
	annotator *Annotator,
	logger *zap.Logger,
) *EnforcementPolicy {
	return &EnforcementPolicy{
		settings:  settings,
		tracker:   tracker,
		annotator: annotator,
		logger:    logger,
	}
}

// ValidateSubmission is the validation phase. It classifies the record and,
// on a match, marks the spam state. In reject mode it returns a
// *RejectedError carrying the configured message, which aborts the host
// pipeline; in silent mode the submission proceeds with notifications
// suppressed downstream.
func (p *EnforcementPolicy) ValidateSubmission(ctx context.Context, req *Request, record *SubmissionRecord) error {
	settings := p.settings.Load(ctx)

	content := ExtractContent(record, settings.FieldsToScan)
	keyword, ok := FindMatch(content, settings.Keywords)
	if !ok {
		return nil
	}

	p.tracker.Mark(ctx, req)

	if settings.Mode == ModeReject {
		p.logger.Info("Rejecting spam submission",
			zap.String("request_id", req.ID),
			zap.String("keyword", keyword))
		message := settings.RejectMessage
		if message == "" {
			message = DefaultRejectMessage
		}
		return &RejectedError{Message: message, Keyword: keyword}
	}

	p.logger.Info("Spam submission accepted silently, notifications will be suppressed",
		zap.String("request_id", req.ID),
		zap.String("keyword", keyword))
	return nil
}

// RecheckOnRecord is the backup classification of the record-creation phase.
// It only applies in silent mode and is skipped when the request is already
// flagged, making it idempotent with the validation phase. It exists in case
// the host bypassed validation entirely.
func (p *EnforcementPolicy) RecheckOnRecord(ctx context.Context, req *Request, record *SubmissionRecord) {
	if p.tracker.IsSpam(ctx, req) {
		return
	}

	settings := p.settings.Load(ctx)
	if settings.Mode != ModeSilent {
		return
	}

	content := ExtractContent(record, settings.FieldsToScan)
	keyword, ok := FindMatch(content, settings.Keywords)
	if !ok {
		return
	}

	p.tracker.Mark(ctx, req)
	p.logger.Info("Spam detected by backup check",
		zap.String("request_id", req.ID),
		zap.String("keyword", keyword))
}

// MarkForAnnotation is the late record-creation phase. If the request is
// flagged it raises the annotation request so the stored submission gets a
// visible blocked marker at end of request.
func (p *EnforcementPolicy) MarkForAnnotation(ctx context.Context, req *Request, formID string) {
	if !p.tracker.IsSpam(ctx, req) {
		return
	}
	req.RequestAnnotation(formID)
	p.logger.Debug("Submission marked for annotation",
		zap.String("request_id", req.ID),
		zap.String("form_id", formID))
}

// EndRequest is the terminal phase. It runs the annotator when one was
// requested and then unconditionally clears every spam-state backing,
// whether or not the request was ever flagged.
func (p *EnforcementPolicy) EndRequest(ctx context.Context, req *Request) {
	defer p.tracker.Clear(ctx, req)

	if req.AnnotationRequested() && p.annotator != nil {
		p.annotator.Annotate(ctx, req)
	}
}
