package core

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Request carries the per-request state threaded through every phase of the
// host pipeline. Its identity is derived deterministically from the request
// start time and client address, so it is stable across phases of one
// request and never reused by an unrelated one. Phases of a single request
// are invoked sequentially by the host, so no locking is required here.
type Request struct {
	ID         string
	StartedAt  time.Time
	RemoteAddr string

	flagged      bool
	annotate     bool
	formID       string
	submissionID int64
}

// NewRequest computes the request identity and returns a fresh lifecycle
func NewRequest(startedAt time.Time, remoteAddr string) *Request {
	sum := md5.Sum([]byte(fmt.Sprintf("%d.%09d|%s", startedAt.Unix(), startedAt.Nanosecond(), remoteAddr)))
	return &Request{
		ID:         hex.EncodeToString(sum[:]),
		StartedAt:  startedAt,
		RemoteAddr: remoteAddr,
	}
}

// Flag marks this request instance as spam
func (r *Request) Flag() {
	r.flagged = true
}

// Unflag resets the instance-scoped flag
func (r *Request) Unflag() {
	r.flagged = false
}

// Flagged reports the instance-scoped flag
func (r *Request) Flagged() bool {
	return r.flagged
}

// RequestAnnotation asks for a post-hoc annotation of the stored submission
func (r *Request) RequestAnnotation(formID string) {
	r.annotate = true
	r.formID = formID
}

// AnnotationRequested reports whether annotation was requested
func (r *Request) AnnotationRequested() bool {
	return r.annotate
}

// FormID returns the form id recorded for annotation
func (r *Request) FormID() string {
	return r.formID
}

// SetSubmissionID records the persisted submission id, when the host makes
// one available to the pipeline
func (r *Request) SetSubmissionID(id int64) {
	r.submissionID = id
}

// SubmissionID returns the recorded submission id, zero when unknown
func (r *Request) SubmissionID() int64 {
	return r.submissionID
}
