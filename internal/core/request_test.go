package core

import (
	"testing"
	"time"
)

func TestRequestIdentityIsDeterministic(t *testing.T) {
	startedAt := time.Date(2024, time.March, 5, 10, 30, 0, 123456789, time.UTC)

	a := NewRequest(startedAt, "203.0.113.7")
	b := NewRequest(startedAt, "203.0.113.7")
	if a.ID != b.ID {
		t.Errorf("same start time and address must derive the same identity: %s != %s", a.ID, b.ID)
	}
}

func TestRequestIdentityIsUniqueAcrossRequests(t *testing.T) {
	startedAt := time.Date(2024, time.March, 5, 10, 30, 0, 123456789, time.UTC)

	byAddr := NewRequest(startedAt, "203.0.113.7")
	otherAddr := NewRequest(startedAt, "203.0.113.8")
	if byAddr.ID == otherAddr.ID {
		t.Error("different client addresses must derive different identities")
	}

	otherTime := NewRequest(startedAt.Add(time.Nanosecond), "203.0.113.7")
	if byAddr.ID == otherTime.ID {
		t.Error("different start times must derive different identities")
	}
}

func TestRequestLifecycleState(t *testing.T) {
	req := NewRequest(time.Now(), "203.0.113.7")

	if req.Flagged() {
		t.Error("fresh request must not be flagged")
	}
	req.Flag()
	if !req.Flagged() {
		t.Error("request must report flagged after Flag")
	}
	req.Unflag()
	if req.Flagged() {
		t.Error("request must report clean after Unflag")
	}

	if req.AnnotationRequested() {
		t.Error("fresh request must not request annotation")
	}
	req.RequestAnnotation("form-7")
	if !req.AnnotationRequested() || req.FormID() != "form-7" {
		t.Error("annotation request must be recorded with the form id")
	}

	req.SetSubmissionID(42)
	if req.SubmissionID() != 42 {
		t.Errorf("submission id = %d, want 42", req.SubmissionID())
	}
}
