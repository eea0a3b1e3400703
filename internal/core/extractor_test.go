package core

import (
	"testing"
)

func TestExtractContentSelectsConfiguredFieldsOnly(t *testing.T) {
	record := &SubmissionRecord{Fields: []FormField{
		{Key: "field_1", ID: "subject", Value: "buy backlink"},
		{Key: "field_2", Value: "hello"},
	}}

	got := ExtractContent(record, []string{"subject"})
	if got != "buy backlink" {
		t.Errorf("ExtractContent = %q, want %q", got, "buy backlink")
	}
}

func TestExtractContentFieldIdentifiers(t *testing.T) {
	tests := []struct {
		name      string
		field     FormField
		selectors []string
		want      bool
	}{
		{
			name:      "match by key",
			field:     FormField{Key: "subject", Value: "v"},
			selectors: []string{"subject"},
			want:      true,
		},
		{
			name:      "match by id",
			field:     FormField{Key: "field_3", ID: "subject", Value: "v"},
			selectors: []string{"subject"},
			want:      true,
		},
		{
			name:      "match by title",
			field:     FormField{Key: "field_3", Title: "Subject", Value: "v"},
			selectors: []string{"subject"},
			want:      true,
		},
		{
			name:      "selector comparison is case-insensitive",
			field:     FormField{Key: "SUBJECT", Value: "v"},
			selectors: []string{"Subject"},
			want:      true,
		},
		{
			name:      "message selector includes textarea fields",
			field:     FormField{Key: "field_9", Type: "textarea", Value: "v"},
			selectors: []string{"message"},
			want:      true,
		},
		{
			name:      "message selector ignores single-line fields",
			field:     FormField{Key: "field_9", Type: "text", Value: "v"},
			selectors: []string{"message"},
			want:      false,
		},
		{
			name:      "other selectors do not include textarea fields",
			field:     FormField{Key: "field_9", Type: "textarea", Value: "v"},
			selectors: []string{"subject"},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &SubmissionRecord{Fields: []FormField{tt.field}}
			got := ExtractContent(record, tt.selectors)
			if (got != "") != tt.want {
				t.Errorf("ExtractContent = %q, included = %t, want %t", got, got != "", tt.want)
			}
		})
	}
}

func TestExtractContentJoinsInRecordOrder(t *testing.T) {
	record := &SubmissionRecord{Fields: []FormField{
		{Key: "subject", Value: "first"},
		{Key: "other", Value: "skipped"},
		{Key: "message", Type: "textarea", Value: "second"},
	}}

	got := ExtractContent(record, []string{"subject", "message"})
	if got != "first second" {
		t.Errorf("ExtractContent = %q, want %q", got, "first second")
	}
}

func TestExtractContentSkipsEmptyValues(t *testing.T) {
	record := &SubmissionRecord{Fields: []FormField{
		{Key: "subject", Value: ""},
		{Key: "message", Type: "textarea", Value: "body"},
	}}

	got := ExtractContent(record, []string{"subject", "message"})
	if got != "body" {
		t.Errorf("ExtractContent = %q, want %q", got, "body")
	}
}

func TestExtractContentDegenerateInput(t *testing.T) {
	if got := ExtractContent(nil, []string{"subject"}); got != "" {
		t.Errorf("nil record should yield empty content, got %q", got)
	}
	record := &SubmissionRecord{Fields: []FormField{{Key: "subject", Value: "v"}}}
	if got := ExtractContent(record, nil); got != "" {
		t.Errorf("empty selector set should yield empty content, got %q", got)
	}
}
