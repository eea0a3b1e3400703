package core

import (
	"strings"
)

// multiLineFieldType is the field type matched by the "message" selector
// even when the field carries no matching key, id or title. This keeps
// configurations portable across forms that never assign custom ids.
const multiLineFieldType = "textarea"

// ExtractContent collects the scannable text of a submission record. A field
// is included when its key, id or title case-insensitively equals one of the
// configured selectors, or when the selectors contain "message" and the
// field is a multi-line text field. Non-empty values of included fields are
// joined with a single space in record order. Returns "" when nothing
// matched, which the matcher treats as "no match".
func ExtractContent(record *SubmissionRecord, fieldsToScan []string) string {
	if record == nil || len(fieldsToScan) == 0 {
		return ""
	}

	selectors := make(map[string]struct{}, len(fieldsToScan))
	for _, selector := range fieldsToScan {
		selector = strings.ToLower(strings.TrimSpace(selector))
		if selector != "" {
			selectors[selector] = struct{}{}
		}
	}
	_, scanMessageTypes := selectors["message"]

	var parts []string
	for _, field := range record.Fields {
		if !shouldScan(field, selectors, scanMessageTypes) {
			continue
		}
		if field.Value != "" {
			parts = append(parts, field.Value)
		}
	}

	return strings.Join(parts, " ")
}

func shouldScan(field FormField, selectors map[string]struct{}, scanMessageTypes bool) bool {
	for _, name := range []string{field.Key, field.ID, field.Title} {
		if name == "" {
			continue
		}
		if _, ok := selectors[strings.ToLower(name)]; ok {
			return true
		}
	}
	if scanMessageTypes && strings.ToLower(field.Type) == multiLineFieldType {
		return true
	}
	return false
}
