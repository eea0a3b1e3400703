package core

// Mode controls what happens to a submission once a blocked keyword is found
type Mode int

const (
	// ModeReject aborts the submission with a visible error message
	ModeReject Mode = iota
	// ModeSilent accepts the submission but suppresses all outbound notifications
	ModeSilent
)

// ParseMode parses a mode name, defaulting to ModeReject for unknown values
func ParseMode(s string) Mode {
	if s == "silent" {
		return ModeSilent
	}
	return ModeReject
}

// String returns the mode name
func (m Mode) String() string {
	if m == ModeSilent {
		return "silent"
	}
	return "reject"
}

// DefaultRejectMessage is shown when no rejection message is configured
const DefaultRejectMessage = "Your message could not be sent. Please try again later."

// Settings is an immutable snapshot of the blocklist configuration.
// It is reloaded at the start of each classification phase so that
// concurrent edits take effect without a restart.
type Settings struct {
	Keywords      []string
	Mode          Mode
	FieldsToScan  []string
	RejectMessage string
}

// FormField describes a single field of a submitted form. Users may
// reference a field by its key, id or title, so all three are kept.
type FormField struct {
	Key   string
	ID    string
	Title string
	Type  string
	Value string
}

// SubmissionRecord is a structured form submission as handed over by the
// host pipeline. The core never mutates it. Field order is the record's
// iteration order and determines how extracted content is joined.
type SubmissionRecord struct {
	Fields []FormField
}

// Attachment is a file attached to an outbound notification
type Attachment struct {
	Filename string
	Content  []byte
}

// MailMessage is an outbound notification before it reaches the transport
type MailMessage struct {
	To          []string
	ReplyTo     []string
	Subject     string
	Body        string
	AltBody     string
	Headers     map[string][]string
	Attachments []Attachment
}

// RejectedError is the structured abort returned in reject mode when a
// submission matched a blocked keyword. It is intentional control flow,
// not a failure of the pipeline itself.
type RejectedError struct {
	Message string
	Keyword string
}

// Error returns the operator-configured rejection message
func (e *RejectedError) Error() string {
	return e.Message
}
