package diagnostics

import "fmt"

// Severity constants for entry classification.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
	SeverityTrace   = "trace"
)

// Entry is a single diagnostic event recorded while disassembling one
// image: a failed decode, a resynchronization skip, a stub instruction
// that could only be partially resolved.
//
// Entries are append-only — once created, their core fields are
// immutable. Only the optional fields (Bytes, hint) can be set via the
// With* chaining methods before the entry is considered complete.
type Entry struct {
	severity string
	phase    string
	message  string
	location Location
	bytes    []byte
	hint     string
}

// Severity returns the entry's severity level.
func (e *Entry) Severity() string { return e.severity }

// Phase returns the pipeline phase active when the entry was recorded.
func (e *Entry) Phase() string { return e.phase }

// Message returns the human-readable description.
func (e *Entry) Message() string { return e.message }

// Location returns the byte-stream position the entry refers to.
func (e *Entry) Location() Location { return e.location }

// Bytes returns the raw bytes under examination, or nil.
func (e *Entry) Bytes() []byte { return e.bytes }

// Hint returns the optional fix suggestion, or empty string.
func (e *Entry) Hint() string { return e.hint }

// WithBytes attaches the raw bytes that produced this entry and returns
// the same *Entry for chaining.
func (e *Entry) WithBytes(b []byte) *Entry {
	e.bytes = append([]byte(nil), b...)
	return e
}

// WithHint sets the fix suggestion and returns the same *Entry for chaining.
func (e *Entry) WithHint(text string) *Entry {
	e.hint = text
	return e
}

// String returns a single-line human-readable representation.
// Format: "severity [phase] location: message"
func (e *Entry) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", e.severity, e.phase, e.location.String(), e.message)
}
