package ui

import (
	"encoding/json"
	"io"
)

// Severity picks the colour a value is rendered with.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarn
	SeverityError
	SeverityCritical
)

// StyledText is a value with a severity. It marshals to JSON as its
// plain text.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is everything commands use to talk to the user. TerminalUI is the
// real one, RecordingUI captures output and serves scripted answers in
// tests.
type UI interface {
	// Style colours t for embedding in a larger line. Without colours the
	// text is returned as is.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error only prints. Whether the command fails is up to the caller.
	Error(format string, args ...any)
	// Critical is for data the user must check, such as the tx they are
	// about to sign or just broadcasted.
	Critical(format string, args ...any)

	// Section prints a "===== title =====" separator.
	Section(title string)
	// KeyValue prints label/value rows with aligned values.
	KeyValue(rows [][2]string)
	// Table prints a bordered table. A nil header skips the header row.
	Table(headers []string, rows [][]string)
	// JSON prints v as indented json, used by --json.
	JSON(v any) error

	// Spinner shows msg until the returned stop function is called.
	Spinner(msg string) func()

	// Ask reads a line, repeating until validate accepts it.
	Ask(validate func(string) error) string
	// Password reads a line without echoing it.
	Password(prompt string) string
	Confirm(prompt string, defaultYes bool) bool

	// Indent returns a child UI one level deeper sharing the same streams.
	Indent() UI
	Writer() io.Writer
}
