package table

import "fmt"

// FormatError is returned when a source cannot be read as a consistent
// tab-delimited matrix, or lacks the columns a caller requires.
type FormatError struct {
	Source   string
	Attempts int
	Reason   string
	Err      error
}

func (e *FormatError) Error() string {
	msg := "format error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" (after %d attempts)", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError marks the error as a format error.
func (e *FormatError) IsFormatError() {}
