package table

import "errors"

// Error is the error kind raised by report collaborators (columns, lines,
// document builders) to signal a reportable problem. It carries two
// independent flags: IsError marks a problem that must be reported, IsFatal
// marks a problem that must abort processing.
//
// The rendering core never creates an Error itself. It passes errors from
// collaborators through unchanged so callers can classify them with
// errors.As or IsFatal.
type Error struct {
	// Msg is the human-readable description of the problem.
	Msg string

	// Err is the underlying cause, if any.
	Err error

	isError bool
	fatal   bool
}

// NewError returns a non-fatal Error. The error flag is set.
func NewError(msg string) *Error {
	return &Error{Msg: msg, isError: true}
}

// NewFatalError returns an Error with both the error and fatal flags set.
func NewFatalError(msg string) *Error {
	return &Error{Msg: msg, isError: true, fatal: true}
}

// Wrap returns an Error that wraps err. The error flag is always set.
func Wrap(err error, fatal bool) *Error {
	return &Error{Msg: err.Error(), Err: err, isError: true, fatal: fatal}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether the error flag is set.
func (e *Error) IsError() bool {
	return e.isError
}

// IsFatal reports whether the fatal flag is set.
func (e *Error) IsFatal() bool {
	return e.fatal
}

// IsFatal reports whether err is, or wraps, an *Error with the fatal flag set.
func IsFatal(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.IsFatal()
	}
	return false
}
