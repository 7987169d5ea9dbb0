package common

import (
	"fmt"
	"github.com/pkg/errors"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// ErrCode classifies a failure by what it means for the connection it happened on
type ErrCode uint8

const (
	ErrCUnknown  ErrCode = iota // 0: Not produced by this module.
	ErrCProtocol                // 1: Malformed or desynchronized framing. Fatal to the connection.
	ErrCRemote                  // 2: The store replied with an error. The connection stays usable.
	ErrCIO                      // 3: Transport failure. Fatal to the connection.
	ErrCOther                   // 4: Misuse such as a reply shape mismatch. Fatal to the call only.
)

func (c ErrCode) String() string {
	switch c {
	case ErrCProtocol:
		return "protocol error"
	case ErrCRemote:
		return "remote error"
	case ErrCIO:
		return "io error"
	case ErrCOther:
		return "error"
	default:
		return "unknown error"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps an ErrCode with a message and an optional cause.
type Error struct {
	Code ErrCode // The error class
	Msg  string  // The error message
	Err  error   // The underlying cause (e.g. the net error for ErrCIO)
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	default:
		return e.Code.String()
	}
}

// Unwrap returns the cause so errors.Is / errors.As can look through the error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the same class,
// so errors.Is(err, ErrProtocol) matches every protocol error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrProtocol = &Error{Code: ErrCProtocol}
	ErrRemote   = &Error{Code: ErrCRemote}
	ErrIO       = &Error{Code: ErrCIO}
	ErrOther    = &Error{Code: ErrCOther}
)

// --------------------------------------------------------------------------
// Factory Functions
// --------------------------------------------------------------------------

// NewProtocolError creates a new ErrCProtocol error
func NewProtocolError(msg string) *Error {
	return &Error{Code: ErrCProtocol, Msg: msg}
}

// NewRemoteError creates a new ErrCRemote error carrying the text the store replied with
func NewRemoteError(msg string) *Error {
	return &Error{Code: ErrCRemote, Msg: msg}
}

// NewIOError creates a new ErrCIO error wrapping the transport failure
func NewIOError(cause error, msg string) *Error {
	return &Error{Code: ErrCIO, Msg: msg, Err: errors.WithStack(cause)}
}

// NewOtherError creates a new ErrCOther error
func NewOtherError(format string, args ...interface{}) *Error {
	return &Error{Code: ErrCOther, Msg: fmt.Sprintf(format, args...)}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// CodeOf returns the ErrCode of err, ErrCUnknown if err is not an *Error
func CodeOf(err error) ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCUnknown
}

// IsFatal reports whether the connection that produced err must be discarded.
// Errors that did not originate here are treated as fatal because the stream
// position can not be vouched for.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch CodeOf(err) {
	case ErrCRemote, ErrCOther:
		return false
	default:
		return true
	}
}
