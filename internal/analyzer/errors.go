package analyzer

import (
	"errors"
	"fmt"
)

// Kind classifies why an analysis failed.
type Kind int

const (
	KindUnknown Kind = iota
	// KindMissingCredential means no API key was supplied; the model was not called.
	KindMissingCredential
	// KindMissingMeeting means the meeting name was blank; the model was not called.
	KindMissingMeeting
	// KindInvalidQuery covers any other bad input field.
	KindInvalidQuery
	// KindRemoteCall is a network or service failure from the model API.
	KindRemoteCall
	// KindMalformedResponse means the model answered but not with the expected JSON.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindMissingMeeting:
		return "missing_meeting"
	case KindInvalidQuery:
		return "invalid_query"
	case KindRemoteCall:
		return "remote_call_failure"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Input reports whether the failure was caused by the caller's input rather
// than the model.
func (k Kind) Input() bool {
	return k == KindMissingCredential || k == KindMissingMeeting || k == KindInvalidQuery
}

var ErrMissingCredential = errors.New("API key is required")

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of err, or KindUnknown if err did not come from
// the analyzer.
func KindOf(err error) Kind {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Kind
	}
	return KindUnknown
}
