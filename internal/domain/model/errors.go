package model

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. The concrete *TransportError and
// *ProtocolError types match them.
var (
	ErrTransport     = errors.New("homewizard: transport failure")
	ErrProtocol      = errors.New("homewizard: protocol error")
	ErrNotConfigured = errors.New("homewizard: not configured")
)

// TransportError reports a failure to reach the device or read its answer.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("homewizard %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ProtocolError reports a payload the device sent that could not be used:
// malformed JSON, a non-ok status marker or a missing field. Payload holds the
// raw body for diagnostics.
type ProtocolError struct {
	URL     string
	Reason  string
	Payload string
	Err     error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("homewizard %s: %s", e.URL, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Payload != "" {
		msg += "\n" + e.Payload
	}
	return msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }
