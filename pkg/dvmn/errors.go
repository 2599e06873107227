package dvmn

import "fmt"

// TransportError means the request never produced a response: connection refused, dns failure, read timeout.
// These are expected to go away on their own.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("long polling transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError means a response arrived but could not be understood
type ProtocolError struct {
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("long polling protocol (status %d): %v", e.StatusCode, e.Err)
	}

	return fmt.Sprintf("long polling protocol: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
