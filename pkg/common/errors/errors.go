package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the f-streams-async library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrEnded indicates that a write was attempted after the end of a stream
	// was signalled
	ErrEnded = errors.New("stream already ended")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ProtocolError reports a violation of a codec's wire framing, such as a
// missing multipart boundary or a malformed header block.
type ProtocolError struct {
	// Codec identifies the codec that detected the violation ("multipart", "xml").
	Codec string

	// Reason describes what was wrong with the input.
	Reason string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol error: %s", e.Codec, e.Reason)
}

// NewProtocolError creates a ProtocolError for the given codec.
func NewProtocolError(codec, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Codec: codec, Reason: fmt.Sprintf(format, args...)}
}

// MalformedDocumentError reports a structural defect in a parsed document,
// identifying the offending construct. Parsers do not attempt recovery after
// returning one.
type MalformedDocumentError struct {
	// Construct names the construct that failed to parse ("close tag",
	// "cdata", "comment", "entity", ...).
	Construct string

	// Detail describes the defect.
	Detail string
}

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document: %s: %s", e.Construct, e.Detail)
}

// NewMalformedDocumentError creates a MalformedDocumentError for the given construct.
func NewMalformedDocumentError(construct, format string, args ...interface{}) *MalformedDocumentError {
	return &MalformedDocumentError{Construct: construct, Detail: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failure propagated from an underlying source or sink
// adapter, so codec-level failures can be told apart from transport ones.
type UpstreamError struct {
	// Op is the operation that was in flight ("read", "write", "flush").
	Op string

	// Err is the underlying adapter failure.
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an upstream failure of the given operation.
// Returns nil if err is nil.
func NewUpstreamError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsProtocol returns true if the error is a codec framing violation.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsMalformedDocument returns true if the error reports a structural document defect.
func IsMalformedDocument(err error) bool {
	var me *MalformedDocumentError
	return errors.As(err, &me)
}
