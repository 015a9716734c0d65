package errors

import stderrors "errors"

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// ErrInvalidDepthLimit represents a depth limit outside the values the venue accepts.
	ErrInvalidDepthLimit ErrorCode = "invalid_depth_limit"
	// ErrInvalidUpdateSpeed represents a stream update interval the venue does not offer.
	ErrInvalidUpdateSpeed ErrorCode = "invalid_update_speed"

	// SnapshotFetchError represents a failure downloading the initial depth snapshot.
	SnapshotFetchError ErrorCode = "snapshot_fetch_error"
	// StreamConnectError represents a failure opening the depth update stream.
	StreamConnectError ErrorCode = "stream_connect_error"
	// StreamReadError represents a failure reading from the depth update stream.
	StreamReadError ErrorCode = "stream_read_error"
	// StreamDecodeError represents a depth stream message that could not be decoded.
	StreamDecodeError ErrorCode = "stream_decode_error"

	// SequenceGapError represents an update whose leading sequence marker does not
	// contiguously follow the local snapshot.
	SequenceGapError ErrorCode = "sequence_gap_error"
	// UpdateDroppedError represents an inbound update discarded because the queue was full.
	UpdateDroppedError ErrorCode = "update_dropped_error"
	// InternalInvariantError represents a broken internal assumption in the update cycle.
	InternalInvariantError ErrorCode = "internal_invariant_error"
)

// CodedError is an `error` carrying one of the ErrorCode values above so
// subscribers can classify failures without string matching.
type CodedError struct {
	Code ErrorCode
	Err  error
}

// NewCodedError creates a CodedError with the given code and underlying error.
func NewCodedError(code ErrorCode, err error) *CodedError {
	return &CodedError{Code: code, Err: err}
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CodedError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from anywhere in the error chain, or returns an
// empty code.
func CodeOf(err error) ErrorCode {
	var coded *CodedError
	if stderrors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
