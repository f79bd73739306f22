package offers

import "errors"

// ErrorCode categorizes a domain failure for the request boundary.
type ErrorCode string

const (
	CodeNotFound   ErrorCode = "not_found"
	CodeBadRequest ErrorCode = "bad_request"
)

// Error is a categorized domain error. Failures raise at the point of
// detection and propagate to the boundary unrecovered; there is no partial
// result policy.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity or a value required for a
// comparison that could not be resolved.
func NotFoundError(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// BadRequestError reports invalid input or a missing analysis prerequisite.
func BadRequestError(msg string) *Error {
	return &Error{Code: CodeBadRequest, Message: msg}
}

// CodeOf returns the domain error code in err's chain, or "" when the error
// is uncategorized (treated as internal by the API layer).
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
