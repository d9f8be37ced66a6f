package analyze

import (
	"errors"
	"fmt"
)

// Reason says which step of parsing failed. Each Reason is also an error, so
// errors.Is(err, ReasonCalendarMethod) tells a bad invite apart from other
// failures.
type Reason int

// Reasons for a ParseError.
const (
	// ReasonStructure is a document that cannot be split into parts.
	ReasonStructure Reason = iota + 1

	// ReasonDisposition is a Content-Disposition with no disposition.
	ReasonDisposition

	// ReasonContent is a text body that cannot be read.
	ReasonContent

	// ReasonCalendarMethod is a calendar body with no iTIP method in either
	// its Content-Type or its content.
	ReasonCalendarMethod

	// ReasonContentID is a part with conflicting Content-ID fields.
	ReasonContentID

	// ReasonFilename is a file name that cannot be decoded.
	ReasonFilename

	// ReasonReadContent is resource data that cannot be read.
	ReasonReadContent

	// ReasonDecodeText is a text body in an unknown charset.
	ReasonDecodeText

	// ReasonAddress is a notification or bounce address that does not parse.
	ReasonAddress

	// ReasonNestingTooDeep is multipart nesting beyond the maximum depth.
	ReasonNestingTooDeep

	// ReasonTransform is a failed pre-transform.
	ReasonTransform
)

var reasonNames = map[Reason]string{
	ReasonStructure:      "bad message structure",
	ReasonDisposition:    "bad content disposition",
	ReasonContent:        "unreadable text content",
	ReasonCalendarMethod: "calendar method not found",
	ReasonContentID:      "bad content-id",
	ReasonFilename:       "bad file name",
	ReasonReadContent:    "unreadable resource content",
	ReasonDecodeText:     "unsupported text charset",
	ReasonAddress:        "bad address",
	ReasonNestingTooDeep: "multipart nesting too deep",
	ReasonTransform:      "transform failed",
}

func (r Reason) String() string {
	if n, ok := reasonNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

func (r Reason) Error() string {
	return r.String()
}

// ParseError reports why a document could not be parsed.
type ParseError struct {
	Reason Reason

	// Detail names the header, part or value involved.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

func newError(r Reason, detail string, err error) *ParseError {
	return &ParseError{Reason: r, Detail: detail, Err: err}
}

func (e *ParseError) Error() string {
	msg := e.Reason.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// asParseError returns err as a *ParseError, wrapping it with r if it is
// something else.
func asParseError(r Reason, detail string, err error) *ParseError {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr
	}
	return newError(r, detail, err)
}
