package compose

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableResource is the reason when the content of a resource or
	// of the forwarded message cannot be read.
	ErrUnreadableResource = errors.New("resource cannot be read")

	// ErrEmptyContainer is the reason when a container would have no parts.
	ErrEmptyContainer = errors.New("container would be empty")

	// ErrUnattachableContainer is the reason when a container cannot be given
	// a usable boundary.
	ErrUnattachableContainer = errors.New("container cannot be attached")

	// ErrUnreachableShape is the panic value of Select and Shape.Content
	// when the shape table is not total.
	ErrUnreachableShape = errors.New("no shape for content")
)

// ProductionError is returned when a tree cannot be built. errors.Is matches
// both the Reason and the cause.
type ProductionError struct {
	// Reason is one of the Err* reasons of this package.
	Reason error

	// Resource names the resource or container involved, if any.
	Resource string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ProductionError) Error() string {
	msg := e.Reason.Error()
	if e.Resource != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Resource)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProductionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	for _, err := range []error{e.Reason, e.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
