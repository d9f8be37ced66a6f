// Package walk visits the parts of a MIME tree.
package walk

import (
	"errors"

	"github.com/zostay/go-email-codec/message"
)

// ErrSkipParts may be returned by a Processor for a container to skip its
// sub-parts. AndProcess does not return it.
var ErrSkipParts = errors.New("skip the sub-parts of this part")

// Processor is called for every part by AndProcess. parents lists the
// containers above the part, outermost first; it is empty for the part
// AndProcess started on. It must not be retained after the call returns.
//
// Returning an error other than ErrSkipParts stops the walk.
type Processor func(part message.Part, parents []message.Part) error

// AndProcess walks msg depth-first, parents before children, calling
// processor on each part. It returns the first error from processor.
func AndProcess(processor Processor, msg message.Part) error {
	return andProcess(processor, msg, make([]message.Part, 0, 4))
}

func andProcess(processor Processor, part message.Part, parents []message.Part) error {
	err := processor(part, parents)
	if errors.Is(err, ErrSkipParts) {
		return nil
	}
	if err != nil {
		return err
	}

	if !part.IsMultipart() {
		return nil
	}

	parents = append(parents, part)
	for _, subPart := range part.GetParts() {
		if err := andProcess(processor, subPart, parents); err != nil {
			return err
		}
	}

	return nil
}
