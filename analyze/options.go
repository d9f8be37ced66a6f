package analyze

import (
	"github.com/rs/zerolog"

	"github.com/zostay/go-email-codec/message"
)

// DefaultMaxDepth is how deep multipart may nest before parsing fails.
const DefaultMaxDepth = 32

// Option configures Parse and ParseReader.
type Option func(*parser)

// ContentHandler adds a part it has been matched with to the result.
type ContentHandler func(r *Result, p *Part) error

// WithFetchAttachmentData chooses whether resource data is read during the
// parse, giving each resource an email.BytesSource, or left in the part,
// giving a single-use email.ReaderSource. It is read by default.
func WithFetchAttachmentData(fetch bool) Option {
	return func(pr *parser) {
		pr.fetch = fetch
	}
}

// WithMaxDepth sets how deep multipart may nest. A negative depth removes
// the limit.
func WithMaxDepth(depth int) Option {
	return func(pr *parser) {
		pr.maxDepth = depth
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(pr *parser) {
		pr.logger = logger
	}
}

// WithContentHandler puts a handler in front of the built-in ones. The first
// handler whose match returns true for a part handles it. Handlers added
// later are consulted first.
func WithContentHandler(match func(*Part) bool, handle ContentHandler) Option {
	return func(pr *parser) {
		pr.custom = append([]route{{
			name:  "custom",
			match: func(_ *Result, p *Part) bool { return match(p) },
			handle: func(acc Result, p *Part) (Result, error) {
				if err := handle(&acc, p); err != nil {
					return acc, asParseError(ReasonContent, p.MediaType, err)
				}
				return acc, nil
			},
		}}, pr.custom...)
	}
}

// WithPreTransform adds a step run on the tree before it is analyzed, such as
// decryption or signature removal. Steps run in the order added.
func WithPreTransform(t func(message.Generic) (message.Generic, error)) Option {
	return func(pr *parser) {
		pr.preTransforms = append(pr.preTransforms, t)
	}
}
