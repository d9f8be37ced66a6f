package compose

import (
	"github.com/rs/zerolog"

	"github.com/zostay/go-email-codec/message"
)

// Transformer replaces a finished tree, for example with a signed or
// encrypted one.
type Transformer func(message.Generic) (message.Generic, error)

// Option configures Compose and Build.
type Option func(*composer)

type composer struct {
	logger       zerolog.Logger
	transformers []Transformer
	boundary     func() string
}

func newComposer(opts []Option) *composer {
	c := &composer{
		logger:   zerolog.Nop(),
		boundary: message.GenerateBoundary,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *composer) {
		c.logger = logger
	}
}

// WithTransformer adds a Transformer run by Compose on the finished tree.
// Transformers run in the order added.
func WithTransformer(t Transformer) Option {
	return func(c *composer) {
		c.transformers = append(c.transformers, t)
	}
}

// WithBoundaryGenerator replaces message.GenerateBoundary as the source of
// container boundaries.
func WithBoundaryGenerator(gen func() string) Option {
	return func(c *composer) {
		c.boundary = gen
	}
}
