package message

import (
	"fmt"
	"io"

	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/header/param"
)

// Part is a node of a MIME tree: either a leaf with a body or a container
// with sub-parts.
//
// IsMultipart tells the two apart. GetReader returns nil for a container and
// GetParts returns nil for a leaf. A leaf may still hold a serialized
// multipart body, as Parse leaves nesting past its maximum depth unparsed.
type Part interface {
	io.WriterTo

	// IsMultipart returns true for a container.
	IsMultipart() bool

	// IsEncoded returns true when GetReader returns bytes with the
	// Content-Transfer-Encoding still applied. Always false for a container.
	IsEncoded() bool

	// GetHeader returns the header of the part.
	GetHeader() *header.Header

	// GetReader returns the body of a leaf.
	GetReader() io.Reader

	// GetParts returns the sub-parts of a container.
	GetParts() []Part
}

// Generic is a Part that may be a whole message rather than a sub-part. It
// is always either a *Opaque or a *Multipart, so a type switch over those two
// is exhaustive.
type Generic = Part

// Multipart is a container entity whose Content-Type is multipart/*.
type Multipart struct {
	header.Header

	// prefix and suffix hold the preamble before the first boundary and the
	// epilogue after the closing one, kept for byte-for-byte round trips.
	//
	// A nil prefix means there was no opening boundary and none is written. A
	// non-empty prefix must end in a line break.
	//
	// A nil suffix means there was no closing boundary and none is written. A
	// non-empty suffix must start with a line break.
	prefix, suffix []byte

	parts []Part
}

// NewMultipart returns a container of the given subtype, such as "mixed",
// with the given boundary and parts. Its preamble and epilogue are empty.
func NewMultipart(subtype, boundary string, parts ...Part) *Multipart {
	m := &Multipart{
		prefix: []byte{},
		suffix: []byte{},
		parts:  parts,
	}
	m.SetContentType(param.NewWithParams("multipart/"+subtype, map[string]string{
		param.Boundary: boundary,
	}))
	return m
}

// MultipartMixed returns a multipart/mixed container with a generated
// boundary.
func MultipartMixed(parts ...Part) *Multipart {
	return NewMultipart("mixed", GenerateBoundary(), parts...)
}

// MultipartRelated returns a multipart/related container with a generated
// boundary.
func MultipartRelated(parts ...Part) *Multipart {
	return NewMultipart("related", GenerateBoundary(), parts...)
}

// MultipartAlternative returns a multipart/alternative container with a
// generated boundary.
func MultipartAlternative(parts ...Part) *Multipart {
	return NewMultipart("alternative", GenerateBoundary(), parts...)
}

// WriteTo writes the header and parts. It fails when the Content-Type has no
// boundary. It consumes the bodies of every leaf, so it may only be called
// once.
func (mm *Multipart) WriteTo(w io.Writer) (int64, error) {
	if _, err := mm.GetBoundary(); err != nil {
		return 0, err
	}

	n, err := mm.Header.WriteTo(w)
	if err != nil {
		return n, err
	}

	bn, err := mm.writeBody(w)
	return n + bn, err
}

// writeBody writes the preamble, the parts between boundaries, and the
// epilogue.
func (mm *Multipart) writeBody(w io.Writer) (int64, error) {
	boundary, err := mm.GetBoundary()
	if err != nil {
		return 0, err
	}

	br := mm.Break()

	n := int64(0)
	write := func(format string, args ...any) error {
		bn, err := fmt.Fprintf(w, format, args...)
		n += int64(bn)
		return err
	}

	if err := write("%s", mm.prefix); err != nil {
		return n, err
	}

	if len(mm.parts) > 0 {
		for i, part := range mm.parts {
			// the line break before a boundary belongs to the boundary
			if i > 0 {
				if err := write("%s", br); err != nil {
					return n, err
				}
			}

			if mm.prefix != nil || i > 0 {
				if err := write("--%s%s", boundary, br); err != nil {
					return n, err
				}
			}

			pn, err := part.WriteTo(w)
			n += pn
			if err != nil {
				return n, err
			}
		}

		if mm.suffix != nil {
			if err := write("%s--%s--", br, boundary); err != nil {
				return n, err
			}
		}
	}

	err = write("%s", mm.suffix)
	return n, err
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// IsEncoded always returns false.
func (mm *Multipart) IsEncoded() bool {
	return false
}

// GetHeader returns the header.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// GetParts returns the sub-parts.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}
