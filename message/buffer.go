package message

import (
	"bytes"
	"errors"

	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/header/param"
)

// DefaultMultipartContentType is used for a multipart Buffer with no
// Content-Type of its own.
const DefaultMultipartContentType = "multipart/mixed"

// BufferMode tells how a Buffer is being filled.
type BufferMode int

const (
	// ModeUnset means nothing has been added or written yet.
	ModeUnset BufferMode = iota

	// ModeSingle means the Buffer has been written to as an io.Writer.
	ModeSingle

	// ModeMultipart means parts have been added to the Buffer.
	ModeMultipart
)

var (
	// ErrPartsBuffer is returned by Write after Add has been called.
	ErrPartsBuffer = errors.New("message buffer is in parts mode")

	// ErrOpaqueBuffer is returned by Add after Write has been called.
	ErrOpaqueBuffer = errors.New("message buffer is in opaque mode")

	// ErrModeUnset is returned by Opaque and Multipart when nothing has been
	// added or written.
	ErrModeUnset = errors.New("no message has been built")

	// ErrParsesAsNotMultipart is returned by Multipart when the bytes written
	// do not form a multipart message.
	ErrParsesAsNotMultipart = errors.New("cannot parse non-multipart message as multipart")
)

// Buffer builds a message. Either write the body to it as an io.Writer or
// Add parts to it, not both; Mode reports which. Once done, call Opaque or
// Multipart and stop using the Buffer.
type Buffer struct {
	header.Header
	parts []Part
	buf   *bytes.Buffer
}

// Mode returns the BufferMode.
func (b *Buffer) Mode() BufferMode {
	switch {
	case b.parts != nil:
		return ModeMultipart
	case b.buf != nil:
		return ModeSingle
	}
	return ModeUnset
}

// SetSingle puts an untouched Buffer in ModeSingle, for a message with an
// empty body.
func (b *Buffer) SetSingle() error {
	if b.parts != nil {
		return ErrPartsBuffer
	}
	if b.buf == nil {
		b.buf = &bytes.Buffer{}
	}
	return nil
}

// Add appends parts to the message.
func (b *Buffer) Add(msgs ...Part) error {
	if b.buf != nil {
		return ErrOpaqueBuffer
	}
	if b.parts == nil {
		b.parts = make([]Part, 0, len(msgs))
	}
	b.parts = append(b.parts, msgs...)
	return nil
}

// Write appends decoded bytes to the body.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.SetSingle(); err != nil {
		return 0, err
	}
	return b.buf.Write(p)
}

// prepareForMultipartOutput fills in a missing multipart Content-Type or
// boundary.
func (b *Buffer) prepareForMultipartOutput() {
	if _, err := b.GetMediaType(); err != nil {
		b.SetContentType(param.New(DefaultMultipartContentType))
	}

	if _, err := b.GetBoundary(); err != nil {
		_ = b.SetBoundary(GenerateBoundary())
	}
}

// Opaque returns the message as a leaf. In ModeMultipart, the parts are
// serialized into the body, after making sure the header carries a
// multipart Content-Type and boundary. The body is encoded on WriteTo.
func (b *Buffer) Opaque() (*Opaque, error) {
	switch b.Mode() {
	case ModeSingle:
		return &Opaque{Header: b.Header, Reader: b.buf}, nil
	case ModeMultipart:
		mm, err := b.Multipart()
		if err != nil {
			return nil, err
		}

		buf := &bytes.Buffer{}
		if _, err := mm.writeBody(buf); err != nil {
			return nil, err
		}

		return &Opaque{Header: b.Header, Reader: buf, encoded: true}, nil
	}
	return nil, ErrModeUnset
}

// OpaqueAlreadyEncoded is Opaque for bytes that were written with their
// Content-Transfer-Encoding already applied. No encoding is done on WriteTo.
func (b *Buffer) OpaqueAlreadyEncoded() (*Opaque, error) {
	msg, err := b.Opaque()
	if err != nil {
		return nil, err
	}
	msg.encoded = true
	return msg, nil
}

// Multipart returns the message as a container. In ModeSingle the bytes
// written are parsed one level deep, failing with ErrParsesAsNotMultipart if
// they are not multipart.
func (b *Buffer) Multipart() (*Multipart, error) {
	switch b.Mode() {
	case ModeSingle:
		pr := defaultParser
		pr.maxDepth = 1
		msg := &Opaque{Header: b.Header, Reader: b.buf}
		gmsg, err := pr.parse(msg, 0)
		if mm, isMultipart := gmsg.(*Multipart); isMultipart {
			return mm, err
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrParsesAsNotMultipart
	case ModeMultipart:
		b.prepareForMultipartOutput()
		return &Multipart{
			Header: b.Header,
			prefix: []byte{},
			suffix: []byte{},
			parts:  b.parts,
		}, nil
	}
	return nil, ErrModeUnset
}
