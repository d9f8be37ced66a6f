package message

import (
	"io"

	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/transfer"
)

// Opaque is a leaf entity: a header and a body.
type Opaque struct {
	// Header holds the entity header, including its Content-Type,
	// Content-Disposition and Content-ID.
	header.Header

	// Reader holds the body. It is nil when the body is empty.
	io.Reader

	// encoded is true when Reader returns the bytes exactly as they are
	// written to the wire, Content-Transfer-Encoding still applied. Parsing
	// without DecodeTransferEncoding() leaves it true; a Buffer or NewOpaque
	// leaves it false, and WriteTo encodes.
	encoded bool
}

// NewOpaque returns a leaf with the given header and decoded body. WriteTo
// applies the Content-Transfer-Encoding named in the header.
func NewOpaque(h *header.Header, body io.Reader) *Opaque {
	op := &Opaque{Reader: body}
	if h != nil {
		op.Header = *h
	}
	return op
}

// WriteTo writes the header and then the body, encoding the body unless it is
// already encoded. It consumes the Reader, so it may only be called once.
func (m *Opaque) WriteTo(w io.Writer) (int64, error) {
	total, err := m.Header.WriteTo(w)
	if err != nil {
		return total, err
	}

	if m.Reader == nil {
		return total, nil
	}

	cw := &countingWriter{w: w}
	var bw io.WriteCloser = transfer.NewAsIsEncoder(cw)
	if !m.encoded {
		bw = transfer.ApplyTransferEncoding(&m.Header, cw)
	}

	_, err = io.Copy(bw, m.Reader)
	if err == nil {
		err = bw.Close()
	}

	return total + cw.n, err
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded reports whether GetReader returns the wire bytes, with the
// Content-Transfer-Encoding still applied. A false result does not mean any
// bytes were changed; 7bit and 8bit bodies decode to themselves.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetReader returns the body.
func (m *Opaque) GetReader() io.Reader {
	return m.Reader
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}

// countingWriter counts the bytes that reach w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
