package transfer

import (
	"io"
	"mime/quotedprintable"
)

// NewQuotedPrintableEncoder returns an io.WriteCloser that writes
// quoted-printable to w. Line breaks in the input become CRLF.
func NewQuotedPrintableEncoder(w io.Writer) io.WriteCloser {
	qpw := quotedprintable.NewWriter(w)
	return &writer{qpw, qpw}
}

// NewQuotedPrintableDecoder decodes quoted-printable read from r.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}
