package transfer

import (
	"io"
	"strings"

	"github.com/zostay/go-email-codec/message/header"
)

// Content-Transfer-Encoding values. Only quoted-printable and base64 change
// the bytes.
const (
	None            = ""
	Bit7            = "7bit"
	Bit8            = "8bit"
	Binary          = "binary"
	QuotedPrintable = "quoted-printable"
	Base64          = "base64"
)

// writer joins an io.Writer with the io.Closer that flushes it.
type writer struct {
	io.Writer
	io.Closer
}

// Close calls the nested io.Closer, if any.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Transcoding is a pair of functions for converting to and from a transfer
// encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser that encodes whatever is written to it
	// onto the given io.Writer, breaking lines with lb where the encoding
	// breaks lines. Close must be called to flush it.
	Encoder func(w io.Writer, lb header.Break) io.WriteCloser

	// Decoder returns an io.Reader of the decoded bytes of r.
	Decoder func(r io.Reader) io.Reader
}

// AsIsTranscoder leaves bytes alone in both directions.
var AsIsTranscoder = Transcoding{
	Encoder: func(w io.Writer, _ header.Break) io.WriteCloser { return NewAsIsEncoder(w) },
	Decoder: NewAsIsDecoder,
}

// Transcodings maps each supported Content-Transfer-Encoding to its
// Transcoding.
var Transcodings = map[string]Transcoding{
	None:   AsIsTranscoder,
	Bit7:   AsIsTranscoder,
	Bit8:   AsIsTranscoder,
	Binary: AsIsTranscoder,
	QuotedPrintable: {
		Encoder: func(w io.Writer, _ header.Break) io.WriteCloser { return NewQuotedPrintableEncoder(w) },
		Decoder: NewQuotedPrintableDecoder,
	},
	Base64: {
		Encoder: NewBase64Encoder,
		Decoder: NewBase64Decoder,
	},
}

// Lookup finds the Transcoding for a Content-Transfer-Encoding value, ignoring
// case and surrounding space.
func Lookup(cte string) (Transcoding, bool) {
	tc, ok := Transcodings[strings.ToLower(strings.TrimSpace(cte))]
	return tc, ok
}

// ApplyTransferEncoding returns an io.WriteCloser that encodes according to
// the Content-Transfer-Encoding of h, using the header's line break. Unknown
// or missing encodings pass bytes through. Close must be called when done.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	cte, err := h.GetTransferEncoding()
	if err != nil {
		return NewAsIsEncoder(w)
	}

	if tc, ok := Lookup(cte); ok {
		return tc.Encoder(w, h.Break())
	}

	return NewAsIsEncoder(w)
}

// ApplyTransferDecoding returns an io.Reader that decodes r according to the
// Content-Transfer-Encoding of h. Multipart entities are never decoded.
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	ct, err := h.GetContentType()
	if err == nil && ct.Type() == "multipart" {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	if tc, ok := Lookup(cte); ok {
		return tc.Decoder(r)
	}

	return r
}
