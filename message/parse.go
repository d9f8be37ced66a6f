package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/zostay/go-email-codec/internal/scanner"
	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/header/field"
	"github.com/zostay/go-email-codec/message/transfer"
)

// Parser defaults.
const (
	// DefaultMaxMultipartDepth is how many levels of multipart Parse splits
	// by default.
	DefaultMaxMultipartDepth = 10

	// DefaultChunkSize is how much input is read at a time while looking for
	// the end of the header.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is how much input is searched for the end of the
	// header before giving up.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize

	// DefaultMaxPartLength is the largest part, at any level, Parse will
	// split out.
	DefaultMaxPartLength = 32 << 20
)

// Errors that occur during parsing.
var (
	// ErrNoBoundary is returned when a multipart Content-Type lacks its
	// boundary parameter.
	ErrNoBoundary = errors.New("the boundary parameter is missing from Content-Type")

	// ErrLargeHeader is returned when no end of header is found within the
	// maximum header length.
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")

	// ErrLargePart is returned when a part exceeds the maximum part length.
	ErrLargePart = errors.New("a message part exceeds the maximum parse length")
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0d\x0a\x0d"), // \n\r\n\r
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

type parser struct {
	maxHeaderLen int
	maxPartLen   int
	maxDepth     int
	chunkSize    int
	decode       bool
}

var defaultParser = parser{
	maxHeaderLen: DefaultMaxHeaderLength,
	maxPartLen:   DefaultMaxPartLength,
	maxDepth:     DefaultMaxMultipartDepth,
	chunkSize:    DefaultChunkSize,
}

// ParseOption changes how Parse works.
type ParseOption func(pr *parser)

// WithMaxHeaderLength limits how far Parse searches for the end of a header
// before failing with ErrLargeHeader. A value of 0 or less removes the limit.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// WithMaxPartLength limits the size of a single part at any level. Larger
// parts fail the parse with ErrLargePart.
func WithMaxPartLength(n int) ParseOption {
	return func(pr *parser) { pr.maxPartLen = n }
}

// DecodeTransferEncoding makes Parse remove the Content-Transfer-Encoding of
// every leaf body. Without it, bodies are left encoded so the message is
// written back unchanged.
func DecodeTransferEncoding() ParseOption {
	return func(pr *parser) { pr.decode = true }
}

// WithChunkSize sets how many bytes are read at a time.
func WithChunkSize(chunkSize int) ParseOption {
	return func(pr *parser) { pr.chunkSize = chunkSize }
}

// WithMaxDepth sets how many levels of multipart are split into parts. Parts
// below that level are returned as *Opaque with their multipart body intact.
// A negative value removes the limit.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart makes Parse return an *Opaque whatever the content. Only
// the header and the first chunk of the body are read.
func WithoutMultipart() ParseOption {
	return WithMaxDepth(0)
}

// searchForSplit returns the position just past the blank line ending the
// header and the line break in use, or -1 when there is none yet. A subpart
// may have an empty header, in which case buf starts with the line break.
func searchForSplit(buf []byte, subpart bool) (pos int, crlf []byte) {
	if subpart {
		for _, s := range splits {
			if half := s[:len(s)/2]; bytes.HasPrefix(buf, half) {
				return len(half), half
			}
		}
	}

	for _, s := range splits {
		if testPos := bytes.Index(buf, s); testPos > -1 {
			return testPos + len(s), s[:len(s)/2]
		}
	}

	return -1, nil
}

// splitHeadFromBody reads r until the end of the header. It returns the
// header bytes, the line break, and a reader for the body.
func (pr *parser) splitHeadFromBody(r io.Reader, subpart bool) ([]byte, []byte, io.Reader, error) {
	p := make([]byte, pr.chunkSize)
	buf := &bytes.Buffer{}
	searched := 0
	for {
		n, err := r.Read(p)

		if pr.maxHeaderLen > 0 && n+buf.Len() > pr.maxHeaderLen {
			return nil, nil, nil, ErrLargeHeader
		}

		isEOF := errors.Is(err, io.EOF)
		if err != nil && !isEOF {
			return nil, nil, nil, err
		}

		buf.Write(p[:n])

		if pos, crlf := searchForSplit(buf.Bytes()[searched:], subpart && searched == 0); pos >= 0 {
			pos += searched
			hdr := make([]byte, pos)
			copy(hdr, buf.Next(pos))

			var body io.Reader
			if _, isBytesReader := r.(*bytes.Reader); isBytesReader {
				// parts are always bytes.Readers, read them whole
				if _, err := buf.ReadFrom(r); err != nil {
					return nil, nil, nil, err
				}
				body = bytes.NewReader(buf.Bytes())
			} else {
				// leave the rest of the original input unread
				body = &remainder{buf.Bytes(), r}
			}
			return hdr, crlf, body, nil
		}

		if isEOF {
			break
		}

		// the split may straddle the chunk boundary
		searched = buf.Len() - 3
		if searched < 0 {
			searched = 0
		}
	}

	// no split at all: it is all header
	for _, s := range splits {
		crlf := s[:len(s)/2]
		if bytes.Contains(buf.Bytes(), crlf) {
			return buf.Bytes(), crlf, nil, nil
		}
	}

	return buf.Bytes(), []byte(header.LF), nil, nil
}

// parseToOpaque splits r into header and body.
func (pr *parser) parseToOpaque(r io.Reader, subpart bool) (*Opaque, error) {
	hdr, crlf, body, err := pr.splitHeadFromBody(r, subpart)
	if err != nil {
		return nil, err
	}

	head, err := header.Parse(hdr, header.Break(crlf))
	if err != nil {
		var badStart *field.BadStartError
		if !errors.As(err, &badStart) {
			return nil, err
		}
	}

	if pr.decode && body != nil {
		body = transfer.ApplyTransferDecoding(head, body)
	}

	return &Opaque{*head, body, !pr.decode}, nil
}

// Parse reads a message from r.
//
// First the header is read, a chunk at a time, until a blank line is found;
// the kind of line break found there is used for the whole message. What
// follows is the body of an *Opaque.
//
// If the Content-Type is multipart/* and the maximum depth allows, the body
// is then split on its boundary and each part parsed the same way, giving a
// *Multipart. The preamble and epilogue are kept so that WriteTo reproduces
// the input.
//
// With DecodeTransferEncoding, leaf bodies are decoded as they are read.
//
// When a part fails to parse, the message is returned as an *Opaque holding
// the original body along with the error. The input may not be fully read on
// return; reading every body or calling WriteTo consumes the rest.
func Parse(r io.Reader, opts ...ParseOption) (Generic, error) {
	pr := defaultParser
	for _, opt := range opts {
		opt(&pr)
	}

	msg, err := pr.parseToOpaque(r, false)
	if err != nil {
		return nil, err
	}

	return pr.parse(msg, 0)
}

func (pr *parser) parse(msg *Opaque, depth int) (Generic, error) {
	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		return msg, nil
	}

	pv, err := msg.GetContentType()
	if err != nil || pv.Type() != "multipart" {
		return msg, nil
	}

	if pv.Boundary() == "" {
		return msg, ErrNoBoundary
	}

	if msg.Reader == nil {
		return msg, nil
	}

	// Boundaries must stand on their own lines. The line break before a
	// boundary belongs to the boundary, except before the first, where it
	// belongs to the preamble. The line break after the closing boundary
	// belongs to the epilogue.
	br := msg.Break()
	sb := []byte(fmt.Sprintf("--%s%s", pv.Boundary(), br))
	mb := []byte(fmt.Sprintf("%s--%s%s", br, pv.Boundary(), br))
	eb := []byte(fmt.Sprintf("%s--%s--%s", br, pv.Boundary(), br))
	fb := []byte(fmt.Sprintf("%s--%s--", br, pv.Boundary()))

	const (
		modeStart = iota
		modeMiddle
		modeEnd
	)

	sc := bufio.NewScanner(msg.Reader)
	sc.Buffer(make([]byte, pr.chunkSize), pr.maxPartLen)
	var prefix, suffix []byte
	mode := modeStart
	awaitingPrefix := true
	sc.Split(scanner.MakeSplitFuncExitByAdvance(
		func(data []byte, atEOF bool) (advance int, token []byte, err error) {
			switch mode {
			case modeStart:
				// an opening boundary at the very start means no preamble
				if atEOF || len(data) >= len(sb) {
					if bytes.HasPrefix(data, sb) {
						prefix = []byte{}
						awaitingPrefix = false
						advance = len(sb)
					}
					mode = modeMiddle
					err = scanner.ErrContinue
				}

			case modeMiddle:
				if ix := bytes.Index(data, mb); ix >= 0 {
					advance = ix + len(mb)
					if awaitingPrefix {
						prefix = bytes.Clone(data[:ix+len(br)])
						awaitingPrefix = false
					} else {
						token = data[:ix]
					}
				} else if atEOF {
					mode = modeEnd
					err = scanner.ErrContinue
				}

			case modeEnd:
				// no boundary at all: the body is one part
				if awaitingPrefix {
					prefix = nil
				}

				if ix := bytes.Index(data, eb); ix >= 0 {
					token = data[:ix]
					suffix = bytes.Clone(data[ix+len(fb):])
				} else if bytes.HasSuffix(data, fb) {
					token = data[:len(data)-len(fb)]
					suffix = []byte{}
				} else {
					// no closing boundary, none will be written
					token = data
					suffix = nil
				}
				err = bufio.ErrFinalToken
			}
			return
		},
	))

	var parts [][]byte

	// originalMessage rebuilds the unsplit message after a failure.
	originalMessage := func() *Opaque {
		for sc.Scan() {
			parts = append(parts, bytes.Clone(sc.Bytes()))
		}

		r := &bytes.Buffer{}
		if prefix != nil {
			r.Write(prefix)
			r.Write(sb)
		}
		r.Write(bytes.Join(parts, mb))
		if suffix != nil {
			r.Write(fb)
			r.Write(suffix)
		}

		return &Opaque{Header: msg.Header, Reader: r, encoded: msg.encoded}
	}

	msgParts := make([]Generic, 0, 10)
	for sc.Scan() {
		part := bytes.Clone(sc.Bytes())
		parts = append(parts, part)

		opMsg, err := pr.parseToOpaque(bytes.NewReader(part), true)
		if err != nil {
			return originalMessage(), err
		}

		sub, err := pr.parse(opMsg, depth+1)
		if err != nil {
			return originalMessage(), err
		}

		msgParts = append(msgParts, sub)
	}

	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return msg, ErrLargePart
		}
		return originalMessage(), err
	}

	return &Multipart{
		Header: msg.Header,
		prefix: prefix,
		suffix: suffix,
		parts:  msgParts,
	}, nil
}
