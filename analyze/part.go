package analyze

import (
	"errors"
	"io"
	"strings"

	"github.com/zostay/go-email-codec/message"
	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/header/encoding"
	"github.com/zostay/go-email-codec/message/header/param"
	"github.com/zostay/go-email-codec/message/transfer"
)

// Dispositions the parser tells apart.
const (
	Inline     = "inline"
	Attachment = "attachment"
)

// Part is a part of the tree as the parser sees it.
type Part struct {
	message.Part

	// MediaType is the lowercased media type. When Content-Type is
	// malformed it is the whole field body as written; when it is missing it
	// is text/plain.
	MediaType string

	// Params is the parsed Content-Type, nil when it is malformed.
	Params *param.Value

	// Disposition is the lowercased disposition, empty when there is no
	// Content-Disposition.
	Disposition string

	// Depth is 0 for the root and one more for each container above.
	Depth int
}

func newPart(mp message.Part, depth int) (*Part, error) {
	h := mp.GetHeader()
	p := &Part{Part: mp, Depth: depth}

	raw, err := h.Get(header.ContentType)
	switch {
	case errors.Is(err, header.ErrNoSuchField):
		p.MediaType = "text/plain"
		p.Params = param.New(p.MediaType)
	default:
		if pv, perr := param.Parse(raw); perr == nil {
			p.MediaType = pv.MediaType()
			p.Params = pv
		} else {
			p.MediaType = strings.TrimSpace(raw)
		}
	}

	raw, err = h.Get(header.ContentDisposition)
	if errors.Is(err, header.ErrNoSuchField) {
		return p, nil
	}

	if pv, perr := param.Parse(raw); perr == nil {
		p.Disposition = strings.ToLower(pv.Disposition())
	} else {
		d, _, _ := strings.Cut(raw, ";")
		p.Disposition = strings.ToLower(strings.TrimSpace(d))
	}

	if p.Disposition == "" {
		return nil, newError(ReasonDisposition, raw, nil)
	}

	return p, nil
}

// Is reports whether the part has the given media type. A subtype of "*"
// matches any subtype. A malformed Content-Type matches only its whole body,
// ignoring case.
func (p *Part) Is(mediaType string) bool {
	if p.Params == nil {
		return strings.EqualFold(p.MediaType, mediaType)
	}

	mediaType = strings.ToLower(mediaType)
	if t, sub, ok := strings.Cut(mediaType, "/"); ok && sub == "*" {
		return p.Params.Type() == t
	}
	return p.MediaType == mediaType
}

// IsAttachment reports whether the disposition is attachment.
func (p *Part) IsAttachment() bool {
	return p.Disposition == Attachment
}

// Body returns the body with its transfer encoding removed.
func (p *Part) Body() io.Reader {
	r := p.GetReader()
	if r == nil {
		return strings.NewReader("")
	}
	if p.IsEncoded() {
		r = transfer.ApplyTransferDecoding(p.GetHeader(), r)
	}
	return r
}

// Text returns the body as UTF-8, converted from its charset.
func (p *Part) Text() (string, error) {
	cs := ""
	if p.Params != nil {
		cs = p.Params.Charset()
	}

	r, err := encoding.NewReader(cs, p.Body())
	if err != nil {
		return "", newError(ReasonDecodeText, cs, err)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", newError(ReasonContent, p.MediaType, err)
	}

	return string(b), nil
}
