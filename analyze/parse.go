package analyze

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/message"
	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/header/field"
	"github.com/zostay/go-email-codec/naming"
)

// ForwardedMessageName names a message/rfc822 part that has no file name.
const ForwardedMessageName = "ForwardedMessage.eml"

var (
	methodParam   = regexp.MustCompile(`method="?(\w+)`)
	methodLine    = regexp.MustCompile(`(?mi)^METHOD:(\w+)`)
	contentIDForm = regexp.MustCompile(`^<?([^>]*)>?$`)
)

// route handles the parts it matches.
type route struct {
	name   string
	match  func(acc *Result, p *Part) bool
	handle func(acc Result, p *Part) (Result, error)
}

type parser struct {
	fetch         bool
	maxDepth      int
	logger        zerolog.Logger
	custom        []route
	preTransforms []func(message.Generic) (message.Generic, error)

	table []route
}

func newParser(opts []Option) *parser {
	pr := &parser{
		fetch:    true,
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(pr)
	}

	pr.table = append(append([]route(nil), pr.custom...),
		route{
			name: "plain",
			match: func(_ *Result, p *Part) bool {
				return p.Is("text/plain") && !p.IsAttachment()
			},
			handle: pr.plain,
		},
		route{
			name: "html",
			match: func(_ *Result, p *Part) bool {
				return p.Is("text/html") && !p.IsAttachment()
			},
			handle: pr.html,
		},
		route{
			name: "calendar",
			match: func(acc *Result, p *Part) bool {
				return p.Is("text/calendar") && acc.CalendarText == "" && !p.IsAttachment()
			},
			handle: pr.calendar,
		},
		route{
			name: "multipart",
			match: func(_ *Result, p *Part) bool {
				return p.Is("multipart/*")
			},
			handle: pr.multipart,
		},
		route{
			name:   "resource",
			match:  func(*Result, *Part) bool { return true },
			handle: pr.resource,
		},
	)

	return pr
}

// Parse analyzes a parsed MIME tree. Leaves still carrying their transfer
// encoding are decoded as they are read.
func Parse(msg message.Generic, opts ...Option) (*Result, error) {
	return newParser(opts).parse(msg)
}

// ParseReader parses a MIME document and analyzes it.
func ParseReader(r io.Reader, opts ...Option) (*Result, error) {
	pr := newParser(opts)

	msg, err := message.Parse(r,
		message.DecodeTransferEncoding(),
		message.WithMaxDepth(pr.maxDepth))
	if err != nil {
		return nil, newError(ReasonStructure, "", err)
	}

	return pr.parse(msg)
}

func (pr *parser) parse(msg message.Generic) (*Result, error) {
	for _, t := range pr.preTransforms {
		var err error
		if msg, err = t(msg); err != nil {
			return nil, newError(ReasonTransform, "", err)
		}
	}

	if msg == nil {
		return nil, newError(ReasonStructure, "no message", nil)
	}

	acc := newResult()
	readMessageHeaders(&acc, msg.GetHeader())

	acc, err := pr.descend(acc, msg, 0)
	if err != nil {
		return nil, err
	}

	acc = pr.reclassifyOrphans(acc)

	return &acc, nil
}

func (pr *parser) descend(acc Result, mp message.Part, depth int) (Result, error) {
	acc, err := divertHeaders(acc, mp.GetHeader())
	if err != nil {
		return acc, err
	}

	p, err := newPart(mp, depth)
	if err != nil {
		return acc, err
	}

	for _, rt := range pr.table {
		if rt.match(&acc, p) {
			pr.logger.Debug().
				Str("route", rt.name).
				Str("content-type", p.MediaType).
				Str("disposition", p.Disposition).
				Int("depth", depth).
				Msg("dispatching part")
			return rt.handle(acc, p)
		}
	}

	return acc, nil
}

// recordTransferEncoding keeps the first Content-Transfer-Encoding of a text
// body.
func recordTransferEncoding(acc Result, p *Part) Result {
	if acc.ContentTransferEncoding != "" {
		return acc
	}
	if cte, err := p.GetHeader().GetTransferEncoding(); cte != "" && !errors.Is(err, header.ErrNoSuchField) {
		acc.ContentTransferEncoding = cte
	}
	return acc
}

func (pr *parser) plain(acc Result, p *Part) (Result, error) {
	text, err := p.Text()
	if err != nil {
		return acc, err
	}

	acc.PlainText += text
	return recordTransferEncoding(acc, p), nil
}

func (pr *parser) html(acc Result, p *Part) (Result, error) {
	text, err := p.Text()
	if err != nil {
		return acc, err
	}

	acc.HTMLText += text
	return recordTransferEncoding(acc, p), nil
}

func (pr *parser) calendar(acc Result, p *Part) (Result, error) {
	text, err := p.Text()
	if err != nil {
		return acc, err
	}

	ct, _ := p.GetHeader().Get(header.ContentType)

	var method string
	if p.Params != nil && p.Params.Method() != "" {
		method = p.Params.Method()
	} else if m := methodParam.FindStringSubmatch(ct); m != nil {
		method = m[1]
	} else if m := methodLine.FindStringSubmatch(text); m != nil {
		method = m[1]
	} else {
		return acc, newError(ReasonCalendarMethod, ct, nil)
	}

	acc.CalendarText = text
	acc.CalendarMethod = email.CalendarMethod(method)
	return recordTransferEncoding(acc, p), nil
}

func (pr *parser) multipart(acc Result, p *Part) (Result, error) {
	if pr.maxDepth >= 0 && p.Depth >= pr.maxDepth {
		return acc, newError(ReasonNestingTooDeep, p.MediaType, nil)
	}

	mp := p.Part
	if !mp.IsMultipart() {
		var err error
		if mp, err = pr.split(p); err != nil {
			return acc, err
		}
	}

	for _, child := range mp.GetParts() {
		var err error
		if acc, err = pr.descend(acc, child, p.Depth+1); err != nil {
			return acc, err
		}
	}

	return acc, nil
}

// split parses a multipart leaf left whole by an earlier parse with a
// smaller depth limit.
func (pr *parser) split(p *Part) (message.Part, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, newError(ReasonStructure, p.MediaType, err)
	}

	depth := -1
	if pr.maxDepth >= 0 {
		depth = pr.maxDepth - p.Depth
	}

	mp, err := message.Parse(&buf,
		message.DecodeTransferEncoding(),
		message.WithMaxDepth(depth))
	if err != nil {
		return nil, newError(ReasonStructure, p.MediaType, err)
	}

	if !mp.IsMultipart() {
		return nil, newError(ReasonStructure, p.MediaType, errors.New("multipart body has no parts"))
	}

	return mp, nil
}

func (pr *parser) resource(acc Result, p *Part) (Result, error) {
	h := p.GetHeader()

	cid, err := contentID(h)
	if err != nil {
		return acc, err
	}

	if p.Disposition != "" && p.Disposition != Inline && p.Disposition != Attachment {
		pr.logger.Warn().
			Str("disposition", p.Disposition).
			Str("content-type", p.MediaType).
			Str("content-id", cid).
			Msg("skipping part with unknown disposition")
		return acc, nil
	}

	dsName, err := dataSourceName(p)
	if err != nil {
		return acc, err
	}

	name := naming.Resolve("", dsName, cid, true, false)

	ct := p.MediaType
	if p.Params == nil {
		ct = ""
	}

	var ds email.DataSource
	if pr.fetch {
		data, err := io.ReadAll(p.Body())
		if err != nil {
			return acc, newError(ReasonReadContent, name, err)
		}
		ds = email.NewBytesSource(dsName, ct, data)
	} else {
		ds = email.NewReaderSource(dsName, ct, p.Body())
	}

	res := email.Resource{Name: name, Source: ds}
	res.Description, _ = h.GetContentDescription()
	res.TransferEncoding, _ = h.GetTransferEncoding()

	if cid != "" && !p.IsAttachment() {
		acc.CIDMap[cid] = &res
		return acc, nil
	}

	acc.Attachments.Add(res)
	return acc, nil
}

// contentID returns the Content-ID without angle brackets, or "" if there is
// none.
func contentID(h *header.Header) (string, error) {
	ids, err := h.GetAll(header.ContentID)
	if err != nil {
		return "", nil
	}

	var cid string
	for i, raw := range ids {
		id := header.UnescapeContentID(contentIDForm.ReplaceAllString(strings.TrimSpace(raw), "$1"))
		if i > 0 && id != cid {
			return "", newError(ReasonContentID, strings.Join(ids, ", "), nil)
		}
		cid = id
	}

	return cid, nil
}

// dataSourceName is the file name of a part: the filename parameter of its
// disposition, else the name parameter of its type.
func dataSourceName(p *Part) (string, error) {
	var name string
	if cd, err := p.GetHeader().GetContentDisposition(); err == nil {
		name = cd.Filename()
	}
	if name == "" && p.Params != nil {
		name = p.Params.Name()
	}
	if name == "" && p.Is("message/rfc822") {
		return ForwardedMessageName, nil
	}

	dec, err := field.Decode(name)
	if err != nil {
		return "", newError(ReasonFilename, name, err)
	}

	return dec, nil
}

// reclassifyOrphans moves the embedded candidates the HTML never refers to
// into the attachments. A reference may use the id as written or in its
// percent-encoded form. Orphans keep the name resource gave them, so one with
// a file name is not renamed after its Content-ID.
func (pr *parser) reclassifyOrphans(acc Result) Result {
	for _, cid := range acc.CIDs() {
		if strings.Contains(acc.HTMLText, "cid:"+cid) ||
			strings.Contains(acc.HTMLText, "cid:"+header.EscapeContentID(cid)) {
			continue
		}

		pr.logger.Warn().
			Str("content-id", cid).
			Msg("inline resource not referenced by HTML, treating it as an attachment")

		acc.Attachments.Add(*acc.CIDMap[cid])
		delete(acc.CIDMap, cid)
	}

	return acc
}
