package compose

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/message"
	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/header/param"
	"github.com/zostay/go-email-codec/message/transfer"
	"github.com/zostay/go-email-codec/message/walk"
	"github.com/zostay/go-email-codec/naming"
)

// Charset of every text body.
const Charset = "UTF-8"

// MessageRFC822 is the media type of a forwarded message.
const MessageRFC822 = "message/rfc822"

// Compose classifies e, selects its shape, builds the tree, and runs any
// transformers on it. A forwarded message in e is read in the process.
func Compose(e *email.Email, opts ...Option) (message.Generic, error) {
	c := newComposer(opts)

	content := Classify(e)
	shape := Select(content)
	c.logger.Debug().
		Str("shape", shape.String()).
		Bool("mixed", content.Mixed).
		Bool("related", content.Related).
		Bool("alternative", content.Alternative).
		Msg("selected MIME shape")

	msg, err := c.build(shape, e)
	if err != nil {
		return nil, err
	}

	for _, transform := range c.transformers {
		msg, err = transform(msg)
		if err != nil {
			return nil, fmt.Errorf("transform failed: %w", err)
		}
	}

	return msg, nil
}

// Build constructs the containers of shape, and no others, holding the
// content of e. Content that has no place in the shape is left out. Build
// fails with a *ProductionError only.
func Build(shape Shape, e *email.Email, opts ...Option) (message.Generic, error) {
	return newComposer(opts).build(shape, e)
}

// NewMessageID returns a unique Message-ID for the given domain.
func NewMessageID(domain string) string {
	return "<" + uuid.NewString() + "@" + domain + ">"
}

func newHeader() *header.Header {
	h := &header.Header{}
	h.SetBreak(header.CRLF)
	return h
}

func (c *composer) build(shape Shape, e *email.Email) (message.Generic, error) {
	want := shape.Content()

	bodies := c.bodies(e)

	var payload message.Part
	switch {
	case want.Alternative:
		alt, err := c.container("alternative", bodies...)
		if err != nil {
			return nil, err
		}
		payload = alt
	case len(bodies) > 0:
		payload = bodies[0]
	}

	if want.Related {
		parts := []message.Part{}
		if payload != nil {
			parts = append(parts, payload)
		}

		for _, r := range email.NewResourceSet(e.EmbeddedImages...).Items() {
			leaf, err := c.resource(r, "inline")
			if err != nil {
				return nil, err
			}
			parts = append(parts, leaf)
		}

		rel, err := c.container("related", parts...)
		if err != nil {
			return nil, err
		}
		payload = rel
	}

	if want.Mixed {
		parts := []message.Part{}
		if payload != nil {
			parts = append(parts, payload)
		}

		if e.Forward != nil {
			fwd, err := c.forward(e.Forward)
			if err != nil {
				return nil, err
			}
			parts = append(parts, fwd)
		}

		for _, r := range e.Attachments {
			leaf, err := c.resource(r, "attachment")
			if err != nil {
				return nil, err
			}
			parts = append(parts, leaf)
		}

		mixed, err := c.container("mixed", parts...)
		if err != nil {
			return nil, err
		}
		payload = mixed
	}

	if payload == nil {
		payload = c.text("plain", "", e, nil)
	}

	if err := checkContainers(payload); err != nil {
		return nil, err
	}

	c.applyRootHeaders(payload.GetHeader(), e)

	return payload, nil
}

// bodies returns the body leaves in the order clients expect alternatives:
// plain, HTML, calendar.
func (c *composer) bodies(e *email.Email) []message.Part {
	var bodies []message.Part
	if e.PlainText != "" {
		bodies = append(bodies, c.text("plain", e.PlainText, e, nil))
	}
	if e.HTMLText != "" {
		bodies = append(bodies, c.text("html", e.HTMLText, e, nil))
	}
	if e.HasCalendar() {
		bodies = append(bodies, c.text("calendar", e.CalendarText, e, map[string]string{
			param.Method: string(e.CalendarMethod),
		}))
	}
	return bodies
}

func (c *composer) text(subtype, body string, e *email.Email, params map[string]string) message.Part {
	ps := map[string]string{param.Charset: Charset}
	for k, v := range params {
		ps[k] = v
	}

	h := newHeader()
	h.SetContentType(param.NewWithParams("text/"+subtype, ps))
	h.SetTransferEncoding(e.TransferEncoding())

	return message.NewOpaque(h, strings.NewReader(body))
}

func (c *composer) container(subtype string, parts ...message.Part) (*message.Multipart, error) {
	if len(parts) == 0 {
		return nil, &ProductionError{Reason: ErrEmptyContainer, Resource: "multipart/" + subtype}
	}

	boundary := c.boundary()
	if boundary == "" || len(boundary) > 70 || strings.ContainsAny(boundary, "\r\n") {
		return nil, &ProductionError{
			Reason:   ErrUnattachableContainer,
			Resource: "multipart/" + subtype,
			Err:      fmt.Errorf("bad boundary %q", boundary),
		}
	}

	mm := message.NewMultipart(subtype, boundary, parts...)
	mm.SetBreak(header.CRLF)
	return mm, nil
}

// resource builds the leaf of an embedded image or attachment.
func (c *composer) resource(r email.Resource, disposition string) (message.Part, error) {
	if r.Source == nil {
		return nil, &ProductionError{
			Reason:   ErrUnreadableResource,
			Resource: r.Name,
			Err:      errors.New("no data source"),
		}
	}

	dsName := r.Source.Name()
	id := naming.Resolve(r.Name, dsName, "", false, false)
	filename := naming.Resolve(r.Name, dsName, "", true, false)

	data, err := readSource(r.Source)
	if err != nil {
		return nil, &ProductionError{Reason: ErrUnreadableResource, Resource: filename, Err: err}
	}

	ct, err := param.Parse(r.Source.ContentType())
	if err != nil {
		ct = param.New(mimetype.Detect(data).String())
	}

	mods := []param.Modifier{param.Set(param.Name, filename)}
	if disposition == "attachment" {
		mods = append(mods, param.Set(param.Filename, filename))
	}

	h := newHeader()
	h.SetContentType(param.Modify(ct, mods...))
	h.SetContentDisposition(param.NewWithParams(disposition, map[string]string{
		param.Filename: filename,
	}))
	h.SetContentID(id)
	if r.Description != "" {
		h.SetContentDescription(r.Description)
	}

	cte := r.TransferEncoding
	if cte == "" {
		cte = transfer.Base64
	}
	h.SetTransferEncoding(cte)

	c.logger.Debug().
		Str("disposition", disposition).
		Str("filename", filename).
		Str("content-id", id).
		Str("content-type", ct.MediaType()).
		Int("size", len(data)).
		Msg("added resource")

	return message.NewOpaque(h, bytes.NewReader(data)), nil
}

func readSource(ds email.DataSource) ([]byte, error) {
	rc, err := ds.Open()
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}

	return data, err
}

// forward carries the serialized fwd as a message/rfc822 leaf with no
// disposition. The bytes are written as they are.
func (c *composer) forward(fwd message.Generic) (message.Part, error) {
	var buf message.Buffer
	buf.SetBreak(header.CRLF)
	buf.SetMediaType(MessageRFC822)
	if err := buf.SetSingle(); err != nil {
		return nil, err
	}

	if _, err := fwd.WriteTo(&buf); err != nil {
		return nil, &ProductionError{Reason: ErrUnreadableResource, Resource: MessageRFC822, Err: err}
	}

	return buf.OpaqueAlreadyEncoded()
}

// checkContainers fails if any container in the tree has no parts.
func checkContainers(root message.Part) error {
	return walk.AndProcess(func(part message.Part, _ []message.Part) error {
		if part.IsMultipart() && len(part.GetParts()) == 0 {
			mt, _ := part.GetHeader().GetMediaType()
			return &ProductionError{Reason: ErrEmptyContainer, Resource: mt}
		}
		return nil
	}, root)
}
