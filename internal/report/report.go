// Package report describes analysis results and MIME trees for people: a
// JSON summary of an analyze.Result and an indented outline of a tree.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/analyze"
	"github.com/zostay/go-email-codec/message"
	"github.com/zostay/go-email-codec/message/walk"
)

// Resource describes an embedded image or an attachment.
type Resource struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentId,omitempty"`
	Description string `json:"description,omitempty"`
	Size        int64  `json:"size"`
}

// Summary is the JSON form of an analyze.Result.
type Summary struct {
	MessageID string     `json:"messageId,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Date      *time.Time `json:"date,omitempty"`

	From    string   `json:"from,omitempty"`
	ReplyTo string   `json:"replyTo,omitempty"`
	To      []string `json:"to,omitempty"`
	Cc      []string `json:"cc,omitempty"`
	Bcc     []string `json:"bcc,omitempty"`

	PlainText      string `json:"plainText,omitempty"`
	HTMLText       string `json:"htmlText,omitempty"`
	CalendarMethod string `json:"calendarMethod,omitempty"`
	CalendarText   string `json:"calendarText,omitempty"`

	TransferEncoding string `json:"transferEncoding,omitempty"`

	Embedded    []Resource `json:"embedded,omitempty"`
	Attachments []Resource `json:"attachments,omitempty"`

	Headers map[string][]string `json:"headers,omitempty"`

	DispositionNotificationTo string `json:"dispositionNotificationTo,omitempty"`
	ReturnReceiptTo           string `json:"returnReceiptTo,omitempty"`
	BounceTo                  string `json:"bounceTo,omitempty"`
}

func recipient(r *email.Recipient) string {
	if r == nil {
		return ""
	}
	return r.String()
}

func recipients(rs []email.Recipient) []string {
	var ss []string
	for _, r := range rs {
		ss = append(ss, r.String())
	}
	return ss
}

// Summarize builds a Summary of res. Resource sizes are found by reading
// each source, so a single-use source is consumed.
func Summarize(res *analyze.Result) (*Summary, error) {
	s := &Summary{
		MessageID:                 res.MessageID,
		Subject:                   res.Subject,
		From:                      recipient(res.From),
		ReplyTo:                   recipient(res.ReplyTo),
		To:                        recipients(res.To),
		Cc:                        recipients(res.Cc),
		Bcc:                       recipients(res.Bcc),
		PlainText:                 res.PlainText,
		HTMLText:                  res.HTMLText,
		CalendarMethod:            string(res.CalendarMethod),
		CalendarText:              res.CalendarText,
		TransferEncoding:          res.ContentTransferEncoding,
		DispositionNotificationTo: recipient(res.DispositionNotificationTo),
		ReturnReceiptTo:           recipient(res.ReturnReceiptTo),
		BounceTo:                  recipient(res.BounceTo),
	}

	if !res.SentDate.IsZero() {
		d := res.SentDate.UTC()
		s.Date = &d
	}

	for _, cid := range res.CIDs() {
		r, err := describe(*res.CIDMap[cid])
		if err != nil {
			return nil, err
		}
		r.ContentID = cid
		s.Embedded = append(s.Embedded, r)
	}

	for _, a := range res.Attachments.Items() {
		r, err := describe(a)
		if err != nil {
			return nil, err
		}
		s.Attachments = append(s.Attachments, r)
	}

	if res.Headers.Len() > 0 {
		s.Headers = map[string][]string{}
		res.Headers.Each(func(name, value string) {
			s.Headers[name] = append(s.Headers[name], value)
		})
	}

	return s, nil
}

func describe(res email.Resource) (Resource, error) {
	r := Resource{
		Name:        res.Name,
		ContentType: res.Source.ContentType(),
		Description: res.Description,
	}

	rc, err := res.Source.Open()
	if err != nil {
		return r, fmt.Errorf("unable to open %q: %w", res.Name, err)
	}
	defer func() { _ = rc.Close() }()

	if r.Size, err = io.Copy(io.Discard, rc); err != nil {
		return r, fmt.Errorf("unable to read %q: %w", res.Name, err)
	}

	return r, nil
}

// JSON returns the summary as indented JSON ending in a newline.
func (s *Summary) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Outline writes one line per part of the tree, indented two spaces per
// level: the media type, then the disposition and file name of leaves or
// the part count of containers.
func Outline(w io.Writer, root message.Part) error {
	return walk.AndProcess(func(part message.Part, parents []message.Part) error {
		h := part.GetHeader()

		mt, err := h.GetMediaType()
		if err != nil {
			mt = "text/plain"
		}

		line := strings.Repeat("  ", len(parents)) + mt
		if part.IsMultipart() {
			line += fmt.Sprintf(" (%d parts)", len(part.GetParts()))
		} else {
			if d, err := h.GetPresentation(); err == nil && d != "" {
				line += " " + d
			}
			if fn, err := h.GetFilename(); err == nil && fn != "" {
				line += fmt.Sprintf(" %q", fn)
			}
			if cid, err := h.GetContentID(); err == nil && cid != "" {
				line += " <" + cid + ">"
			}
		}

		_, err = fmt.Fprintln(w, line)
		return err
	}, root)
}
