// Package crosscheck reads a MIME document a second time with
// github.com/emersion/go-message and compares what it finds with the result
// of analyze.Parse. It is used to check that composed messages are read the
// same way by another implementation.
package crosscheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/charmap"

	"github.com/zostay/go-email-codec/analyze"
)

func init() {
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// Resource is a non-body leaf as go-message sees it.
type Resource struct {
	Filename    string
	ContentType string
	ContentID   string
	Data        []byte
}

// Summary is what go-message found in a document.
type Summary struct {
	Subject string
	From    string
	To      []string

	PlainText    string
	HTMLText     string
	CalendarText string

	Resources []Resource

	// Skipped counts leaves with a disposition other than inline or
	// attachment.
	Skipped int
}

// Read summarizes a document using go-message.
func Read(r io.Reader) (*Summary, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}

	s := &Summary{}
	s.Subject, _ = mr.Header.Subject()
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		s.From = from[0].Address
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		for _, a := range to {
			s.To = append(s.To, a.Address)
		}
	}

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil && (p == nil || !message.IsUnknownCharset(err)) {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		var h message.Header
		switch ph := p.Header.(type) {
		case *mail.InlineHeader:
			h = ph.Header
		case *mail.AttachmentHeader:
			h = ph.Header
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}

		s.add(h, body)
	}

	return s, nil
}

func (s *Summary) add(h message.Header, body []byte) {
	t, params, _ := h.ContentType()
	if t == "" {
		t = "text/plain"
	}

	disp, dparams, _ := h.ContentDisposition()
	switch disp {
	case "", "inline", "attachment":
	default:
		s.Skipped++
		return
	}

	if disp != "attachment" {
		switch {
		case t == "text/plain":
			s.PlainText += string(body)
			return
		case t == "text/html":
			s.HTMLText += string(body)
			return
		case t == "text/calendar" && s.CalendarText == "":
			s.CalendarText = string(body)
			return
		}
	}

	filename := dparams["filename"]
	if filename == "" {
		filename = params["name"]
	}

	s.Resources = append(s.Resources, Resource{
		Filename:    filename,
		ContentType: t,
		ContentID:   strings.Trim(h.Get("Content-Id"), "<> "),
		Data:        body,
	})
}

// Compare lists the ways res disagrees with s. An empty list means the two
// readings agree.
func Compare(res *analyze.Result, s *Summary) []string {
	var diffs []string
	check := func(what, got, want string) {
		if got != want {
			diffs = append(diffs, fmt.Sprintf("%s: analyze has %q, go-message has %q", what, got, want))
		}
	}

	check("subject", res.Subject, s.Subject)

	from := ""
	if res.From != nil {
		from = res.From.Address
	}
	check("from", from, s.From)

	to := make([]string, len(res.To))
	for i, r := range res.To {
		to[i] = r.Address
	}
	check("to", strings.Join(to, ", "), strings.Join(s.To, ", "))

	check("plain text", res.PlainText, s.PlainText)
	check("html text", res.HTMLText, s.HTMLText)
	check("calendar text", res.CalendarText, s.CalendarText)

	var got []string
	for _, cid := range res.CIDs() {
		got = append(got, digest(res.CIDMap[cid].Source.Open))
	}
	for _, r := range res.Attachments.Items() {
		got = append(got, digest(r.Source.Open))
	}

	want := make([]string, len(s.Resources))
	for i, r := range s.Resources {
		want[i] = fmt.Sprintf("%q", r.Data)
	}

	sort.Strings(got)
	sort.Strings(want)
	check("resources", strings.Join(got, " "), strings.Join(want, " "))

	return diffs
}

func digest(open func() (io.ReadCloser, error)) string {
	rc, err := open()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	defer func() { _ = rc.Close() }()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return fmt.Sprintf("%q", b)
}

// Check reads the document both ways and compares them. Resource data must
// be fetched, so WithFetchAttachmentData(true) is always added.
func Check(r io.Reader, opts ...analyze.Option) ([]string, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	opts = append(opts, analyze.WithFetchAttachmentData(true))
	res, err := analyze.ParseReader(bytes.NewReader(doc), opts...)
	if err != nil {
		return nil, err
	}

	s, err := Read(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}

	return Compare(res, s), nil
}
