package compose

import (
	"strings"
	"time"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/message/header"
)

// applyRootHeaders puts the message headers of e in front of the fields
// already in h. Return-Path is left to the transport.
func (c *composer) applyRootHeaders(h *header.Header, e *email.Email) {
	n := 0
	add := func(name, body string) {
		h.InsertBeforeField(n, name, body)
		n++
	}

	add(header.MIMEVersion, "1.0")

	if e.ID != "" {
		id := e.ID
		if !strings.HasPrefix(id, "<") {
			id = "<" + id + ">"
		}
		add(header.MessageID, id)
	}

	if !e.SentDate.IsZero() {
		add(header.Date, e.SentDate.Format(time.RFC1123Z))
	}

	if e.Subject != "" {
		add(header.Subject, e.Subject)
	}

	if e.From != nil {
		add(header.From, e.From.String())
	}
	if e.ReplyTo != nil {
		add(header.ReplyTo, e.ReplyTo.String())
	}

	for _, t := range []email.RecipientType{email.To, email.Cc, email.Bcc} {
		if rs := e.RecipientsOf(t); len(rs) > 0 {
			add(t.String(), joinRecipients(rs))
		}
	}

	e.Headers.Each(func(name, value string) {
		add(name, value)
	})

	if r := e.DispositionNotificationRecipient(); r != nil {
		add(header.DispositionNotificationTo, r.String())
	}
	if r := e.ReturnReceiptRecipient(); r != nil {
		add(header.ReturnReceiptTo, r.String())
	}

	c.logger.Debug().Int("fields", n).Msg("applied root headers")
}

func joinRecipients(rs []email.Recipient) string {
	ss := make([]string, len(rs))
	for i, r := range rs {
		ss[i] = r.String()
	}
	return strings.Join(ss, ", ")
}
