package email

import (
	"fmt"
	"strings"
	"time"

	"github.com/zostay/go-email-codec/message"
	"github.com/zostay/go-email-codec/message/transfer"
)

// RecipientType says which address header a recipient belongs in.
type RecipientType int

// Recipient types.
const (
	To RecipientType = iota
	Cc
	Bcc
)

// String returns the header name for the recipient type.
func (t RecipientType) String() string {
	switch t {
	case To:
		return "To"
	case Cc:
		return "Cc"
	case Bcc:
		return "Bcc"
	}
	return fmt.Sprintf("RecipientType(%d)", int(t))
}

// Recipient is a named address.
type Recipient struct {
	Name    string
	Address string
	Type    RecipientType
}

// String formats the recipient for an address header. Names holding
// characters that are special in addresses are quoted unless they need word
// encoding, which cannot happen inside quotes.
func (r Recipient) String() string {
	if r.Name == "" {
		return r.Address
	}

	name := r.Name
	if strings.ContainsAny(name, `()<>[]:;@\,."`) && isASCII(name) {
		name = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name) + `"`
	}

	return name + " <" + r.Address + ">"
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// CalendarMethod is an iTIP method (RFC 5546) naming what a calendar body
// asks of its recipient.
type CalendarMethod string

// iTIP methods.
const (
	Publish        CalendarMethod = "PUBLISH"
	Request        CalendarMethod = "REQUEST"
	Reply          CalendarMethod = "REPLY"
	Add            CalendarMethod = "ADD"
	Cancel         CalendarMethod = "CANCEL"
	Refresh        CalendarMethod = "REFRESH"
	Counter        CalendarMethod = "COUNTER"
	DeclineCounter CalendarMethod = "DECLINECOUNTER"
)

// DefaultContentTransferEncoding is used for text bodies when an Email does
// not name one.
const DefaultContentTransferEncoding = transfer.QuotedPrintable

// Email is a message by content rather than by structure. Treat it as
// immutable once handed to compose.
type Email struct {
	// ID is a fixed Message-ID. Left empty, the transport assigns one.
	ID string

	Subject string

	From     *Recipient
	ReplyTo  *Recipient
	BounceTo *Recipient

	// Recipients keeps its order within each header.
	Recipients []Recipient

	// SentDate is written as the Date header unless zero.
	SentDate time.Time

	// PlainText and HTMLText are absent when empty.
	PlainText string
	HTMLText  string

	// CalendarText counts only when CalendarMethod is set too.
	CalendarText   string
	CalendarMethod CalendarMethod

	// EmbeddedImages are referenced from HTMLText by cid: URLs. Duplicates
	// by Resource.Key are dropped.
	EmbeddedImages []Resource

	// Attachments are written in this order.
	Attachments []Resource

	// Forward is a message carried whole as message/rfc822.
	Forward message.Generic

	// Headers are custom headers written after the standard ones.
	Headers *Headers

	// UseDispositionNotificationTo asks for a read receipt, sent to
	// DispositionNotificationTo, else ReplyTo, else From.
	UseDispositionNotificationTo bool
	DispositionNotificationTo    *Recipient

	// UseReturnReceiptTo asks for a delivery receipt, sent to
	// ReturnReceiptTo, else ReplyTo, else From.
	UseReturnReceiptTo bool
	ReturnReceiptTo    *Recipient

	// ContentTransferEncoding applies to the text bodies. Empty means
	// DefaultContentTransferEncoding.
	ContentTransferEncoding string
}

// HasCalendar reports whether the calendar body is present.
func (e *Email) HasCalendar() bool {
	return e.CalendarText != "" && e.CalendarMethod != ""
}

// TransferEncoding returns the Content-Transfer-Encoding for text bodies.
func (e *Email) TransferEncoding() string {
	if e.ContentTransferEncoding == "" {
		return DefaultContentTransferEncoding
	}
	return e.ContentTransferEncoding
}

// RecipientsOf returns the recipients of the given type, in order.
func (e *Email) RecipientsOf(t RecipientType) []Recipient {
	var rs []Recipient
	for _, r := range e.Recipients {
		if r.Type == t {
			rs = append(rs, r)
		}
	}
	return rs
}

// DispositionNotificationRecipient returns where a read receipt goes, or nil
// when none was asked for or there is nobody to send it to.
func (e *Email) DispositionNotificationRecipient() *Recipient {
	if !e.UseDispositionNotificationTo {
		return nil
	}
	return firstRecipient(e.DispositionNotificationTo, e.ReplyTo, e.From)
}

// ReturnReceiptRecipient returns where a delivery receipt goes, or nil when
// none was asked for or there is nobody to send it to.
func (e *Email) ReturnReceiptRecipient() *Recipient {
	if !e.UseReturnReceiptTo {
		return nil
	}
	return firstRecipient(e.ReturnReceiptTo, e.ReplyTo, e.From)
}

func firstRecipient(rs ...*Recipient) *Recipient {
	for _, r := range rs {
		if r != nil && r.Address != "" {
			return r
		}
	}
	return nil
}
