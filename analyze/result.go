package analyze

import (
	"sort"
	"time"

	"github.com/zostay/go-email-codec"
)

// Result is what Parse found in a document.
type Result struct {
	MessageID string
	Subject   string

	// SentDate is zero when the Date header is missing or unreadable.
	SentDate time.Time

	From    *email.Recipient
	ReplyTo *email.Recipient
	To      []email.Recipient
	Cc      []email.Recipient
	Bcc     []email.Recipient

	// PlainText and HTMLText concatenate every matching body in document
	// order.
	PlainText string
	HTMLText  string

	CalendarText   string
	CalendarMethod email.CalendarMethod

	// ContentTransferEncoding is that of the first text body.
	ContentTransferEncoding string

	Attachments *email.ResourceSet

	// CIDMap holds the resources referenced from HTMLText by Content-ID.
	CIDMap map[string]*email.Resource

	// Headers holds every other header of every part, less the structural
	// ones.
	Headers *email.Headers

	DispositionNotificationTo *email.Recipient
	ReturnReceiptTo           *email.Recipient

	// BounceTo comes from Return-Path.
	BounceTo *email.Recipient
}

func newResult() Result {
	return Result{
		Attachments: email.NewResourceSet(),
		CIDMap:      map[string]*email.Resource{},
		Headers:     email.NewHeaders(),
	}
}

// CIDs returns the keys of CIDMap in sorted order.
func (r *Result) CIDs() []string {
	cids := make([]string, 0, len(r.CIDMap))
	for cid := range r.CIDMap {
		cids = append(cids, cid)
	}
	sort.Strings(cids)
	return cids
}

// Email converts the result into an email.Email that composes to an
// equivalent message. Embedded images are named by Content-ID, so the
// cid: URLs in the HTML keep working.
func (r *Result) Email() *email.Email {
	e := &email.Email{
		ID:                           r.MessageID,
		Subject:                      r.Subject,
		From:                         r.From,
		ReplyTo:                      r.ReplyTo,
		BounceTo:                     r.BounceTo,
		SentDate:                     r.SentDate,
		PlainText:                    r.PlainText,
		HTMLText:                     r.HTMLText,
		CalendarText:                 r.CalendarText,
		CalendarMethod:               r.CalendarMethod,
		Attachments:                  r.Attachments.Items(),
		Headers:                      r.Headers,
		UseDispositionNotificationTo: r.DispositionNotificationTo != nil,
		DispositionNotificationTo:    r.DispositionNotificationTo,
		UseReturnReceiptTo:           r.ReturnReceiptTo != nil,
		ReturnReceiptTo:              r.ReturnReceiptTo,
		ContentTransferEncoding:      r.ContentTransferEncoding,
	}

	for _, rs := range [][]email.Recipient{r.To, r.Cc, r.Bcc} {
		e.Recipients = append(e.Recipients, rs...)
	}

	for _, cid := range r.CIDs() {
		res := *r.CIDMap[cid]
		res.Name = cid
		e.EmbeddedImages = append(e.EmbeddedImages, res)
	}

	return e
}
