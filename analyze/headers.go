package analyze

import (
	"strings"
	"unicode"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/message/header"
)

// ignoredHeaders are left out of the header bag, as they are either read
// into their own fields or describe structure.
var ignoredHeaders = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"Received",
		"Resent-Date", "Resent-From", "Resent-Sender", "Resent-To",
		"Resent-Cc", "Resent-Bcc", "Resent-Message-Id",
		"Date", "From", "Sender", "Reply-To", "To", "Cc", "Bcc",
		"Message-Id", "Subject", "Comments", "Keywords", "Errors-To",
		"MIME-Version", "Content-Type", "Content-Transfer-Encoding",
		"Content-MD5", "Content-Length", "Status",
		"Content-Disposition", "Content-ID", "Content-Description",
		"size", "filename", "name",
	} {
		ignoredHeaders[strings.ToLower(name)] = struct{}{}
	}
}

// IsIgnoredHeader reports whether the named header is kept out of
// Result.Headers.
func IsIgnoredHeader(name string) bool {
	_, ok := ignoredHeaders[strings.ToLower(name)]
	return ok
}

// hasAddress reports whether a notification or bounce header names anybody.
func hasAddress(body string) bool {
	body = strings.TrimSpace(body)
	return body != "" && body != "<>"
}

// divertHeaders routes the fields of one part: the first occurrence of each
// notification or bounce header to its own field, everything else that is
// not ignored to the header bag.
func divertHeaders(acc Result, h *header.Header) (Result, error) {
	for _, f := range h.ListFields() {
		name, body := f.Name(), f.Body()

		var slot **email.Recipient
		switch {
		case strings.EqualFold(name, header.DispositionNotificationTo):
			slot = &acc.DispositionNotificationTo
		case strings.EqualFold(name, header.ReturnReceiptTo):
			slot = &acc.ReturnReceiptTo
		case strings.EqualFold(name, header.ReturnPath):
			slot = &acc.BounceTo
		}

		if slot != nil && *slot == nil && hasAddress(body) {
			r, err := strictRecipient(body)
			if err != nil {
				return acc, newError(ReasonAddress, name+": "+body, err)
			}
			*slot = r
			continue
		}

		if IsIgnoredHeader(name) || !hasAddress(body) {
			continue
		}

		acc.Headers.Add(name, body)
	}

	return acc, nil
}

// strictRecipient parses a single mailbox strictly. The body has already been
// word decoded, and go-addr only accepts ASCII display names, so a mailbox
// whose display name is not ASCII is accepted when its angle address parses.
func strictRecipient(body string) (*email.Recipient, error) {
	body = strings.TrimSpace(body)
	a, err := addr.ParseEmailAddress(body)
	if err == nil {
		return &email.Recipient{Name: header.AddressName(a), Address: a.Address()}, nil
	}

	i := strings.LastIndex(body, "<")
	if i <= 0 || !strings.HasSuffix(body, ">") {
		return nil, err
	}

	name := strings.TrimSpace(body[:i])
	if isASCII(name) {
		return nil, err
	}

	a, aerr := addr.ParseEmailAddress(body[i+1 : len(body)-1])
	if aerr != nil {
		return nil, err
	}

	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		name = name[1 : len(name)-1]
	}

	return &email.Recipient{Name: name, Address: a.Address()}, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// recipients converts an address list, dropping entries with no address.
func recipients(al addr.AddressList, t email.RecipientType) []email.Recipient {
	var rs []email.Recipient
	for _, a := range al {
		if a.Address() == "" {
			continue
		}
		rs = append(rs, email.Recipient{Name: header.AddressName(a), Address: a.Address(), Type: t})
	}
	return rs
}

func firstRecipient(h *header.Header, name string) *email.Recipient {
	if rs := allRecipients(h, name, email.To); len(rs) > 0 {
		return &rs[0]
	}
	return nil
}

func allRecipients(h *header.Header, name string, t email.RecipientType) []email.Recipient {
	als, err := h.GetAllAddressLists(name)
	if err != nil {
		return nil
	}

	var rs []email.Recipient
	for _, al := range als {
		rs = append(rs, recipients(al, t)...)
	}
	return rs
}

// readMessageHeaders fills in the fields read from the root header only.
// Addresses are read leniently and a bad date is left zero.
func readMessageHeaders(acc *Result, h *header.Header) {
	acc.MessageID, _ = h.GetMessageID()
	acc.Subject, _ = h.GetSubject()

	if d, err := h.GetDate(); err == nil {
		acc.SentDate = d
	}

	acc.From = firstRecipient(h, header.From)
	acc.ReplyTo = firstRecipient(h, header.ReplyTo)
	acc.To = allRecipients(h, header.To, email.To)
	acc.Cc = allRecipients(h, header.Cc, email.Cc)
	acc.Bcc = allRecipients(h, header.Bcc, email.Bcc)
}
