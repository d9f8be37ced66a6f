package header

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-email-codec/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned when the named field is not in the header.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned when the field exists but the
	// requested parameter of the field does not.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned when a singular read finds the field more than
	// once. The first value is returned along with it.
	ErrManyFields = errors.New("many header fields found")

	// ErrWrongAddressType is returned by the address setters when given
	// something other than a string or an addr.Address.
	ErrWrongAddressType = errors.New("incorrect address type during write")
)

// Field names used by this module.
const (
	Bcc                       = "Bcc"
	Cc                        = "Cc"
	ContentDescription        = "Content-Description"
	ContentDisposition        = "Content-Disposition"
	ContentID                 = "Content-ID"
	ContentTransferEncoding   = "Content-Transfer-Encoding"
	ContentType               = "Content-Type"
	Date                      = "Date"
	DispositionNotificationTo = "Disposition-Notification-To"
	From                      = "From"
	MessageID                 = "Message-ID"
	MIMEVersion               = "MIME-Version"
	ReplyTo                   = "Reply-To"
	ReturnPath                = "Return-Path"
	ReturnReceiptTo           = "Return-Receipt-To"
	Subject                   = "Subject"
	To                        = "To"
)

// UnixDateWithEarlyYear is a date layout seen in the wild that the usual
// parsers reject.
const UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// Header wraps a Base with convenience accessors. Parsed semantic values are
// cached by lowercased field name; only immutable values are cached.
type Header struct {
	Base

	valueCache map[string]any
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	vc := make(map[string]any, len(h.valueCache))
	for k, v := range h.valueCache {
		vc[k] = v
	}

	return &Header{
		Base:       *h.Base.Clone(),
		valueCache: vc,
	}
}

func (h *Header) getValue(name string) (any, bool) {
	v, found := h.valueCache[strings.ToLower(name)]
	return v, found
}

func (h *Header) setValue(name string, value any) {
	if h.valueCache == nil {
		h.valueCache = make(map[string]any, h.Len())
	}
	h.valueCache[strings.ToLower(name)] = value
}

func (h *Header) forget(name string) {
	delete(h.valueCache, strings.ToLower(name))
}

// cached returns the cached value of type T for name, computing and caching
// it with load on a miss.
func cached[T any](h *Header, name string, load func() (T, error)) (T, error) {
	if v, found := h.getValue(name); found {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	t, err := load()
	if err != nil {
		return t, err
	}

	h.setValue(name, t)
	return t, nil
}

// Get returns the body of the named field.
//
// It returns ErrNoSuchField when the field is missing. When the field occurs
// more than once, the first body is returned with ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.GetField(ixs[0]).Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetAll returns the bodies of every field with the given name, or
// ErrNoSuchField if there are none.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}

	return bs, nil
}

// Set replaces every field with the given name by a single field. The first
// existing occurrence keeps its position; otherwise the field is appended.
func (h *Header) Set(name, body string) {
	h.forget(name)

	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.InsertBeforeField(h.Len(), name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		_ = h.DeleteField(ixs[i])
	}

	f := h.GetField(ixs[0])
	f.SetName(name)
	f.SetBody(body)
}

// SetAll makes the named field occur exactly len(bodies) times, reusing
// existing positions before appending.
func (h *Header) SetAll(name string, bodies ...string) {
	h.forget(name)

	ixs := h.GetIndexesNamed(name)
	for i, b := range bodies {
		if i < len(ixs) {
			h.GetField(ixs[i]).SetBody(b)
			continue
		}
		h.InsertBeforeField(h.Len(), name, b)
	}

	for i := len(ixs) - 1; i >= len(bodies); i-- {
		_ = h.DeleteField(ixs[i])
	}
}

// ParseTime parses a date in RFC 5322 format, falling back to the many
// formats understood by dateparse.
func ParseTime(body string) (time.Time, error) {
	if t, err := mail.ParseDate(body); err == nil {
		return t, nil
	}

	if t, err := dateparse.ParseAny(body); err == nil {
		return t, nil
	}

	if t, err := time.Parse(UnixDateWithEarlyYear, body); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime parses the named field as a date.
func (h *Header) GetTime(name string) (time.Time, error) {
	return cached(h, name, func() (time.Time, error) {
		body, err := h.Get(name)
		if err != nil {
			return time.Time{}, err
		}
		return ParseTime(body)
	})
}

// SetTime replaces the named field with the time formatted per RFC 1123Z.
func (h *Header) SetTime(name string, body time.Time) {
	h.Set(name, body.Format(time.RFC1123Z))
	h.setValue(name, body)
}

// ParseAddressList parses an address list strictly, falling back to a very
// lenient parse that returns something for any input.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// GetAddressList returns the named field as an addr.AddressList using
// ParseAddressList. A badly formatted field may yield odd addresses rather
// than an error.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	return cached(h, name, func() (addr.AddressList, error) {
		body, err := h.Get(name)
		if err != nil {
			return nil, err
		}
		return ParseAddressList(body), nil
	})
}

// GetAllAddressLists returns an addr.AddressList per field with the given
// name.
func (h *Header) GetAllAddressLists(name string) ([]addr.AddressList, error) {
	bs, err := h.GetAll(name)
	if err != nil {
		return nil, err
	}

	als := make([]addr.AddressList, len(bs))
	for i, b := range bs {
		als[i] = ParseAddressList(b)
	}

	return als, nil
}

// SetAddressList replaces the named field with the given addresses.
func (h *Header) SetAddressList(name string, body ...addr.Address) {
	h.Set(name, addr.AddressList(body).String())
	h.setValue(name, addr.AddressList(body))
}

// setAddress accepts strings, which must parse strictly, or addr.Address
// values.
func (h *Header) setAddress(n string, as []any) error {
	al := make(addr.AddressList, 0, len(as))
	for _, a := range as {
		switch v := a.(type) {
		case string:
			add, err := addr.ParseEmailAddress(v)
			if err != nil {
				return err
			}
			al = append(al, add)
		case addr.Address:
			al = append(al, v)
		default:
			return ErrWrongAddressType
		}
	}
	h.SetAddressList(n, al...)
	return nil
}

// GetParamValue returns the named field parsed as a param.Value. The result
// is a copy and may be modified freely.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	pv, err := cached(h, name, func() (*param.Value, error) {
		body, err := h.Get(name)
		if err != nil {
			return nil, err
		}
		return param.Parse(body)
	})
	if err != nil {
		return nil, err
	}

	return pv.Clone(), nil
}

// SetParamValue replaces the named field with the given param.Value.
func (h *Header) SetParamValue(name string, body *param.Value) {
	h.Set(name, body.String())
	h.setValue(name, body.Clone())
}

// setParamValueValue changes the primary value of a param.Value field while
// keeping its parameters, or creates the field.
func (h *Header) setParamValueValue(name, v string) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		pv = param.New(v)
	} else {
		pv = param.Modify(pv, param.Change(v))
	}

	h.SetParamValue(name, pv)
}

func (h *Header) getParamValueParam(name, p string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	if v := pv.Parameter(p); v != "" {
		return v, nil
	}

	return "", ErrNoSuchFieldParameter
}

// setParamValueParam sets one parameter of an existing param.Value field.
func (h *Header) setParamValueParam(name, p, v string) error {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return err
	}

	h.SetParamValue(name, param.Modify(pv, param.Set(p, v)))
	return nil
}

// GetContentType returns the Content-Type field as a param.Value.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// SetContentType replaces the Content-Type field.
func (h *Header) SetContentType(v *param.Value) {
	h.SetParamValue(ContentType, v)
}

// GetMediaType returns the lowercased media type of the Content-Type field
// without its parameters.
func (h *Header) GetMediaType() (string, error) {
	pv, err := h.GetContentType()
	if err != nil {
		return "", err
	}
	return pv.MediaType(), nil
}

// SetMediaType sets the media type of Content-Type, keeping any parameters.
func (h *Header) SetMediaType(mt string) {
	h.setParamValueValue(ContentType, mt)
}

// GetCharset returns the charset parameter of Content-Type.
func (h *Header) GetCharset() (string, error) {
	return h.getParamValueParam(ContentType, param.Charset)
}

// SetCharset sets the charset parameter of an existing Content-Type.
func (h *Header) SetCharset(c string) error {
	return h.setParamValueParam(ContentType, param.Charset, c)
}

// GetBoundary returns the boundary parameter of Content-Type.
func (h *Header) GetBoundary() (string, error) {
	return h.getParamValueParam(ContentType, param.Boundary)
}

// SetBoundary sets the boundary parameter of an existing Content-Type.
func (h *Header) SetBoundary(b string) error {
	return h.setParamValueParam(ContentType, param.Boundary, b)
}

// GetContentDisposition returns the Content-Disposition field as a
// param.Value.
func (h *Header) GetContentDisposition() (*param.Value, error) {
	return h.GetParamValue(ContentDisposition)
}

// SetContentDisposition replaces the Content-Disposition field.
func (h *Header) SetContentDisposition(v *param.Value) {
	h.SetParamValue(ContentDisposition, v)
}

// GetPresentation returns the disposition, such as "inline" or "attachment",
// of the Content-Disposition field.
func (h *Header) GetPresentation() (string, error) {
	pv, err := h.GetContentDisposition()
	if err != nil {
		return "", err
	}
	return pv.Disposition(), nil
}

// SetPresentation sets the disposition of Content-Disposition, keeping any
// parameters.
func (h *Header) SetPresentation(d string) {
	h.setParamValueValue(ContentDisposition, d)
}

// GetFilename returns the filename parameter of Content-Disposition.
func (h *Header) GetFilename() (string, error) {
	return h.getParamValueParam(ContentDisposition, param.Filename)
}

// SetFilename sets the filename parameter of an existing Content-Disposition.
func (h *Header) SetFilename(f string) error {
	return h.setParamValueParam(ContentDisposition, param.Filename, f)
}

// GetDate returns the Date field as a time.Time.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// SetDate replaces the Date field.
func (h *Header) SetDate(d time.Time) {
	h.SetTime(Date, d)
}

// GetSubject returns the Subject field.
func (h *Header) GetSubject() (string, error) {
	return h.Get(Subject)
}

// SetSubject replaces the Subject field.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, s)
}

// GetTo returns the To field as an addr.AddressList.
func (h *Header) GetTo() (addr.AddressList, error) {
	return h.GetAddressList(To)
}

// SetTo sets the To field from strings or addr.Address values.
func (h *Header) SetTo(a ...any) error {
	return h.setAddress(To, a)
}

// GetCc returns the Cc field as an addr.AddressList.
func (h *Header) GetCc() (addr.AddressList, error) {
	return h.GetAddressList(Cc)
}

// SetCc sets the Cc field from strings or addr.Address values.
func (h *Header) SetCc(a ...any) error {
	return h.setAddress(Cc, a)
}

// GetBcc returns the Bcc field as an addr.AddressList.
func (h *Header) GetBcc() (addr.AddressList, error) {
	return h.GetAddressList(Bcc)
}

// SetBcc sets the Bcc field from strings or addr.Address values.
func (h *Header) SetBcc(a ...any) error {
	return h.setAddress(Bcc, a)
}

// GetFrom returns the From field as an addr.AddressList.
func (h *Header) GetFrom() (addr.AddressList, error) {
	return h.GetAddressList(From)
}

// SetFrom sets the From field from strings or addr.Address values.
func (h *Header) SetFrom(a ...any) error {
	return h.setAddress(From, a)
}

// GetReplyTo returns the Reply-To field as an addr.AddressList.
func (h *Header) GetReplyTo() (addr.AddressList, error) {
	return h.GetAddressList(ReplyTo)
}

// SetReplyTo sets the Reply-To field from strings or addr.Address values.
func (h *Header) SetReplyTo(a ...any) error {
	return h.setAddress(ReplyTo, a)
}

// GetMessageID returns the Message-ID field.
func (h *Header) GetMessageID() (string, error) {
	return h.Get(MessageID)
}

// SetMessageID replaces the Message-ID field.
func (h *Header) SetMessageID(id string) {
	h.Set(MessageID, id)
}

// GetTransferEncoding returns the Content-Transfer-Encoding field.
func (h *Header) GetTransferEncoding() (string, error) {
	return h.Get(ContentTransferEncoding)
}

// SetTransferEncoding replaces the Content-Transfer-Encoding field.
func (h *Header) SetTransferEncoding(b string) {
	h.Set(ContentTransferEncoding, b)
}

// GetContentID returns the Content-ID field with any surrounding angle
// brackets removed.
func (h *Header) GetContentID() (string, error) {
	id, err := h.Get(ContentID)
	return UnescapeContentID(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(id), "<"), ">")), err
}

// SetContentID replaces the Content-ID field, wrapping id in angle brackets.
// The id is passed through EscapeContentID first.
func (h *Header) SetContentID(id string) {
	h.Set(ContentID, "<"+EscapeContentID(id)+">")
}

// EscapeContentID percent-encodes every byte of id that may not appear in a
// msg-id, including all non-ASCII bytes and the percent sign itself. This is
// the same form a cid: URL uses for the id (RFC 2392).
func EscapeContentID(id string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		if isMsgIDChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

// UnescapeContentID reverses EscapeContentID. An id that is not validly
// percent-encoded is returned unchanged.
func UnescapeContentID(id string) string {
	if !strings.Contains(id, "%") {
		return id
	}
	if u, err := url.PathUnescape(id); err == nil {
		return u
	}
	return id
}

func isMsgIDChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&'*+-/=?^_`{|}~.@", c) >= 0
}

// GetContentDescription returns the Content-Description field.
func (h *Header) GetContentDescription() (string, error) {
	return h.Get(ContentDescription)
}

// SetContentDescription replaces the Content-Description field.
func (h *Header) SetContentDescription(d string) {
	h.Set(ContentDescription, d)
}

// AddressName returns the display name of an address, or the empty string
// when it has none.
func AddressName(a addr.Address) string {
	return a.DisplayName()
}

// parseEmailAddressList is the lenient fallback for ParseAddressList. Each
// comma-separated entry outside of quotes has its comments removed; the last
// word becomes the address and any words before it the display name. Groups
// are not recognized.
func parseEmailAddressList(v string) addr.AddressList {
	entries := splitOutsideQuotes(v, ',')
	as := make(addr.AddressList, 0, len(entries))
	for _, orig := range entries {
		mb, com := extractComments(orig)

		mb = strings.TrimSpace(mb)
		com = strings.TrimSpace(com)

		var dn, email string
		if i := strings.LastIndex(mb, "<"); i >= 0 {
			dn = strings.TrimSpace(mb[:i])
			email = strings.TrimSuffix(strings.TrimSpace(mb[i+1:]), ">")
		} else {
			parts := strings.Fields(mb)
			switch len(parts) {
			case 0:
			case 1:
				email = parts[0]
			default:
				dn = strings.Join(parts[:len(parts)-1], " ")
				email = parts[len(parts)-1]
			}
		}
		dn = strings.Trim(dn, `"`)

		if email == "" {
			continue
		}

		local, domain := email, ""
		if i := strings.LastIndex(email, "@"); i > -1 {
			local, domain = email[:i], email[i+1:]
		}
		addrSpec := addr.NewAddrSpecParsed(local, domain, email)

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, orig)
		if err != nil {
			mailbox, err = addr.NewMailboxParsed(dn, addrSpec, "", orig)
			if err != nil {
				continue
			}
		}

		as = append(as, mailbox)
	}

	return as
}

// splitOutsideQuotes splits s on sep, ignoring separators inside double
// quotes or angle brackets.
func splitOutsideQuotes(s string, sep rune) []string {
	var (
		out    []string
		cur    strings.Builder
		quoted bool
		angle  bool
		escape bool
	)
	for _, c := range s {
		switch {
		case escape:
			escape = false
		case c == '\\' && quoted:
			escape = true
		case c == '"':
			quoted = !quoted
		case c == '<' && !quoted:
			angle = true
		case c == '>' && !quoted:
			angle = false
		case c == sep && !quoted && !angle:
			out = append(out, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	return append(out, cur.String())
}

// extractComments separates parenthesized comments, which may nest, from the
// rest of s.
func extractComments(s string) (string, string) {
	var clean, comment strings.Builder
	nestLevel := 0
	for _, c := range s {
		switch {
		case c == '(':
			nestLevel++
			if nestLevel > 1 {
				comment.WriteRune(c)
			}
		case c == ')':
			nestLevel--
			switch {
			case nestLevel == 0:
			case nestLevel < 0:
				nestLevel = 0
				clean.WriteRune(c)
			default:
				comment.WriteRune(c)
			}
		case nestLevel > 0:
			comment.WriteRune(c)
		default:
			clean.WriteRune(c)
		}
	}

	return clean.String(), comment.String()
}
