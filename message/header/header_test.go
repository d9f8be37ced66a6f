package header_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec/message/header"
	"github.com/zostay/go-email-codec/message/header/param"
)

func TestHeader_GetSet(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	_, err := h.Get("X-Thing")
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	h.InsertBeforeField(h.Len(), "X-Thing", "one")
	h.InsertBeforeField(h.Len(), "Subject", "hello")
	h.InsertBeforeField(h.Len(), "x-thing", "two")

	v, err := h.Get("X-THING")
	assert.ErrorIs(t, err, header.ErrManyFields)
	assert.Equal(t, "one", v)

	all, err := h.GetAll("x-thing")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, all)

	h.Set("X-Thing", "three")
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "X-Thing", h.GetField(0).Name())
	assert.Equal(t, "three", h.GetField(0).Body())

	h.SetAll("X-Thing", "a", "b", "c")
	all, err = h.GetAll("X-Thing")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)

	h.SetAll("X-Thing", "z")
	all, err = h.GetAll("X-Thing")
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, all)
	assert.Equal(t, 2, h.Len())

	assert.ErrorIs(t, h.DeleteField(5), header.ErrIndexOutOfRange)
}

func TestHeader_WriteTo(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetBreak(header.CRLF)
	h.SetSubject("Grüße")
	h.Set("X-Long", strings.Repeat("word ", 20)+"end")

	out := h.String()
	assert.True(t, strings.HasPrefix(out, "Subject: =?utf-8?b?R3LDvMOfZQ==?=\r\n"))
	assert.True(t, strings.HasSuffix(out, "end\r\n\r\n"))
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 78)
	}
	assert.Contains(t, out, "\r\n word")
}

func TestParse_KeepsRawFields(t *testing.T) {
	t.Parallel()

	const hdr = "Subject: =?utf-8?b?R3LDvMOfZQ==?=\n" +
		"To: a@example.com,\n  b@example.com\n" +
		"X-Weird:   spaced\n\n"

	h, err := header.Parse([]byte(hdr), header.LF)
	require.NoError(t, err)

	s, err := h.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "Grüße", s)

	to, err := h.GetTo()
	require.NoError(t, err)
	require.Len(t, to, 2)
	assert.Equal(t, "a@example.com", to[0].Address())
	assert.Equal(t, "b@example.com", to[1].Address())

	assert.Equal(t, hdr, h.String())
}

func TestParse_BadStart(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte("junk\nSubject: x\n"), header.LF)
	assert.Error(t, err)
	require.NotNil(t, h)

	s, err := h.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestHeader_ContentType(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.InsertBeforeField(0, "content-type", `Text/HTML; Charset=ISO-8859-1`)

	mt, err := h.GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, "text/html", mt)

	cs, err := h.GetCharset()
	require.NoError(t, err)
	assert.Equal(t, "ISO-8859-1", cs)

	_, err = h.GetBoundary()
	assert.ErrorIs(t, err, header.ErrNoSuchFieldParameter)

	require.NoError(t, h.SetCharset("UTF-8"))
	cs, err = h.GetCharset()
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", cs)

	h.SetMediaType("text/plain")
	ct, err := h.GetContentType()
	require.NoError(t, err)
	assert.Equal(t, `text/plain; charset="UTF-8"`, ct.String())

	// the returned value is a copy
	ct = param.Modify(ct, param.Set(param.Charset, "us-ascii"))
	cs, err = h.GetCharset()
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", cs)
	assert.Equal(t, "us-ascii", ct.Charset())
}

func TestHeader_ContentDisposition(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	_, err := h.GetPresentation()
	assert.ErrorIs(t, err, header.ErrNoSuchField)
	assert.ErrorIs(t, h.SetFilename("x.txt"), header.ErrNoSuchField)

	h.SetPresentation("attachment")
	require.NoError(t, h.SetFilename("report.pdf"))

	p, err := h.GetPresentation()
	require.NoError(t, err)
	assert.Equal(t, "attachment", p)

	fn, err := h.GetFilename()
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", fn)

	body, err := h.Get(header.ContentDisposition)
	require.NoError(t, err)
	assert.Equal(t, `attachment; filename="report.pdf"`, body)
}

func TestHeader_ContentID(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetContentID("logo@example")

	body, err := h.Get(header.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "<logo@example>", body)

	id, err := h.GetContentID()
	require.NoError(t, err)
	assert.Equal(t, "logo@example", id)

	h.Set(header.ContentID, "  bare-id ")
	id, err = h.GetContentID()
	require.NoError(t, err)
	assert.Equal(t, "bare-id", id)
}

func TestHeader_ContentIDEscaped(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetContentID("my fötö<1>")

	body, err := h.Get(header.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "<my%20f%C3%B6t%C3%B6%3C1%3E>", body)

	id, err := h.GetContentID()
	require.NoError(t, err)
	assert.Equal(t, "my fötö<1>", id)

	assert.Equal(t, "100%25", header.EscapeContentID("100%"))
	assert.Equal(t, "100%", header.UnescapeContentID("100%"))
	assert.Equal(t, "a.b-c_d@example.com", header.EscapeContentID("a.b-c_d@example.com"))
}

func TestHeader_Date(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	d := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	h.SetDate(d)

	body, err := h.Get(header.Date)
	require.NoError(t, err)
	assert.Equal(t, "Sat, 04 Mar 2023 05:06:07 +0000", body)

	got, err := h.GetDate()
	require.NoError(t, err)
	assert.True(t, d.Equal(got))

	h.Set(header.Date, "Sat Mar 04 05:06:07 2023 UTC")
	got, err = h.GetDate()
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())

	h.Set(header.Date, "not a date at all")
	_, err = h.GetDate()
	assert.Error(t, err)
}

func TestHeader_Addresses(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	require.NoError(t, h.SetFrom("Sender <sender@example.com>"))
	assert.ErrorIs(t, h.SetTo(42), header.ErrWrongAddressType)

	from, err := h.GetFrom()
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "sender@example.com", from[0].Address())
	assert.Equal(t, "Sender", header.AddressName(from[0]))

	h.Set(header.Cc, `"Doe, Jane" <jane@example.com>, Jörg Müller <jm@example.com>, bare`)
	cc, err := h.GetCc()
	require.NoError(t, err)
	require.Len(t, cc, 3)
	assert.Equal(t, "jane@example.com", cc[0].Address())
	assert.Equal(t, "Doe, Jane", header.AddressName(cc[0]))
	assert.Equal(t, "jm@example.com", cc[1].Address())
	assert.Equal(t, "Jörg Müller", header.AddressName(cc[1]))
	assert.Equal(t, "", header.AddressName(cc[2]))
}

func TestHeader_Clone(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetSubject("one")
	c := h.Clone()
	c.SetSubject("two")

	s, err := h.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "one", s)
}
