package analyze_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/analyze"
	"github.com/zostay/go-email-codec/compose"
	"github.com/zostay/go-email-codec/message"
)

var (
	logoPNG   = []byte("\x89PNG\r\n\x1a\n")
	reportPDF = []byte("%PDF-1.4\n")
)

// emailFor returns a message with exactly the given content. Without an
// alternative the only body is HTML when there are embedded images, so
// that they are referenced.
func emailFor(c compose.Content) *email.Email {
	e := &email.Email{
		Subject:    "Test",
		From:       &email.Recipient{Name: "Ann", Address: "ann@example.com"},
		Recipients: []email.Recipient{{Address: "bob@example.com", Type: email.To}},
	}

	switch {
	case c.Alternative:
		e.PlainText = "plain"
		e.HTMLText = `<p>hi <img src="cid:logo"></p>`
	case c.Related:
		e.HTMLText = `<p>hi <img src="cid:logo"></p>`
	default:
		e.PlainText = "plain"
	}

	if c.Related {
		e.EmbeddedImages = []email.Resource{{
			Name:   "logo",
			Source: email.NewBytesSource("logo.png", "image/png", logoPNG),
		}}
	}
	if c.Mixed {
		e.Attachments = []email.Resource{{
			Source:      email.NewBytesSource("report.pdf", "application/pdf", reportPDF),
			Description: "Quarterly report",
		}}
	}

	return e
}

func roundTrip(t *testing.T, e *email.Email, opts ...analyze.Option) *analyze.Result {
	t.Helper()

	msg, err := compose.Compose(e)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	res, err := analyze.ParseReader(&buf, opts...)
	require.NoError(t, err)
	return res
}

func TestRoundTrip_Shapes(t *testing.T) {
	t.Parallel()

	for _, s := range compose.Shapes() {
		s := s
		t.Run(s.String(), func(t *testing.T) {
			t.Parallel()

			c := s.Content()
			e := emailFor(c)
			res := roundTrip(t, e)

			assert.Equal(t, "Test", res.Subject)
			require.NotNil(t, res.From)
			assert.Equal(t, *e.From, *res.From)
			assert.Equal(t, e.Recipients, res.To)

			assert.Equal(t, e.PlainText, res.PlainText)
			assert.Equal(t, e.HTMLText, res.HTMLText)
			assert.Equal(t, "quoted-printable", res.ContentTransferEncoding)

			if c.Related {
				assert.Equal(t, []string{"logo"}, res.CIDs())
				assert.Equal(t, "logo.png", res.CIDMap["logo"].Name)
				assert.Equal(t, logoPNG, sourceBytes(t, res.CIDMap["logo"].Source))
			} else {
				assert.Empty(t, res.CIDMap)
			}

			if c.Mixed {
				items := res.Attachments.Items()
				require.Len(t, items, 1)
				assert.Equal(t, "report.pdf", items[0].Name)
				assert.Equal(t, "Quarterly report", items[0].Description)
				assert.Equal(t, "base64", items[0].TransferEncoding)
				assert.Equal(t, reportPDF, sourceBytes(t, items[0].Source))
			} else {
				assert.Equal(t, 0, res.Attachments.Len())
			}
		})
	}
}

func TestRoundTrip_HTMLWithAttachment(t *testing.T) {
	t.Parallel()

	e := emailFor(compose.Content{Mixed: true})
	e.PlainText = ""
	e.HTMLText = "<p>See attached.</p>"

	res := roundTrip(t, e)
	assert.Equal(t, "", res.PlainText)
	assert.Equal(t, "<p>See attached.</p>", res.HTMLText)
	require.Equal(t, 1, res.Attachments.Len())
	assert.Equal(t, "report.pdf", res.Attachments.Items()[0].Name)
}

func TestRoundTrip_Calendar(t *testing.T) {
	t.Parallel()

	e := emailFor(compose.Content{})
	e.CalendarText = "BEGIN:VCALENDAR\r\nMETHOD:REQUEST\r\nEND:VCALENDAR"
	e.CalendarMethod = email.Request

	res := roundTrip(t, e)
	assert.Equal(t, "plain", res.PlainText)
	assert.Equal(t, email.Request, res.CalendarMethod)
	assert.Equal(t,
		"BEGIN:VCALENDAR\nMETHOD:REQUEST\nEND:VCALENDAR",
		strings.ReplaceAll(res.CalendarText, "\r\n", "\n"))
}

func TestRoundTrip_Headers(t *testing.T) {
	t.Parallel()

	e := emailFor(compose.Content{})
	e.Subject = "Grüße"
	e.Headers = email.NewHeaders()
	e.Headers.Add("X-Campaign", "spring")
	e.UseDispositionNotificationTo = true
	e.UseReturnReceiptTo = true
	e.ReturnReceiptTo = &email.Recipient{Address: "receipts@example.com"}

	res := roundTrip(t, e)
	assert.Equal(t, "Grüße", res.Subject)
	assert.Equal(t, []string{"X-Campaign"}, res.Headers.Names())
	assert.Equal(t, "spring", res.Headers.Get("X-Campaign"))

	require.NotNil(t, res.DispositionNotificationTo)
	assert.Equal(t, "ann@example.com", res.DispositionNotificationTo.Address)
	require.NotNil(t, res.ReturnReceiptTo)
	assert.Equal(t, "receipts@example.com", res.ReturnReceiptTo.Address)

	again := res.Email()
	assert.True(t, again.UseDispositionNotificationTo)
	assert.True(t, again.UseReturnReceiptTo)
	assert.Equal(t, "spring", again.Headers.Get("X-Campaign"))
}

func TestRoundTrip_NonASCIINames(t *testing.T) {
	t.Parallel()

	e := emailFor(compose.Content{Related: true})
	e.From = &email.Recipient{Name: "Jörg Müller", Address: "joerg@example.com"}
	e.UseDispositionNotificationTo = true
	e.HTMLText = `<p><img src="cid:fötö"></p>`
	e.EmbeddedImages = []email.Resource{{
		Name:   "fötö",
		Source: email.NewBytesSource("fötö.png", "image/png", logoPNG),
	}}

	res := roundTrip(t, e)

	require.NotNil(t, res.From)
	assert.Equal(t, "Jörg Müller", res.From.Name)
	require.NotNil(t, res.DispositionNotificationTo)
	assert.Equal(t, "Jörg Müller", res.DispositionNotificationTo.Name)
	assert.Equal(t, "joerg@example.com", res.DispositionNotificationTo.Address)

	assert.Equal(t, []string{"fötö"}, res.CIDs())
	assert.Empty(t, res.Attachments.Items())
	assert.Equal(t, logoPNG, sourceBytes(t, res.CIDMap["fötö"].Source))
}

func TestRoundTrip_Forward(t *testing.T) {
	t.Parallel()

	fwd, err := message.Parse(strings.NewReader("Subject: fwd\r\n\r\nforwarded body"))
	require.NoError(t, err)

	e := emailFor(compose.Content{})
	e.Forward = fwd

	res := roundTrip(t, e)
	assert.Equal(t, "plain", res.PlainText)

	items := res.Attachments.Items()
	require.Len(t, items, 1)
	assert.Equal(t, analyze.ForwardedMessageName, items[0].Name)
	assert.Equal(t, "message/rfc822", items[0].Source.ContentType())
	assert.Equal(t, "Subject: fwd\r\n\r\nforwarded body", string(sourceBytes(t, items[0].Source)))
}

func TestResult_Email(t *testing.T) {
	t.Parallel()

	res := parseString(t, relatedDoc)
	e := res.Email()

	require.Len(t, e.EmbeddedImages, 1)
	assert.Equal(t, "used@example.com", e.EmbeddedImages[0].Name)
	require.Len(t, e.Attachments, 1)
	assert.Equal(t, "orphan@example.com", e.Attachments[0].Name)
	assert.False(t, e.UseDispositionNotificationTo)

	assert.Equal(t,
		compose.Content{Related: true, Mixed: true},
		compose.Classify(e))
}

func TestResult_EmailRecompose(t *testing.T) {
	t.Parallel()

	first, err := analyze.ParseReader(openFixture(t, "nested-alternative.eml"))
	require.NoError(t, err)

	second := roundTrip(t, first.Email())
	assert.Equal(t, first.MessageID, second.MessageID)
	assert.Equal(t, first.Subject, second.Subject)
	assert.True(t, first.SentDate.Equal(second.SentDate))
	assert.Equal(t, first.PlainText, second.PlainText)
	assert.Equal(t, first.HTMLText, second.HTMLText)
	assert.Equal(t, first.From, second.From)
	assert.Equal(t, first.To, second.To)

	items := second.Attachments.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "menu.pdf", items[0].Name)
	assert.Equal(t, sourceBytes(t, first.Attachments.Items()[0].Source), sourceBytes(t, items[0].Source))
}
