package crosscheck_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/analyze"
	"github.com/zostay/go-email-codec/compose"
	"github.com/zostay/go-email-codec/crosscheck"
)

func emailFor(c compose.Content) *email.Email {
	e := &email.Email{
		Subject:    "Grüße",
		From:       &email.Recipient{Name: "Ann", Address: "ann@example.com"},
		Recipients: []email.Recipient{{Address: "bob@example.com", Type: email.To}},
		PlainText:  "plain",
	}
	if c.Alternative || c.Related {
		e.HTMLText = `<p>hi <img src="cid:logo"></p>`
	}
	if c.Related {
		e.EmbeddedImages = []email.Resource{{
			Name:   "logo",
			Source: email.NewBytesSource("logo.png", "image/png", []byte("\x89PNG\r\n\x1a\n")),
		}}
	}
	if c.Mixed {
		e.Attachments = []email.Resource{{
			Source: email.NewBytesSource("bericht-ä.pdf", "application/pdf", []byte("%PDF-1.4\n")),
		}}
	}
	return e
}

func TestCheck_Composed(t *testing.T) {
	t.Parallel()

	for _, s := range compose.Shapes() {
		s := s
		t.Run(s.String(), func(t *testing.T) {
			t.Parallel()

			msg, err := compose.Compose(emailFor(s.Content()))
			require.NoError(t, err)

			var buf bytes.Buffer
			_, err = msg.WriteTo(&buf)
			require.NoError(t, err)

			diffs, err := crosscheck.Check(&buf)
			require.NoError(t, err)
			assert.Empty(t, diffs)
		})
	}
}

func TestRead_Fixture(t *testing.T) {
	t.Parallel()

	f, err := os.Open("../test/data/nested-alternative.eml")
	require.NoError(t, err)
	defer f.Close()

	s, err := crosscheck.Read(f)
	require.NoError(t, err)

	assert.Equal(t, "Café menu", s.Subject)
	assert.Equal(t, "sender@example.com", s.From)
	assert.Equal(t, []string{"someone@example.net"}, s.To)
	assert.Equal(t, "Café menu attached.", s.PlainText)
	assert.Equal(t, "<p>Café menu attached.</p>", s.HTMLText)
	assert.Equal(t, 0, s.Skipped)

	require.Len(t, s.Resources, 1)
	assert.Equal(t, "menu.pdf", s.Resources[0].Filename)
	assert.Equal(t, "application/pdf", s.Resources[0].ContentType)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	f, err := os.Open("../test/data/nested-alternative.eml")
	require.NoError(t, err)
	defer f.Close()

	var doc bytes.Buffer
	_, err = doc.ReadFrom(f)
	require.NoError(t, err)

	res, err := analyze.ParseReader(bytes.NewReader(doc.Bytes()))
	require.NoError(t, err)

	s, err := crosscheck.Read(bytes.NewReader(doc.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, crosscheck.Compare(res, s))

	res.Subject = "Cafe menu"
	s.Resources = nil
	diffs := crosscheck.Compare(res, s)
	require.Len(t, diffs, 2)
	assert.Contains(t, diffs[0], "subject")
	assert.Contains(t, diffs[1], "resources")
}
