package report_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/analyze"
	"github.com/zostay/go-email-codec/compose"
	"github.com/zostay/go-email-codec/internal/report"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	f, err := os.Open("../../test/data/nested-alternative.eml")
	require.NoError(t, err)
	defer f.Close()

	res, err := analyze.ParseReader(f)
	require.NoError(t, err)

	s, err := report.Summarize(res)
	require.NoError(t, err)

	assert.Equal(t, "Café menu", s.Subject)
	assert.Equal(t, "Sender <sender@example.com>", s.From)
	assert.Equal(t, []string{"Someone <someone@example.net>"}, s.To)
	require.NotNil(t, s.Date)
	assert.Equal(t, "2023-03-06T10:00:00Z", s.Date.Format("2006-01-02T15:04:05Z07:00"))
	assert.Empty(t, s.Embedded)
	assert.Nil(t, s.Headers)

	require.Len(t, s.Attachments, 1)
	assert.Equal(t, report.Resource{
		Name:        "menu.pdf",
		ContentType: "application/pdf",
		Size:        15,
	}, s.Attachments[0])

	b, err := s.JSON()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(b), "}\n"))

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "<menu-1@example.com>", m["messageId"])
	assert.Equal(t, "quoted-printable", m["transferEncoding"])
	assert.NotContains(t, m, "bounceTo")
}

func TestOutline(t *testing.T) {
	t.Parallel()

	e := &email.Email{
		PlainText: "plain",
		HTMLText:  `<img src="cid:logo">`,
		EmbeddedImages: []email.Resource{{
			Name:   "logo",
			Source: email.NewBytesSource("logo.png", "image/png", []byte("\x89PNG\r\n\x1a\n")),
		}},
		Attachments: []email.Resource{{
			Source: email.NewBytesSource("report.pdf", "application/pdf", []byte("%PDF-1.4\n")),
		}},
	}

	msg, err := compose.Compose(e)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, report.Outline(&buf, msg))
	assert.Equal(t, `multipart/mixed (2 parts)
  multipart/related (2 parts)
    multipart/alternative (2 parts)
      text/plain
      text/html
    image/png inline "logo.png" <logo>
  application/pdf attachment "report.pdf" <report>
`, buf.String())
}
