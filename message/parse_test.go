package message_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec/message"
)

func roundTrip(t *testing.T, src []byte, opts ...message.ParseOption) message.Generic {
	t.Helper()

	m, err := message.Parse(bytes.NewReader(src), opts...)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	n, err := m.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, string(src), buf.String())

	return m
}

func TestParse_WithBadlyFolded(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("../test/data/badly-folded")
	require.NoError(t, err)

	m, err := message.Parse(bytes.NewReader(src))
	require.NoError(t, err)
	assert.False(t, m.IsMultipart())

	subj, err := m.GetHeader().GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "a subject that was  folded badly   and then some", subj)

	cs, err := m.GetHeader().GetCharset()
	require.NoError(t, err)
	assert.Equal(t, "us-ascii", cs)

	roundTrip(t, src)
}

func TestParse_Nested(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("../test/data/nested-alternative.eml")
	require.NoError(t, err)

	m := roundTrip(t, src)
	require.True(t, m.IsMultipart())
	require.Len(t, m.GetParts(), 2)

	alt := m.GetParts()[0]
	require.True(t, alt.IsMultipart())
	require.Len(t, alt.GetParts(), 2)

	mt, err := m.GetParts()[1].GetHeader().GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mt)
}

func TestParse_Decoded(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("../test/data/nested-alternative.eml")
	require.NoError(t, err)

	m, err := message.Parse(bytes.NewReader(src), message.DecodeTransferEncoding())
	require.NoError(t, err)

	plain := m.GetParts()[0].GetParts()[0]
	body, err := io.ReadAll(plain.GetReader())
	require.NoError(t, err)
	assert.Equal(t, "Café menu attached.", string(body))

	pdf := m.GetParts()[1]
	body, err = io.ReadAll(pdf.GetReader())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-1.4")))
}

func TestParse_MaxDepth(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("../test/data/nested-alternative.eml")
	require.NoError(t, err)

	m := roundTrip(t, src, message.WithMaxDepth(1))
	require.True(t, m.IsMultipart())
	assert.False(t, m.GetParts()[0].IsMultipart())

	m = roundTrip(t, src, message.WithoutMultipart())
	assert.False(t, m.IsMultipart())
}

func TestParse_Shapes(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no preamble or epilogue": "Content-Type: multipart/mixed; boundary=b\n\n--b\nX: 1\n\none\n--b\nX: 2\n\ntwo\n--b--",
		"epilogue":                "Content-Type: multipart/mixed; boundary=b\n\n--b\nX: 1\n\none\n--b--\ntrailing words\n",
		"no closing boundary":     "Content-Type: multipart/mixed; boundary=b\n\n--b\nX: 1\n\none\n--b\nX: 2\n\ntwo\n",
		"empty part header":       "Content-Type: multipart/mixed; boundary=b\n\n--b\n\nheaderless\n--b--\n",
	}

	for name, src := range cases {
		src := src
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m := roundTrip(t, []byte(src))
			assert.True(t, m.IsMultipart())
		})
	}
}

func TestParse_NoBoundary(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("Content-Type: multipart/mixed\n\nbody\n"))
	assert.ErrorIs(t, err, message.ErrNoBoundary)
	require.NotNil(t, m)
	assert.False(t, m.IsMultipart())
}

func TestParse_LargeHeader(t *testing.T) {
	t.Parallel()

	src := "X-Long: " + strings.Repeat("a", 200) + "\n\nbody"
	_, err := message.Parse(strings.NewReader(src), message.WithMaxHeaderLength(100), message.WithChunkSize(64))
	assert.ErrorIs(t, err, message.ErrLargeHeader)
}

func TestParse_LargePart(t *testing.T) {
	t.Parallel()

	src := "Content-Type: multipart/mixed; boundary=b\n\n--b\n\n" + strings.Repeat("a", 500) + "\n--b--\n"
	_, err := message.Parse(strings.NewReader(src), message.WithMaxPartLength(100), message.WithChunkSize(64))
	assert.ErrorIs(t, err, message.ErrLargePart)
}
