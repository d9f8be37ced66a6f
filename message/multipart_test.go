package message_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec/message"
	"github.com/zostay/go-email-codec/message/header"
)

func TestNewMultipart(t *testing.T) {
	t.Parallel()

	alt := message.NewMultipart("alternative", "inner", makePart())
	alt.SetBreak(header.CRLF)
	mixed := message.NewMultipart("mixed", "outer", alt)
	mixed.SetBreak(header.CRLF)

	out := &bytes.Buffer{}
	_, err := mixed.WriteTo(out)
	require.NoError(t, err)

	assert.Equal(t, "Content-Type: multipart/mixed; boundary=\"outer\"\r\n"+
		"\r\n"+
		"--outer\r\n"+
		"Content-Type: multipart/alternative; boundary=\"inner\"\r\n"+
		"\r\n"+
		"--inner\r\n"+
		"Content-Type: text/html\n"+
		"\n"+
		"Test message.\r\n"+
		"--inner--\r\n"+
		"--outer--", out.String())
}

func TestMultipart_Constructors(t *testing.T) {
	t.Parallel()

	for subtype, m := range map[string]*message.Multipart{
		"multipart/mixed":       message.MultipartMixed(makePart()),
		"multipart/related":     message.MultipartRelated(makePart()),
		"multipart/alternative": message.MultipartAlternative(makePart()),
	} {
		mt, err := m.GetMediaType()
		require.NoError(t, err)
		assert.Equal(t, subtype, mt)

		b, err := m.GetBoundary()
		require.NoError(t, err)
		assert.Len(t, b, 32)
	}
}

func TestMultipart_WriteTo_NoBoundary(t *testing.T) {
	t.Parallel()

	m := &message.Multipart{}
	m.SetMediaType("multipart/mixed")
	_, err := m.WriteTo(&strings.Builder{})
	assert.ErrorIs(t, err, header.ErrNoSuchFieldParameter)
}
