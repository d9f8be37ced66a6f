package encoding_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec/message/header/encoding"
)

func TestCharsetEncoder(t *testing.T) {
	t.Parallel()

	enc, err := encoding.CharsetEncoder("iso-8859-7", "αβγ")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xe1, 0xe2, 0xe3}, enc)

	_, err = encoding.CharsetEncoder("no-such-charset", "x")
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	t.Parallel()

	r, err := encoding.NewReader("iso-8859-1", strings.NewReader("caf\xe9"))
	require.NoError(t, err)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "café", string(b))

	src := strings.NewReader("plain")
	r, err = encoding.NewReader("utf-8", src)
	require.NoError(t, err)
	assert.Same(t, src, r)
}
