package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email-codec/message/header/field"
)

const rawHeader = "Subject: =?utf-8?q?Caf=C3=A9?= menu\n" +
	"X-Folded: first\n" +
	"  second\n" +
	"From: cook@example.com\n" +
	"\n"

func TestParseLines(t *testing.T) {
	t.Parallel()

	lines, err := field.ParseLines([]byte(rawHeader), []byte("\n"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, field.Line("X-Folded: first\n  second\n"), lines[1])
}

func TestParseLines_BadStart(t *testing.T) {
	t.Parallel()

	lines, err := field.ParseLines([]byte(" junk\nSubject: ok\n"), []byte("\n"))

	var bad *field.BadStartError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, []byte(" junk\n"), bad.BadStart)
	assert.Len(t, lines, 1)
}

func TestParse(t *testing.T) {
	t.Parallel()

	lines, err := field.ParseLines([]byte(rawHeader), []byte("\n"))
	require.NoError(t, err)

	f := field.Parse(lines[0], []byte("\n"))
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "Café menu", f.Body())
	assert.Equal(t, "Subject: =?utf-8?q?Caf=C3=A9?= menu", f.String())

	f = field.Parse(lines[1], []byte("\n"))
	assert.Equal(t, "X-Folded", f.Name())
	assert.Equal(t, "first  second", f.Body())
}
