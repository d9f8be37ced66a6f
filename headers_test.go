package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-email-codec"
)

func TestHeaders(t *testing.T) {
	t.Parallel()

	h := email.NewHeaders()
	h.Add("X-Mailer", "codec")
	h.Add("X-Tag", "a")
	h.Add("x-tag", "b")

	assert.Equal(t, []string{"X-Mailer", "X-Tag"}, h.Names())
	assert.Equal(t, []string{"a", "b"}, h.Values("X-TAG"))
	assert.Equal(t, "a", h.Get("x-tag"))
	assert.Equal(t, "", h.Get("X-Missing"))

	h.Set("X-Mailer", "other", "third")
	assert.Equal(t, []string{"other", "third"}, h.Values("X-Mailer"))

	var seen []string
	h.Each(func(name, value string) { seen = append(seen, name+"="+value) })
	assert.Equal(t, []string{"X-Mailer=other", "X-Mailer=third", "X-Tag=a", "X-Tag=b"}, seen)

	h.Del("X-Mailer")
	assert.Equal(t, 1, h.Len())

	var nilHeaders *email.Headers
	assert.Equal(t, 0, nilHeaders.Len())
	assert.Nil(t, nilHeaders.Values("X"))
	nilHeaders.Each(func(string, string) { t.Fatal("called") })
}
