// Package encoding replaces the charset hooks of the field package with ones
// backed by golang.org/x/text/encoding/ianaindex, so encoded words and text
// bodies in nearly any registered charset can be decoded. Import it for its
// side effect:
//
//	import _ "github.com/zostay/go-email-codec/message/header/encoding"
//
// This makes compiled binaries considerably larger.
package encoding

import (
	"fmt"
	"io"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/zostay/go-email-codec/message/header/field"
)

func init() {
	field.CharsetEncoder = CharsetEncoder
	field.CharsetDecoder = CharsetDecoder
}

// CharsetEncoder encodes s into the named charset.
func CharsetEncoder(charset, s string) ([]byte, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("no encoding found for charset %q", charset)
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}

	return []byte(es), nil
}

// CharsetDecoder decodes b from the named charset into a UTF-8 string.
func CharsetDecoder(charset string, b []byte) (string, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return "", err
	}

	if e == nil {
		return "", fmt.Errorf("no encoding found for charset %q", charset)
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}

// NewReader wraps r so that reads return UTF-8 text decoded from the named
// charset. UTF-8, US-ASCII and an empty charset return r unchanged.
func NewReader(charset string, r io.Reader) (io.Reader, error) {
	switch charset {
	case "", "utf-8", "UTF-8", "utf8", "us-ascii", "US-ASCII":
		return r, nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("no encoding found for charset %q", charset)
	}

	return transform.NewReader(r, e.NewDecoder()), nil
}
