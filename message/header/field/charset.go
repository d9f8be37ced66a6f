package field

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// CharsetEncoder is used to encode strings into a named charset. Importing
	// the encoding package replaces it with one that covers the IANA index.
	CharsetEncoder = DefaultCharsetEncoder

	// CharsetDecoder is used to decode bytes in a named charset into a UTF-8
	// string. Importing the encoding package replaces it with one that covers
	// the IANA index.
	CharsetDecoder = DefaultCharsetDecoder
)

// DefaultCharsetEncoder handles us-ascii, iso-8859-1 and utf-8 only. Runes
// outside of ASCII are replaced with the ASCII substitute character when
// encoding to us-ascii.
func DefaultCharsetEncoder(charset, s string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "":
		var buf bytes.Buffer
		for _, c := range s {
			if c > unicode.MaxASCII {
				buf.WriteRune('\x1a')
			} else {
				buf.WriteRune(c)
			}
		}
		return buf.Bytes(), nil
	case "utf-8", "utf8":
		return []byte(s), nil
	case "iso-8859-1", "latin1":
		var buf bytes.Buffer
		for _, c := range s {
			if c > 0xff {
				buf.WriteByte('\x1a')
			} else {
				buf.WriteByte(byte(c))
			}
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// DefaultCharsetDecoder handles us-ascii, iso-8859-1 and utf-8 only. Invalid
// bytes become unicode.ReplacementChar.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "":
		var s strings.Builder
		for _, c := range b {
			if c > unicode.MaxASCII {
				s.WriteRune(unicode.ReplacementChar)
			} else {
				s.WriteByte(c)
			}
		}
		return s.String(), nil
	case "iso-8859-1", "latin1":
		var s strings.Builder
		for _, c := range b {
			s.WriteRune(rune(c))
		}
		return s.String(), nil
	case "utf-8", "utf8":
		var s strings.Builder
		for len(b) > 0 {
			r, size := utf8.DecodeRune(b)
			s.WriteRune(r)
			b = b[size:]
		}
		return s.String(), nil
	default:
		return "", fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// CharsetDecoderToCharsetReader adapts a charset decoder to the CharsetReader
// hook of mime.WordDecoder.
func CharsetDecoderToCharsetReader(
	decode func(string, []byte) (string, error),
) func(string, io.Reader) (io.Reader, error) {
	return func(charset string, r io.Reader) (io.Reader, error) {
		bs, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		s, err := decode(charset, bs)
		if err != nil {
			return nil, err
		}

		return strings.NewReader(s), nil
	}
}
