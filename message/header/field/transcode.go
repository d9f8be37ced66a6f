package field

import (
	"mime"
	"strings"
)

// needsEncoding reports whether a word must be carried in an encoded word to
// survive in a header.
func needsEncoding(w string) bool {
	if strings.Contains(w, "=?") {
		return true
	}
	for _, c := range w {
		if (c < ' ' || c > '~') && c != '\t' {
			return true
		}
	}
	return false
}

// Encode word encodes a header field body per RFC 2047. Only runs of
// space-separated words that need it are encoded, so addresses and plain words
// stay readable. Each run becomes a single B-encoded UTF-8 word (split by the
// encoder when it would be too long), keeping the spaces inside the run.
func Encode(body string) string {
	if !needsEncoding(body) {
		return body
	}

	words := strings.Split(body, " ")
	out := make([]string, 0, len(words))
	run := make([]string, 0, len(words))
	flush := func() {
		if len(run) > 0 {
			out = append(out, mime.BEncoding.Encode("utf-8", strings.Join(run, " ")))
			run = run[:0]
		}
	}

	for _, w := range words {
		if needsEncoding(w) {
			run = append(run, w)
			continue
		}
		flush()
		out = append(out, w)
	}
	flush()

	return strings.Join(out, " ")
}

// Decode decodes any RFC 2047 encoded words found in a header field body. The
// charsets understood are those of CharsetDecoder.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{
		CharsetReader: CharsetDecoderToCharsetReader(CharsetDecoder),
	}

	return dec.DecodeHeader(body)
}
