package field

import (
	"bytes"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart []byte // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line is the unparsed content of one complete header field, including any
// continuation lines.
type Line []byte

// Lines is zero or more Line.
type Lines []Line

// ParseLines splits a header block into field lines. A new field starts on any
// line that does not begin with a space or tab and contains a colon. Anything
// else continues the previous field.
//
// Leading lines that cannot start a field are skipped and reported through a
// *BadStartError, alongside the lines that were parsed.
func ParseLines(m, lb []byte) (Lines, error) {
	h := make(Lines, 0, len(m)/80)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb) {
		if len(line) == 0 {
			break
		}

		// the blank line that terminates the header is not a field
		if bytes.Equal(line, lb) {
			continue
		}

		if line[0] == '\t' || line[0] == ' ' || !bytes.Contains(line, []byte(":")) {
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, line)
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Parse builds a Field from a single field line. The body is unfolded and any
// RFC 2047 encoded words are decoded. If decoding fails, the unfolded body is
// kept as-is. The original bytes are kept in Raw.
func Parse(f Line, lb []byte) *Field {
	rawField := bytes.TrimRight(f, string(lb))

	off := 1
	ix := bytes.Index(rawField, []byte{':'})
	if ix < 0 {
		ix = len(rawField)
		off = 0
	}

	name := string(DefaultFoldEncoding.Unfold(rawField[:ix]))
	body := string(bytes.TrimSpace(DefaultFoldEncoding.Unfold(rawField[ix+off:])))
	if decBody, err := Decode(body); err == nil {
		body = decBody
	}

	return &Field{
		Base: Base{name, body},
		Raw:  &Raw{rawField, ix},
	}
}
