package header

import (
	"errors"

	"github.com/zostay/go-email-codec/message/header/field"
)

// Parse parses a header block using the given line break. The whole input is
// taken to be header.
//
// The result uses field.DoNotFoldEncoding and keeps each field's raw bytes so
// that an unmodified header is written back exactly as read. A
// *field.BadStartError is returned along with the header when leading junk
// had to be skipped.
func Parse(m []byte, lb Break) (*Header, error) {
	lines, err := field.ParseLines(m, lb.Bytes())

	var badStartErr *field.BadStartError
	var finalErr error
	if errors.As(err, &badStartErr) {
		finalErr = badStartErr
	} else if err != nil {
		return nil, err
	}

	fields := make([]*field.Field, len(lines))
	for i, line := range lines {
		fields[i] = field.Parse(line, lb.Bytes())
	}

	h := &Header{
		Base: Base{
			lbr:    lb,
			vf:     field.DoNotFoldEncoding,
			fields: fields,
		},
	}

	return h, finalErr
}
