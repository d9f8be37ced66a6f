package transfer

import (
	"encoding/base64"
	"io"

	"github.com/zostay/go-email-codec/message/header"
)

const base64LineLength = 76

// lineWriter inserts a line break after every `every` bytes written and
// terminates a partial last line on Close.
type lineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (lw *lineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if lw.acc == lw.every {
			if _, err := lw.w.Write(lw.lbr); err != nil {
				return n, err
			}
			lw.acc = 0
		}

		chunk := b
		if room := lw.every - lw.acc; len(chunk) > room {
			chunk = chunk[:room]
		}

		wn, err := lw.w.Write(chunk)
		n += wn
		lw.acc += wn
		if err != nil {
			return n, err
		}
		b = b[wn:]
	}

	return n, nil
}

func (lw *lineWriter) Close() error {
	if lw.acc == 0 {
		return nil
	}
	lw.acc = 0
	_, err := lw.w.Write(lw.lbr)
	return err
}

// NewBase64Encoder returns an io.WriteCloser that writes base64 to w in lines
// of 76 characters separated by lb (LF when lb is empty).
func NewBase64Encoder(w io.Writer, lb header.Break) io.WriteCloser {
	if lb == header.Meh {
		lb = header.LF
	}

	lw := &lineWriter{every: base64LineLength, lbr: lb.Bytes(), w: w}
	enc := base64.NewEncoder(base64.StdEncoding, lw)
	return &writer{enc, closerFunc(func() error {
		if err := enc.Close(); err != nil {
			return err
		}
		return lw.Close()
	})}
}

// NewBase64Decoder decodes base64 read from r. Line breaks are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
