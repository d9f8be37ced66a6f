package header

import (
	"errors"
	"io"
	"strings"

	"github.com/zostay/go-email-codec/message/header/field"
)

// ErrIndexOutOfRange is returned when a header field index is too large or
// too small.
var ErrIndexOutOfRange = errors.New("header field index is out of range")

// Base is the low-level storage of a header: an ordered list of fields, the
// line break to write them with, and the fold encoding used on output.
type Base struct {
	lbr    Break
	vf     *field.FoldEncoding
	fields []*field.Field
}

func (h *Base) initBase() {
	if h.lbr == "" {
		h.lbr = LF
	}
	if h.fields == nil {
		h.fields = make([]*field.Field, 0, 10)
	}
}

// FoldEncoding returns the fold encoding used when writing the header.
func (h *Base) FoldEncoding() *field.FoldEncoding {
	if h.vf == nil {
		h.vf = field.DefaultFoldEncoding
	}
	return h.vf
}

// SetFoldEncoding changes the fold encoding used when writing the header.
func (h *Base) SetFoldEncoding(vf *field.FoldEncoding) {
	h.vf = vf
}

// Break returns the line break that separates and terminates fields.
func (h *Base) Break() Break {
	if h.lbr == "" {
		h.lbr = LF
	}
	return h.lbr
}

// SetBreak changes the line break.
func (h *Base) SetBreak(lbr Break) {
	h.lbr = lbr
}

// Len returns the number of fields.
func (h *Base) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil.
func (h *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetAllFieldsNamed returns every field with the given name, compared without
// regard to case.
func (h *Base) GetAllFieldsNamed(name string) []*field.Field {
	fs := make([]*field.Field, 0, 2)
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// GetIndexesNamed returns the indexes of fields with the given name.
func (h *Base) GetIndexesNamed(name string) []int {
	is := make([]int, 0, 2)
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			is = append(is, i)
		}
	}
	return is
}

// ListFields returns a copy of the field list.
func (h *Base) ListFields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// InsertBeforeField inserts a new field at index n, clamped to the valid
// range. Use Len() as the index to append.
func (h *Base) InsertBeforeField(n int, name, body string) {
	h.initBase()

	if n < 0 {
		n = 0
	}
	if n > len(h.fields) {
		n = len(h.fields)
	}

	h.fields = append(h.fields, nil)
	copy(h.fields[n+1:], h.fields[n:])
	h.fields[n] = field.New(name, body)
}

// ClearFields removes all fields.
func (h *Base) ClearFields() {
	h.initBase()
	h.fields = h.fields[:0]
}

// DeleteField removes the nth field.
func (h *Base) DeleteField(n int) error {
	h.initBase()

	if n < 0 || n >= len(h.fields) {
		return ErrIndexOutOfRange
	}

	copy(h.fields[n:], h.fields[n+1:])
	h.fields = h.fields[:len(h.fields)-1]

	return nil
}

// Clone returns a copy of the header with copies of all fields.
func (h *Base) Clone() *Base {
	fs := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fs[i] = f.Clone()
	}
	return &Base{lbr: h.lbr, vf: h.vf, fields: fs}
}

// WriteTo writes each field, folded, followed by the blank line that ends the
// header.
func (h *Base) WriteTo(w io.Writer) (int64, error) {
	lb := h.Break()
	vf := h.FoldEncoding()

	total := int64(0)
	for _, f := range h.fields {
		n, err := vf.Fold(w, f.Bytes(), field.Break(lb.Bytes()))
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err := w.Write(lb.Bytes())
	total += int64(n)
	return total, err
}

// String returns the header as it would be written.
func (h *Base) String() string {
	var sb strings.Builder
	_, _ = h.WriteTo(&sb)
	return sb.String()
}
