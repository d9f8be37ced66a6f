package field

import "bytes"

// Field is a single header field. The embedded Base holds the logical name and
// decoded body. Raw, when set, holds the original bytes of the field, which are
// preferred for output so that parsed messages are written back unchanged.
//
// SetName and SetBody clear Raw.
type Field struct {
	Base
	*Raw
}

// New constructs a field with no raw value.
func New(name, body string) *Field {
	return &Field{Base{name, body}, nil}
}

// String returns the raw field if present and Base.String() otherwise.
func (f *Field) String() string {
	if f.Raw != nil {
		return f.Raw.String()
	}
	return f.Base.String()
}

// Bytes returns the raw field if present and Base.Bytes() otherwise.
func (f *Field) Bytes() []byte {
	if f.Raw != nil {
		return f.Raw.Bytes()
	}
	return f.Base.Bytes()
}

// Name returns Base.Name().
func (f *Field) Name() string {
	return f.Base.Name()
}

// Body returns Base.Body().
func (f *Field) Body() string {
	return f.Base.Body()
}

// SetName sets the logical name and drops the raw value.
func (f *Field) SetName(n string) {
	f.Raw = nil
	f.Base.SetName(n)
}

// SetBody sets the logical body and drops the raw value.
func (f *Field) SetBody(b string) {
	f.Raw = nil
	f.Base.SetBody(b)
}

// SetRaw replaces the raw value without touching Base.
func (f *Field) SetRaw(o []byte) {
	ix := bytes.IndexRune(o, ':')
	if ix < 0 {
		ix = len(o)
	}
	f.Raw = &Raw{o, ix}
}

// Clone returns a copy of the field. Raw is shared since it is immutable.
func (f *Field) Clone() *Field {
	return &Field{f.Base, f.Raw}
}
