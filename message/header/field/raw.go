package field

// Raw holds the bytes of a field as they were read from the input, possibly
// folded and still encoded. Objects of this type are immutable.
type Raw struct {
	field []byte
	colon int
}

// String returns the raw field as a string.
func (f *Raw) String() string {
	return string(f.field)
}

// Bytes returns the raw field.
func (f *Raw) Bytes() []byte {
	return f.field
}

// Name returns the raw name part. It may be folded.
func (f *Raw) Name() string {
	return string(f.field[:f.colon])
}

// Body returns the raw body part. It may be folded and encoded.
func (f *Raw) Body() string {
	off := 1
	if f.colon == len(f.field) {
		off = 0
	}
	return string(f.field[f.colon+off:])
}
