package param

import (
	"mime"
	"sort"
	"strings"
)

// Well-known parameter names.
const (
	// Charset is the charset parameter of the Content-type header.
	Charset = "charset"

	// Boundary is the boundary parameter of a multipart Content-type header.
	Boundary = "boundary"

	// Filename is the filename parameter of the Content-disposition header.
	Filename = "filename"

	// Name is the legacy name parameter of the Content-type header, still read
	// by some clients in place of the disposition filename.
	Name = "name"

	// Method is the iTIP method parameter of a text/calendar Content-type.
	Method = "method"
)

// Value represents a parsed parameterized header field, such as is used in the
// Content-type and Content-disposition headers. A Value object is immutable.
// Use Modify() to derive a changed copy.
type Value struct {
	v  string
	ps map[string]string
}

// Parse takes a header field body, parses it as a Value and returns it.
// Parameter names are lowercased. RFC 2231 continuations and charset encoded
// parameters are decoded.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// New creates a new parameterized header field with no parameters.
func New(v string) *Value {
	return &Value{v, map[string]string{}}
}

// NewWithParams creates a new parameterized header field with the given
// parameters. The map is copied.
func NewWithParams(v string, ps map[string]string) *Value {
	cps := make(map[string]string, len(ps))
	for k, pv := range ps {
		cps[strings.ToLower(k)] = pv
	}
	return &Value{v, cps}
}

// Modifier is a modification to apply to a Value when calling the Modify()
// function.
type Modifier func(*Value)

// Change is a Modifier that replaces the primary value of the Value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set is a Modifier that sets a parameter with the given name on the Value.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		pv.ps[strings.ToLower(name)] = value
	}
}

// Delete is a Modifier that removes the parameter with the given name from the
// Value.
func Delete(name string) Modifier {
	return func(pv *Value) {
		delete(pv.ps, strings.ToLower(name))
	}
}

// Modify clones a Value, applies the given modifications (if any) and returns
// the new Value:
//
//	v, _ := param.Parse("multipart/mixed; boundary=abc123; charset=latin1")
//	nv := param.Modify(v, param.Change("multipart/alternative"), param.Set("charset", "utf-8"))
func Modify(pv *Value, changes ...Modifier) *Value {
	c := pv.Clone()
	for _, change := range changes {
		change(c)
	}
	return c
}

// Value returns the primary value, the part before the first semicolon.
func (pv *Value) Value() string {
	return pv.v
}

// Disposition is a synonym for Value() for use with Content-disposition.
func (pv *Value) Disposition() string {
	return pv.v
}

// MediaType is a synonym for Value() for use with Content-type.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type returns the part of the media type before the slash, e.g., "image" for
// "image/jpeg". It returns an empty string when there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype returns the part of the media type after the slash, e.g., "jpeg" for
// "image/jpeg". It returns an empty string when there is no slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameters returns the parameters as a map. Do not modify it.
func (pv *Value) Parameters() map[string]string {
	return pv.ps
}

// Parameter returns the value of the named parameter.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// Filename returns the filename parameter.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// Name returns the name parameter.
func (pv *Value) Name() string {
	return pv.ps[Name]
}

// Charset returns the charset parameter.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the boundary parameter.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// Method returns the method parameter.
func (pv *Value) Method() string {
	return pv.ps[Method]
}

// String serializes the value with its parameters in name order. Every
// parameter value is quoted. Values that are not ASCII use the RFC 2231
// extended form, name*=utf-8''percent-encoded.
func (pv *Value) String() string {
	pks := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		pks = append(pks, k)
	}
	sort.Strings(pks)

	var sb strings.Builder
	sb.WriteString(pv.v)
	for _, k := range pks {
		sb.WriteString("; ")
		sb.WriteString(formatParam(k, pv.ps[k]))
	}

	return sb.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}

// percentEncode escapes everything but RFC 2231 attribute-char.
func percentEncode(v string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			strings.IndexByte("!#$&+-.^_`{|}~", c) >= 0:
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0f])
		}
	}
	return sb.String()
}

func formatParam(k, v string) string {
	if !isASCII(v) {
		return k + "*=utf-8''" + percentEncode(v)
	}

	var sb strings.Builder
	sb.WriteString(k)
	sb.WriteString(`="`)
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(v[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// Bytes returns String() as bytes.
func (pv *Value) Bytes() []byte {
	return []byte(pv.String())
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	c := Value{v: pv.v, ps: make(map[string]string, len(pv.ps))}
	for k, v := range pv.ps {
		c.ps[k] = v
	}
	return &c
}
