package field

import "strings"

// msgIDFields carry msg-ids, which may not contain encoded words.
var msgIDFields = []string{"Content-ID", "Message-ID", "In-Reply-To", "References", "Resent-Message-ID"}

// Base is the logical field: a name and a decoded body. When output, the body
// is word encoded where needed.
type Base struct {
	name string
	body string
}

// Name returns the field name.
func (f *Base) Name() string {
	return f.name
}

// Body returns the decoded field body.
func (f *Base) Body() string {
	return f.body
}

// SetName replaces the field name.
func (f *Base) SetName(n string) {
	f.name = n
}

// SetBody replaces the field body.
func (f *Base) SetBody(b string) {
	f.body = b
}

// String returns the field as "Name: body" with the body passed through
// Encode. Bodies of msg-id fields are written as they are.
func (f *Base) String() string {
	for _, n := range msgIDFields {
		if strings.EqualFold(f.name, n) {
			return f.name + ": " + f.body
		}
	}
	return f.name + ": " + Encode(f.body)
}

// Bytes returns String as bytes.
func (f *Base) Bytes() []byte {
	return []byte(f.String())
}
