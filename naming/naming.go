// Package naming picks the name of an embedded or attached resource from the
// candidates a message offers for it.
package naming

import (
	"strings"

	"github.com/google/uuid"

	"github.com/zostay/go-email-codec/message/header/field"
)

// Unnamed is returned when every candidate, including the generated one, is
// empty.
const Unnamed = "unnamed"

// generated names a resource nothing else names.
var generated = func() string { return "resource" + uuid.NewString() }

// Resolve names a resource. The first non-empty of explicit, dataSource and
// contentID (angle brackets removed) is chosen, falling back to a generated
// "resource<uuid>" name. Then:
//
//   - with wantExtension, a chosen name without a dot gains the extension of
//     dataSource, if that has one;
//   - without wantExtension, a chosen name equal to dataSource loses its
//     extension;
//   - with wantEncoded, the name is RFC 2047 word encoded.
func Resolve(explicit, dataSource, contentID string, wantExtension, wantEncoded bool) string {
	name := explicit
	if name == "" {
		name = dataSource
	}
	if name == "" {
		name = strings.TrimSuffix(strings.TrimPrefix(contentID, "<"), ">")
	}
	if name == "" {
		name = generated()
	}

	if wantExtension {
		if !strings.Contains(name, ".") {
			if i := strings.LastIndex(dataSource, "."); i >= 0 {
				name += dataSource[i:]
			}
		}
	} else if i := strings.LastIndex(name, "."); i >= 0 && name == dataSource {
		name = name[:i]
	}

	if wantEncoded {
		name = field.Encode(name)
	}

	if name == "" {
		return Unnamed
	}
	return name
}
