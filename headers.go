package email

import "strings"

type headerEntry struct {
	name   string
	values []string
}

// Headers is an ordered multimap of custom header names to values. Names
// compare case-insensitively and keep the spelling first added. The zero
// value is ready to use.
type Headers struct {
	entries []headerEntry
}

// NewHeaders returns empty Headers.
func NewHeaders() *Headers {
	return &Headers{}
}

func (h *Headers) find(name string) int {
	for i, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			return i
		}
	}
	return -1
}

// Add appends a value for name.
func (h *Headers) Add(name, value string) {
	if i := h.find(name); i >= 0 {
		h.entries[i].values = append(h.entries[i].values, value)
		return
	}
	h.entries = append(h.entries, headerEntry{name, []string{value}})
}

// Set replaces all values of name, keeping its position.
func (h *Headers) Set(name string, values ...string) {
	vs := append([]string(nil), values...)
	if i := h.find(name); i >= 0 {
		h.entries[i].values = vs
		return
	}
	h.entries = append(h.entries, headerEntry{name, vs})
}

// Del removes name.
func (h *Headers) Del(name string) {
	if i := h.find(name); i >= 0 {
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
	}
}

// Values returns a copy of the values of name.
func (h *Headers) Values(name string) []string {
	if h == nil {
		return nil
	}
	if i := h.find(name); i >= 0 {
		return append([]string(nil), h.entries[i].values...)
	}
	return nil
}

// Get returns the first value of name, or the empty string.
func (h *Headers) Get(name string) string {
	if vs := h.Values(name); len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Names returns the header names in the order first added.
func (h *Headers) Names() []string {
	if h == nil {
		return nil
	}
	ns := make([]string, len(h.entries))
	for i, e := range h.entries {
		ns[i] = e.name
	}
	return ns
}

// Len returns the number of distinct names.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Each calls fn for every value in order, grouped by name.
func (h *Headers) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	for _, e := range h.entries {
		for _, v := range e.values {
			fn(e.name, v)
		}
	}
}
