package header

// Break is the line break a header is read and written with.
type Break string

// Line breaks. Messages produced for the wire use CRLF; LF is the default for
// headers built in memory.
const (
	Meh  Break = ""         // let the header decide
	CRLF Break = "\x0d\x0a" // network line break
	LF   Break = "\x0a"     // unix line break
	CR   Break = "\x0d"     // classic mac line break
	LFCR Break = "\x0a\x0d" // seen in broken mail
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
