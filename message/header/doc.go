// Package header reads and writes MIME entity headers.
//
// Base stores the fields in order, along with the line break and fold
// encoding used for output. Header adds typed accessors for the fields this
// module cares about (content type and disposition, addresses, dates, content
// IDs) with a small cache of parsed values.
//
// Parse keeps the raw bytes of each field so that a parsed header that is not
// modified is written back byte for byte.
package header
