package compose

import "github.com/zostay/go-email-codec"

// Content records which kinds of container a message needs.
type Content struct {
	// Mixed is set when there are attachments or a forwarded message.
	Mixed bool

	// Related is set when there are embedded images.
	Related bool

	// Alternative is set when more than one of the plain, HTML and calendar
	// bodies is present.
	Alternative bool
}

// Classify inspects e and reports which containers it needs.
func Classify(e *email.Email) Content {
	bodies := 0
	if e.PlainText != "" {
		bodies++
	}
	if e.HTMLText != "" {
		bodies++
	}
	if e.HasCalendar() {
		bodies++
	}

	return Content{
		Mixed:       len(e.Attachments) > 0 || e.Forward != nil,
		Related:     len(e.EmbeddedImages) > 0,
		Alternative: bodies > 1,
	}
}

// Levels returns the number of containers the content needs.
func (c Content) Levels() int {
	n := 0
	for _, b := range []bool{c.Mixed, c.Related, c.Alternative} {
		if b {
			n++
		}
	}
	return n
}
