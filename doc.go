// Package email is the semantic side of a MIME codec.
//
// An Email holds what a message says: its addressing, its bodies in plain
// text, HTML and iCalendar form, the images its HTML embeds, its attachments,
// a forwarded message, and custom headers. Package compose turns an Email
// into the smallest MIME tree that carries it, and package analyze reads any
// MIME tree back into an Email.
//
//	msg, err := compose.Compose(&email.Email{
//		Subject:   "Lunch",
//		From:      &email.Recipient{Name: "Ann", Address: "ann@example.com"},
//		Recipients: []email.Recipient{{Address: "bob@example.com", Type: email.To}},
//		PlainText: "Noon?",
//	})
//
// Resources, embedded or attached, read their content through a DataSource.
package email
