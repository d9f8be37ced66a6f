// Package compose turns an email.Email into the smallest MIME tree that
// carries it.
//
// Three questions about the content decide the tree: are there attachments
// or a forwarded message (mixed), are there embedded images (related), and is
// there more than one body (alternative). Classify answers them, Select maps
// the answers to one of eight shapes, and Build constructs that shape with no
// container that has nothing to hold. Containers nest mixed, then related,
// then alternative.
//
//	msg, err := compose.Compose(e, compose.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	_, err = msg.WriteTo(w)
package compose
