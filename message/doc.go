// Package message models a MIME entity tree and reads and writes it.
//
// A leaf is an *Opaque: a header and a body reader. A container is a
// *Multipart: a header whose Content-Type is multipart/* and an ordered list
// of parts. Both satisfy Part, and Generic names a Part that may be a whole
// message.
//
// Parse reads a message, splitting multipart bodies to a configurable depth
// and keeping enough of the original bytes that WriteTo reproduces the input
// exactly. Buffer, NewOpaque and NewMultipart build new entities; their
// bodies are encoded according to the Content-Transfer-Encoding header on
// WriteTo:
//
//	msg, err := message.Parse(r, message.DecodeTransferEncoding())
//	if err != nil {
//		return err
//	}
//
//	for _, part := range msg.GetParts() {
//		...
//	}
package message
