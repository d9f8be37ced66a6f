// Package transfer applies and removes Content-Transfer-Encoding. Only
// quoted-printable and base64 change the bytes; 7bit, 8bit, binary and a
// missing header leave them as they are.
//
// "Decoded" bytes are the entity's own bytes, text still in its charset.
// "Encoded" bytes are those carried on the wire.
package transfer
