package message

import (
	"math/rand"
)

var boundaryLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateBoundary returns a random multipart boundary. It contains only
// letters and digits behind a "=_" prefix, a sequence that cannot occur in
// quoted-printable or base64 output.
func GenerateBoundary() string {
	s := make([]rune, 30)
	for i := range s {
		s[i] = boundaryLetters[rand.Intn(len(boundaryLetters))]
	}
	return "=_" + string(s)
}
