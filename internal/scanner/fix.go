// Package scanner adapts bufio.SplitFunc to a friendlier termination rule.
package scanner

import (
	"bufio"
	"errors"
)

// ErrContinue may be returned by a split function wrapped with
// MakeSplitFuncExitByAdvance to have it called again at once on the remaining
// data, typically after a change of internal state.
var ErrContinue = errors.New("split func continue")

// MakeSplitFuncExitByAdvance wraps a split function so that advancing without
// producing a token calls it again on the rest of the data instead of ending
// the scan.
//
// bufio.Scanner stops when a split function returns a nil token at EOF, even
// if it consumed data that was merely uninteresting. The wrapped function
// only returns to the scanner when a token is produced, nothing is consumed,
// the data is used up, or an error other than ErrContinue occurs. Advances
// made along the way are summed.
func MakeSplitFuncExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		totalAdvance := 0
		for {
			advance, token, err := split(data, atEOF)

			if !errors.Is(err, ErrContinue) && (token != nil || advance == 0 || len(data)-advance <= 0 || err != nil) {
				return totalAdvance + advance, token, err
			}

			data = data[advance:]
			totalAdvance += advance
		}
	}
}
