package field

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

const (
	DefaultFoldIndent          = " " // indent placed before folded lines
	DefaultPreferredFoldLength = 78  // RFC 5322 recommended line length
	DefaultForcedFoldLength    = 998 // RFC 5322 hard line length limit

	DoNotFold = -1 // we prefer not to fold at all
)

var (
	// DefaultFoldEncoding folds at DefaultPreferredFoldLength with a single
	// space of indent.
	DefaultFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DefaultPreferredFoldLength,
		DefaultForcedFoldLength,
	}

	// DoNotFoldEncoding is a FoldEncoding that doesn't perform folding. Parsed
	// headers use it so that they are written back unchanged.
	DoNotFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DoNotFold,
		DoNotFold,
	}
)

var (
	// ErrFoldIndentSpace is returned by NewFoldEncoding when a non-space/non-tab
	// character is put in the foldIndent setting.
	ErrFoldIndentSpace = errors.New("fold indent may only contains spaces and tabs")

	// ErrFoldIndentTooShort is returned by NewFoldEncoding when the foldIndent
	// is empty.
	ErrFoldIndentTooShort = errors.New("fold indent must contain at least one space or tab")

	// ErrFoldIndentTooLong is returned by NewFoldEncoding when the foldIndent
	// setting is equal to or longer than the preferredFoldLength.
	ErrFoldIndentTooLong = errors.New("fold indent must be shorter than the preferred fold length")

	// ErrFoldLengthTooLong is returned by NewFoldEncoding when the
	// preferredFoldLength is longer than the forcedFoldLength.
	ErrFoldLengthTooLong = errors.New("preferred fold length must be no longer than the forced fold length")

	// ErrFoldLengthTooShort is returned by NewFoldEncoding when either length
	// is shorter than 3 bytes.
	ErrFoldLengthTooShort = errors.New("preferred fold length and forced fold length cannot be too short")

	// ErrDoNotFold is returned by NewFoldEncoding when only one of the two
	// lengths is DoNotFold.
	ErrDoNotFold = errors.New("preferred fold length and forced fold length must both be -1 if either are -1")
)

// Break is the line break used while folding, as bytes.
type Break []byte

// FoldEncoding folds header fields for output.
type FoldEncoding struct {
	foldIndent          string
	preferredFoldLength int
	forcedFoldLength    int
}

// NewFoldEncoding creates a FoldEncoding. The foldIndent must be one or more
// spaces or tabs and shorter than preferredFoldLength, which must not exceed
// forcedFoldLength.
func NewFoldEncoding(
	foldIndent string,
	preferredFoldLength,
	forcedFoldLength int,
) (*FoldEncoding, error) {
	if ix := strings.IndexFunc(foldIndent, func(c rune) bool { return !isSpace(c) }); ix >= 0 {
		return nil, ErrFoldIndentSpace
	}

	if len(foldIndent) < 1 {
		return nil, ErrFoldIndentTooShort
	}

	if (preferredFoldLength == DoNotFold) != (forcedFoldLength == DoNotFold) {
		return nil, ErrDoNotFold
	}

	if preferredFoldLength != DoNotFold {
		if len(foldIndent) >= preferredFoldLength {
			return nil, ErrFoldIndentTooLong
		}

		if preferredFoldLength > forcedFoldLength {
			return nil, ErrFoldLengthTooLong
		}

		if preferredFoldLength < 3 || forcedFoldLength < 3 {
			return nil, ErrFoldLengthTooShort
		}
	}

	return &FoldEncoding{foldIndent, preferredFoldLength, forcedFoldLength}, nil
}

// PreferredFoldLength returns the line length the encoding tries to stay
// under, or DoNotFold.
func (vf *FoldEncoding) PreferredFoldLength() int {
	return vf.preferredFoldLength
}

// Unfold removes line breaks from a folded field, leaving the indentation.
func (vf *FoldEncoding) Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if !isCRLF(rune(b)) {
			uf = append(uf, b)
		}
	}
	return uf
}

func isCRLF(c rune) bool     { return c == '\r' || c == '\n' }
func isSpace(c rune) bool    { return c == ' ' || c == '\t' }
func isNonSpace(c rune) bool { return c != ' ' && c != '\t' }

// Fold writes the field f to out, folded so that lines stay below the
// preferred length where a space allows it and never exceed the forced
// length. Continuation lines are indented. The output always ends with lb.
func (vf *FoldEncoding) Fold(out io.Writer, f []byte, lb Break) (int64, error) {
	total := int64(0)
	continuingLine := false
	writeFold := func(f []byte, end int) ([]byte, error) {
		if continuingLine && !isSpace(rune(f[0])) {
			n, err := out.Write([]byte(vf.foldIndent))
			total += int64(n)
			if err != nil {
				return nil, err
			}
		}
		n, err := out.Write(f[:end])
		total += int64(n)
		if err != nil {
			return nil, err
		}

		n, err = out.Write(lb)
		total += int64(n)
		if err != nil {
			return nil, err
		}

		f = f[end:]
		continuingLine = true

		return bytes.TrimLeft(f, " \t"), nil
	}

	if vf.preferredFoldLength == DoNotFold || len(f) < vf.preferredFoldLength-len(lb) {
		n, err := out.Write(f)
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = out.Write(lb)
		total += int64(n)
		return total, err
	}

	limit := vf.preferredFoldLength - len(lb)
	forced := vf.forcedFoldLength - len(lb)

	lines := bytes.Split(f, lb)
	for _, line := range lines {
	FoldingSingle:
		for len(line) > 0 {
			var err error

			indent := 0
			if continuingLine && !isSpace(rune(line[0])) {
				indent = len(vf.foldIndent)
			}

			if len(line)+indent <= limit {
				line, err = writeFold(line, len(line))
				if err != nil {
					return total, err
				}
				continue FoldingSingle
			}

			// never fold inside the field name
			firstChar := 0
			if !continuingLine {
				if colon := bytes.IndexRune(line, ':'); colon >= 0 {
					firstChar = colon + 1
				}
			}
			if nonSpace := bytes.IndexFunc(line[firstChar:], isNonSpace); nonSpace >= 0 {
				firstChar += nonSpace
			}

			// best case, a space before the preferred length
			if end := limit - indent; firstChar < end {
				if ix := bytes.LastIndexFunc(line[firstChar:end], isSpace); ix > 0 {
					line, err = writeFold(line, ix+firstChar)
					if err != nil {
						return total, err
					}
					continue FoldingSingle
				}
			}

			// barring that, the first space after it, if before the forced length
			if ix := bytes.IndexFunc(line[firstChar:], isSpace); ix > 0 && ix+firstChar+indent < forced {
				line, err = writeFold(line, ix+firstChar)
				if err != nil {
					return total, err
				}
				continue FoldingSingle
			}

			// no usable space: break hard at the forced length
			if len(line)+indent > forced {
				line, err = writeFold(line, forced-indent)
				if err != nil {
					return total, err
				}
				continue FoldingSingle
			}

			line, err = writeFold(line, len(line))
			if err != nil {
				return total, err
			}
		}
	}

	return total, nil
}
