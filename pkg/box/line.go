package box

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// separator joins consecutive words on a line.
const separator = " "

// Line is one row of a box. An open line accepts words; a closed line has
// been validated as centerable and carries its padded text.
//
// Line is a value type. [Line.Add] and [Line.Close] return new lines and
// never modify the receiver, so a partially built line can be extended along
// several branches of the search.
type Line struct {
	width  int
	words  []string
	text   string
	padded string
	closed bool
}

// NewLine returns an empty open line of the given width.
func NewLine(width int) Line {
	return Line{width: width}
}

// Add returns a copy of the line with word appended. A single space
// separates it from the previous word, if any.
//
// Add fails with [ErrLineOverflow] when the result would be longer than the
// line width and with [ErrLineClosed] when the line is closed. The receiver
// is unchanged in both cases.
func (l Line) Add(word string) (Line, error) {
	if l.closed {
		return l, ErrLineClosed
	}
	sep := ""
	if len(l.words) > 0 {
		sep = separator
	}
	if runeLen(l.text)+runeLen(sep)+runeLen(word) > l.width {
		return l, fmt.Errorf("%w: %q does not fit in %d columns after %q", ErrLineOverflow, word, l.width, l.text)
	}

	// Full slice expression forces a copy so sibling branches never share
	// the backing array.
	l.words = append(l.words[:len(l.words):len(l.words)], word)
	l.text = l.text + sep + word
	return l, nil
}

// Close pads the line symmetrically to its width and returns the closed
// line. It fails with [ErrUnbalancedLine] when the leftover width is odd.
// Closing an already closed line returns it unchanged.
func (l Line) Close() (Line, error) {
	if l.closed {
		return l, nil
	}
	empty := l.width - runeLen(l.text)
	if empty%2 != 0 {
		return l, fmt.Errorf("%w: %q leaves %d columns", ErrUnbalancedLine, l.text, empty)
	}
	pad := strings.Repeat(" ", empty/2)
	l.padded = pad + l.text + pad
	l.closed = true
	return l, nil
}

// Width returns the fixed width of the line.
func (l Line) Width() int { return l.width }

// Words returns a copy of the words placed on the line.
func (l Line) Words() []string {
	return append([]string(nil), l.words...)
}

// WordCount returns the number of words on the line.
func (l Line) WordCount() int { return len(l.words) }

// Content returns the unpadded text: the words joined by single spaces.
func (l Line) Content() string { return l.text }

// Text returns the padded text of a closed line, or the unpadded content of
// an open one.
func (l Line) Text() string {
	if !l.closed {
		return l.text
	}
	return l.padded
}

// Padding returns the number of spaces on each side of a closed line.
func (l Line) Padding() int {
	if !l.closed {
		return 0
	}
	return (l.width - runeLen(l.text)) / 2
}

// Closed reports whether the line has been closed.
func (l Line) Closed() bool { return l.closed }

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
