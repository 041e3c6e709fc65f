package box

import (
	"fmt"
	"strconv"
	"strings"
)

// Box is an ordered sequence of closed lines under a height limit.
//
// Like [Line], Box is a value type: [Box.Append] returns a new box and leaves
// the receiver untouched. Two boxes are the same state when their keys are
// equal, regardless of how the search reached them.
type Box struct {
	width    int
	maxLines int
	lines    []Line
	consumed int
}

// New returns an empty box.
func New(width, maxLines int) Box {
	return Box{width: width, maxLines: maxLines}
}

// Append returns a copy of the box with line added as its last line, with
// words counting the words the line consumed. The line must be closed, match
// the box width and fit under the height limit.
func (b Box) Append(line Line, words int) (Box, error) {
	if !line.closed {
		return b, ErrLineOpen
	}
	if line.width != b.width {
		return b, fmt.Errorf("line width %d does not match box width %d", line.width, b.width)
	}
	if b.Full() {
		return b, fmt.Errorf("%w: %d lines", ErrBoxFull, b.maxLines)
	}
	if words != len(line.words) {
		return b, fmt.Errorf("line holds %d words, got %d", len(line.words), words)
	}
	b.lines = append(b.lines[:len(b.lines):len(b.lines)], line)
	b.consumed += words
	return b, nil
}

// FromLines rebuilds a box from the words of each line, validating every
// line exactly as the search does.
func FromLines(width, maxLines int, lines [][]string) (Box, error) {
	if width <= 0 || maxLines <= 0 {
		return Box{}, ErrInvalidDimensions
	}
	b := New(width, maxLines)
	for i, words := range lines {
		line := NewLine(width)
		var err error
		for _, w := range words {
			if line, err = line.Add(w); err != nil {
				return Box{}, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		if line, err = line.Close(); err != nil {
			return Box{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		if b, err = b.Append(line, len(words)); err != nil {
			return Box{}, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return b, nil
}

// Width returns the line width of the box.
func (b Box) Width() int { return b.width }

// MaxLines returns the height limit of the box.
func (b Box) MaxLines() int { return b.maxLines }

// Lines returns a copy of the closed lines.
func (b Box) Lines() []Line {
	return append([]Line(nil), b.lines...)
}

// Len returns the number of lines.
func (b Box) Len() int { return len(b.lines) }

// WordsConsumed returns the number of input words placed in the box.
func (b Box) WordsConsumed() int { return b.consumed }

// Full reports whether another line would exceed the height limit.
func (b Box) Full() bool { return len(b.lines) >= b.maxLines }

// Complete reports whether the box holds all total words.
func (b Box) Complete(total int) bool { return b.consumed == total }

// Texts returns the padded text of every line.
func (b Box) Texts() []string {
	texts := make([]string, len(b.lines))
	for i, l := range b.lines {
		texts[i] = l.Text()
	}
	return texts
}

// Words returns every word in the box in line order.
func (b Box) Words() []string {
	words := make([]string, 0, b.consumed)
	for _, l := range b.lines {
		words = append(words, l.words...)
	}
	return words
}

// Flat returns the concatenation of all padded line texts.
func (b Box) Flat() string {
	return strings.Join(b.Texts(), "")
}

// Key returns a canonical content key: words consumed and the padded text of
// every line, in order.
//
// Lines are compared by text alone, so a blank line and a line holding one
// zero-length word are the same line. Boxes that differ only in which of
// the two comes first share a key and the search keeps the first found.
func (b Box) Key() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(b.consumed))
	for _, l := range b.lines {
		sb.WriteByte('|')
		sb.WriteString(strconv.Quote(l.Text()))
	}
	return sb.String()
}

// Equal reports whether b and other have the same content.
func (b Box) Equal(other Box) bool {
	return b.width == other.width && b.Key() == other.Key()
}

// String renders the box as double-quoted lines, one per row.
func (b Box) String() string {
	var sb strings.Builder
	for _, t := range b.Texts() {
		sb.WriteString(`"` + t + `"` + "\n")
	}
	return sb.String()
}
