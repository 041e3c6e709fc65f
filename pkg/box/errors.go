package box

import "errors"

var (
	// ErrLineOverflow is returned by [Line.Add] when the word (plus a
	// separator, if the line already has words) would exceed the line width.
	ErrLineOverflow = errors.New("line overflow")

	// ErrUnbalancedLine is returned by [Line.Close] when the leftover width is
	// odd and cannot be split into equal left and right padding.
	ErrUnbalancedLine = errors.New("unbalanced line")

	// ErrLineClosed is returned when adding a word to a closed line.
	ErrLineClosed = errors.New("line is closed")

	// ErrLineOpen is returned by [Box.Append] for a line that was never closed.
	ErrLineOpen = errors.New("line is not closed")

	// ErrBoxFull is returned by [Box.Append] when the box already holds
	// max lines.
	ErrBoxFull = errors.New("box is full")

	// ErrInvalidDimensions is returned when width or max lines is not positive.
	ErrInvalidDimensions = errors.New("width and max lines must be positive")
)
