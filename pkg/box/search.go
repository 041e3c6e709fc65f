package box

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SplitWords splits a line of raw text into words on single spaces.
//
// The text is NFC-normalized first and a trailing line terminator is
// dropped. Consecutive spaces yield zero-length words; they are kept and
// placed like any other word.
func SplitWords(text string) []string {
	text = strings.TrimRight(norm.NFC.String(text), "\r\n")
	return strings.Split(text, " ")
}

// Hooks observes a search. OnLevel is called once per frontier level, after
// successors of every box in the level have been generated.
type Hooks interface {
	OnLevel(depth, frontier, completed int)
}

// Searcher enumerates the boxes of a fixed size that hold a word sequence.
// The zero value is not usable; Width and MaxLines must be positive.
type Searcher struct {
	// Width is the number of columns of every line.
	Width int

	// MaxLines is the height limit of every box.
	MaxLines int

	// SkipBlankLines drops candidate lines that hold no words. By default a
	// blank line is a valid line whenever the width is even.
	SkipBlankLines bool

	// Hooks receives progress events. Optional.
	Hooks Hooks
}

// FindValidBoxes returns every distinct complete box of the given size that
// holds words in order, one centered line at a time. An empty result means
// no arrangement exists; it is not an error.
func FindValidBoxes(width, maxLines int, words []string) ([]Box, error) {
	s := Searcher{Width: width, MaxLines: maxLines}
	return s.Find(words)
}

// Find runs the search to completion.
func (s Searcher) Find(words []string) ([]Box, error) {
	return s.FindContext(context.Background(), words)
}

// FindContext runs the search, checking ctx between frontier levels. When
// ctx is done the partial results are discarded and ctx.Err() is returned.
func (s Searcher) FindContext(ctx context.Context, words []string) ([]Box, error) {
	if s.Width <= 0 || s.MaxLines <= 0 {
		return nil, ErrInvalidDimensions
	}

	total := len(words)
	var (
		completed []Box
		seenDone  = make(map[string]struct{})
		frontier  = []Box{New(s.Width, s.MaxLines)}
	)

	for depth := 1; len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []Box
		seenNext := make(map[string]struct{})
		for _, b := range frontier {
			if b.Full() {
				continue
			}
			for _, c := range s.successors(b, words) {
				key := c.Key()
				switch {
				case c.Complete(total):
					if _, ok := seenDone[key]; !ok {
						seenDone[key] = struct{}{}
						completed = append(completed, c)
					}
				case !c.Full():
					if _, ok := seenNext[key]; !ok {
						seenNext[key] = struct{}{}
						next = append(next, c)
					}
				}
			}
		}

		if s.Hooks != nil {
			s.Hooks.OnLevel(depth, len(next), len(completed))
		}
		frontier = next
	}
	return completed, nil
}

// successors returns every box obtained by adding one closed line to b,
// taking the next k words for each k the line accepts.
func (s Searcher) successors(b Box, words []string) []Box {
	var out []Box
	line := NewLine(s.Width)

	try := func(l Line, k int) {
		closed, err := l.Close()
		if err != nil {
			return
		}
		if c, err := b.Append(closed, k); err == nil {
			out = append(out, c)
		}
	}

	if !s.SkipBlankLines {
		try(line, 0)
	}
	for i := b.consumed; i < len(words); i++ {
		var err error
		if line, err = line.Add(words[i]); err != nil {
			break
		}
		try(line, i-b.consumed+1)
	}
	return out
}
