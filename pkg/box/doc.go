// Package box enumerates every way to arrange a word sequence into a
// fixed-width, fixed-height box of perfectly centered text lines.
//
// # Overview
//
// A [Line] holds words joined by single spaces and is padded symmetrically
// when closed. A line can only be closed when its leftover width is even,
// otherwise the left and right padding could not be equal. A [Box] is an
// ordered sequence of closed lines that tracks how many words of the input
// have been consumed.
//
// # Search
//
// [FindValidBoxes] explores partial boxes level by level. Each level adds one
// line to every box in the frontier, trying every prefix of the remaining
// words that fits the width (words stay in order and are never skipped).
// Prefixes whose leftover width is odd are pruned. A box that consumes every
// word is complete and collected; the rest move on to the next level until
// the height limit is reached:
//
//	boxes, err := box.FindValidBoxes(18, 8, box.SplitWords("hello there world"))
//	if err != nil {
//	    return err
//	}
//	for _, b := range boxes {
//	    fmt.Println(b.Texts())
//	}
//
// Frontier and results are deduplicated by content ([Box.Key]), never by
// identity. Boxes and lines are values: every search step produces new ones,
// so branches explored from the same prefix never share mutable state.
//
// A [Searcher] exposes the same search with options: [Searcher.SkipBlankLines]
// never emits a line without words, [Searcher.FindContext] honours
// cancellation between frontier levels and [Searcher.Hooks] observes progress.
//
// # Ranking
//
// [Rank] keeps the boxes that minimize a [Metric]. Two metrics are provided:
// [SpaceCount] (fewer padding and separator spaces is tighter) and
// [Dispersion] (lower variance of per-line character counts is more even).
// Ties are all kept.
package box
