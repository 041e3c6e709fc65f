package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/centerbox/pkg/box"
)

// Separator ends every box in the text format.
var Separator = strings.Repeat("-", 20)

// WriteText writes b in the text format:
//
//	"   go big   "
//	" or go home "
//
//	'   go big    or go home '
//
//	--------------------
func WriteText(w io.Writer, b box.Box) error {
	bw := bufio.NewWriter(w)
	for _, t := range b.Texts() {
		fmt.Fprintf(bw, "\"%s\"\n", t)
	}
	fmt.Fprintf(bw, "\n'%s'\n\n%s\n\n", b.Flat(), Separator)
	return bw.Flush()
}

// WriteTexts writes every box in order with [WriteText].
func WriteTexts(w io.Writer, boxes []box.Box) error {
	for i, b := range boxes {
		if err := WriteText(w, b); err != nil {
			return fmt.Errorf("write box %d: %w", i+1, err)
		}
	}
	return nil
}
