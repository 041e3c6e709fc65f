package io

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/centerbox/pkg/box"
)

// boxSet is the cache encoding: the words of every line of every box.
type boxSet struct {
	Width    int          `json:"w"`
	MaxLines int          `json:"h"`
	Boxes    [][][]string `json:"b"`
}

// MarshalBoxes encodes boxes of the given size compactly.
func MarshalBoxes(width, maxLines int, boxes []box.Box) ([]byte, error) {
	set := boxSet{Width: width, MaxLines: maxLines, Boxes: make([][][]string, len(boxes))}
	for i, b := range boxes {
		lines := b.Lines()
		set.Boxes[i] = make([][]string, len(lines))
		for j, l := range lines {
			set.Boxes[i][j] = l.Words()
		}
	}
	return json.Marshal(set)
}

// UnmarshalBoxes decodes data written by [MarshalBoxes]. The size stored in
// data must match width and maxLines.
func UnmarshalBoxes(data []byte, width, maxLines int) ([]box.Box, error) {
	var set boxSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode boxes: %w", err)
	}
	if set.Width != width || set.MaxLines != maxLines {
		return nil, fmt.Errorf("box size %dx%d does not match %dx%d", set.Width, set.MaxLines, width, maxLines)
	}

	boxes := make([]box.Box, len(set.Boxes))
	for i, lines := range set.Boxes {
		b, err := box.FromLines(width, maxLines, lines)
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i+1, err)
		}
		boxes[i] = b
	}
	return boxes, nil
}
