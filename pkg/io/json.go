package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/centerbox/pkg/box"
)

// Document describes the outcome of one run.
type Document struct {
	ID       string  `json:"id,omitempty"`
	Text     string  `json:"text"`
	Width    int     `json:"width"`
	MaxLines int     `json:"max_lines"`
	Metric   string  `json:"metric,omitempty"`
	Cached   bool    `json:"cached,omitempty"`
	Boxes    []Entry `json:"boxes"`
}

// Entry is one box of a [Document].
type Entry struct {
	Lines      []Line  `json:"lines"`
	Flat       string  `json:"flat"`
	Spaces     float64 `json:"spaces"`
	Dispersion float64 `json:"dispersion"`
}

// Line is one padded line and the words it holds.
type Line struct {
	Text  string   `json:"text"`
	Words []string `json:"words"`
}

// NewDocument builds a document for boxes of the given size.
func NewDocument(text string, width, maxLines int, boxes []box.Box) Document {
	doc := Document{
		Text:     text,
		Width:    width,
		MaxLines: maxLines,
		Boxes:    make([]Entry, len(boxes)),
	}
	for i, b := range boxes {
		doc.Boxes[i] = newEntry(b)
	}
	return doc
}

func newEntry(b box.Box) Entry {
	lines := b.Lines()
	e := Entry{
		Lines:      make([]Line, len(lines)),
		Flat:       b.Flat(),
		Spaces:     box.SpaceCount(b),
		Dispersion: box.Dispersion(b),
	}
	for i, l := range lines {
		e.Lines[i] = Line{Text: l.Text(), Words: l.Words()}
	}
	return e
}

// Decode rebuilds and revalidates the boxes of the document.
func (d Document) Decode() ([]box.Box, error) {
	boxes := make([]box.Box, len(d.Boxes))
	for i, e := range d.Boxes {
		lines := make([][]string, len(e.Lines))
		for j, l := range e.Lines {
			lines[j] = l.Words
		}
		b, err := box.FromLines(d.Width, d.MaxLines, lines)
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i+1, err)
		}
		boxes[i] = b
	}
	return boxes, nil
}

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by [WriteJSON].
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// ExportJSON writes doc to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, doc)
}
