package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/centerbox/pkg/errors"
	pkgio "github.com/matzehuels/centerbox/pkg/io"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

// sink receives the boxes of every run: standard output, or a file opened in
// append mode.
type sink struct {
	path   string
	format string
	out    io.Writer
	file   *os.File
}

// openSink returns a sink writing to path, or to stdout when path is empty.
func openSink(path, format string, stdout io.Writer) (*sink, error) {
	if err := pipeline.ValidateFormat(format); err != nil {
		return nil, err
	}
	s := &sink{path: path, format: format, out: stdout}
	if path == "" {
		return s, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	if err := s.reopen(); err != nil {
		return nil, err
	}
	return s, nil
}

// toFile reports whether the sink writes to a file.
func (s *sink) toFile() bool {
	return s.path != ""
}

// write appends the boxes of result in the sink's format.
func (s *sink) write(result *pipeline.Result) error {
	w := s.out
	if s.file != nil {
		w = s.file
	}
	if s.format == pipeline.FormatJSON {
		return pkgio.WriteJSON(w, result.Document())
	}
	return pkgio.WriteTexts(w, result.Boxes)
}

// reopen closes the file and opens it again for appending, so each run is
// flushed to disk before the next prompt.
func (s *sink) reopen() error {
	if s.path == "" {
		return nil
	}
	if err := s.Close(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	s.file = f
	return nil
}

// Close closes the output file, if any.
func (s *sink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
