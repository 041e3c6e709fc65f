package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/centerbox/pkg/errors"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

func TestSinkStdout(t *testing.T) {
	var buf bytes.Buffer
	s, err := openSink("", pipeline.FormatText, &buf)
	if err != nil {
		t.Fatalf("openSink() error: %v", err)
	}
	if s.toFile() {
		t.Error("sink without path should not write to a file")
	}

	result, err := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), "hi", pipeline.Options{Width: 6, MaxLines: 1})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if err := s.write(result); err != nil {
		t.Fatalf("write() error: %v", err)
	}
	if buf.String() != hiBox {
		t.Errorf("output = %q, want %q", buf.String(), hiBox)
	}
	if err := s.reopen(); err != nil {
		t.Errorf("reopen() without file error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestSinkCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	s, err := openSink(path, pipeline.FormatJSON, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("openSink() error: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("openSink should create the file: %v", err)
	}
}

func TestSinkErrors(t *testing.T) {
	if _, err := openSink("", "xml", &bytes.Buffer{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
	if _, err := openSink("dir/", pipeline.FormatText, &bytes.Buffer{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("bad path error = %v", err)
	}
	missing := filepath.Join(t.TempDir(), "missing", "out.txt")
	if _, err := openSink(missing, pipeline.FormatText, &bytes.Buffer{}); err == nil {
		t.Error("openSink in a missing directory should fail")
	}
}
