package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoopStdout(t *testing.T) {
	out, err := runCLI(t, "hi\na b\n", "--width", "6", "--lines", "1")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	want := prompt + hiBox + prompt + "No valid boxes were found\n" + prompt + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestLoopAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.txt")
	if err := os.WriteFile(path, []byte("previous\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "hi\nhi\n", "--width", "6", "--lines", "1", "-f", path)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	msg := "Wrote 1 box(es) to file '" + path + "'\n"
	if want := prompt + msg + prompt + msg + prompt + "\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if want := "previous\n" + hiBox + hiBox; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestLoopFileVisibleBetweenRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.txt")
	s, err := openSink(path, "text", &strings.Builder{})
	if err != nil {
		t.Fatalf("openSink() error: %v", err)
	}
	defer s.Close()

	if _, err := s.file.WriteString("one\n"); err != nil {
		t.Fatal(err)
	}
	if err := s.reopen(); err != nil {
		t.Fatalf("reopen() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "one\n" {
		t.Errorf("file after reopen = %q", data)
	}
}

func TestLoopSkipsInvalidLines(t *testing.T) {
	out, err := runCLI(t, "bad\x07line\nhi\n", "--width", "6", "--lines", "1")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, "control character") {
		t.Errorf("output = %q, want the validation message", out)
	}
	if !strings.Contains(out, hiBox) {
		t.Errorf("output = %q, loop should continue after a bad line", out)
	}
}

func TestLoopEmptyInput(t *testing.T) {
	out, err := runCLI(t, "", "--width", "6", "--lines", "1")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if out != prompt+"\n" {
		t.Errorf("output = %q", out)
	}
}
