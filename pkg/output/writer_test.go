package output

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nodewee/doc-highlight/pkg/utils"
)

func TestPrepareCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(input, []byte("%PDF"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "nested", "deeper", "out.pdf")

	if err := Prepare(input, out); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(out)); err != nil || !info.IsDir() {
		t.Fatalf("parent directory not created: %v", err)
	}
}

func TestPrepareRejectsOutputEqualToInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")
	if err := os.WriteFile(input, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	cases := []string{
		input,
		filepath.Join(dir, ".", "in.xlsx"),
		filepath.Join(dir, "sub", "..", "in.xlsx"),
	}
	for _, out := range cases {
		err := Prepare(input, out)
		if !errors.Is(err, utils.ErrValidation) {
			t.Errorf("Prepare(%q) err = %v, want validation error", out, err)
		}
	}
}

func TestPrepareRejectsSymlinkToInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	if err := os.WriteFile(input, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.png")
	if err := os.Symlink(input, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := Prepare(input, link); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("symlinked output accepted: %v", err)
	}
}

func TestWriteFileIsAtomic(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.pdf")
	if err := os.WriteFile(out, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("encoder failed")
	err := WriteFile(out, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	data, _ := os.ReadFile(out)
	if string(data) != "previous" {
		t.Errorf("failed write replaced existing output: %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}

func TestWriteBytes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.txt")
	if err := WriteBytes(out, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "hello" {
		t.Errorf("got %q, %v", data, err)
	}
}

func TestReportPath(t *testing.T) {
	tests := map[string]string{
		"/out/doc_overlay.pdf": "/out/doc_overlay.txt",
		"/out/doc.docx":        "/out/doc.txt",
		"/out/noext":           "/out/noext.txt",
	}
	for in, want := range tests {
		if got := ReportPath(in); got != want {
			t.Errorf("ReportPath(%q) = %q, want %q", in, got, want)
		}
	}
}
