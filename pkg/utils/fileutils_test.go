package utils

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/types"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGetFileInfoSniffsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Scan.PNG")
	writePNG(t, path)

	info, err := GetFileInfo(path, true)
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	if info.Extension != "png" {
		t.Errorf("extension = %q, want png", info.Extension)
	}
	if info.MimeType != "image/png" {
		t.Errorf("mime = %q, want image/png", info.MimeType)
	}
	if len(info.MD5Hash) != 32 {
		t.Errorf("md5 = %q", info.MD5Hash)
	}
}

func TestGetFileInfoWithoutHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	writePNG(t, path)

	info, err := GetFileInfo(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if info.MD5Hash != "" {
		t.Errorf("hash computed although not requested: %q", info.MD5Hash)
	}
	if info.MimeType != "image/png" || info.Size == 0 {
		t.Errorf("info = %+v", info)
	}
}

func TestContradictsKind(t *testing.T) {
	tests := []struct {
		mime string
		kind types.DocumentKind
		want bool
	}{
		{"", types.KindPDF, false},
		{"application/pdf", types.KindPDF, false},
		{"image/png", types.KindPDF, true},
		{"image/jpeg", types.KindImage, false},
		{"application/pdf", types.KindImage, true},
		{"application/zip", types.KindSpreadsheet, false},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", types.KindFlowText, false},
		{"image/png", types.KindFlowText, true},
	}
	for _, tt := range tests {
		if got := ContradictsKind(tt.mime, tt.kind); got != tt.want {
			t.Errorf("ContradictsKind(%q, %s) = %v, want %v", tt.mime, tt.kind, got, tt.want)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	if got := Stem("/a/b/report.final.docx"); got != "report.final" {
		t.Errorf("Stem = %q", got)
	}
	if got := ReplaceExt("/a/out.pdf", ".txt"); got != "/a/out.txt" {
		t.Errorf("ReplaceExt = %q", got)
	}
	if got := Extension("X.JPEG"); got != "jpeg" {
		t.Errorf("Extension = %q", got)
	}
}

func TestTempManagerWithTempDir(t *testing.T) {
	tm := NewSimpleTempManager(t.TempDir(), logger.Discard())

	var dir string
	err := tm.WithTempDir("convert", func(d string) error {
		dir = d
		return os.WriteFile(filepath.Join(d, "x.pdf"), []byte("x"), 0644)
	})
	if err != nil {
		t.Fatalf("WithTempDir: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("temp dir %s still exists after the step", dir)
	}

	boom := errors.New("conversion failed")
	err = tm.WithTempDir("convert", func(d string) error {
		dir = d
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the step's error", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("temp dir kept after a failed step")
	}
}

func TestTempManagerCleanupOnlyLiveDirs(t *testing.T) {
	base := t.TempDir()
	tm := NewSimpleTempManager(base, logger.Discard())

	a, err := tm.CreateTempDir("a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := tm.CreateTempDir("../b")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(b) != base {
		t.Errorf("prefix escaped the base directory: %s", b)
	}
	if err := tm.Release(a); err != nil {
		t.Fatal(err)
	}
	if err := tm.Release(a); !errors.Is(err, ErrValidation) {
		t.Errorf("second release err = %v", err)
	}

	if err := tm.Cleanup(); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(base)
	if len(entries) != 0 {
		t.Errorf("base not empty after cleanup: %v", entries)
	}
}
