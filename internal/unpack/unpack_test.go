package unpack

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func tarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header %s: %v", name, err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newDest(t *testing.T) string {
	t.Helper()
	dest := filepath.Join(t.TempDir(), "tree")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	return dest
}

func TestUnpack_GzipTar(t *testing.T) {
	data := gzipped(t, tarball(t, map[string]string{
		"main.tex":      `\documentclass{article}`,
		"figs/plot.png": "not-really-png",
	}))
	dest := newDest(t)

	res, err := Unpack(data, dest)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Format != FormatGzipTar {
		t.Fatalf("format: got %s, want %s", res.Format, FormatGzipTar)
	}
	if res.Files != 2 {
		t.Fatalf("files: got %d, want 2", res.Files)
	}

	got, err := os.ReadFile(filepath.Join(dest, "figs", "plot.png"))
	if err != nil {
		t.Fatalf("nested file missing: %v", err)
	}
	if string(got) != "not-really-png" {
		t.Fatalf("nested file content: got %q", got)
	}
}

func TestUnpack_BareTar(t *testing.T) {
	data := tarball(t, map[string]string{"paper.tex": "hello"})
	dest := newDest(t)

	res, err := Unpack(data, dest)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Format != FormatTar {
		t.Fatalf("format: got %s, want %s", res.Format, FormatTar)
	}
	if _, err := os.Stat(filepath.Join(dest, "paper.tex")); err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
}

func TestUnpack_GzipSingleFile(t *testing.T) {
	data := gzipped(t, []byte(`\documentclass{article}\begin{document}x\end{document}`))
	dest := newDest(t)

	res, err := Unpack(data, dest)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Format != FormatGzip {
		t.Fatalf("format: got %s, want %s", res.Format, FormatGzip)
	}

	got, err := os.ReadFile(filepath.Join(dest, SingleTeX))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(got, []byte(`\documentclass`)) {
		t.Fatalf("decompressed content wrong: %q", got)
	}
}

func TestUnpack_RawPDF(t *testing.T) {
	dest := newDest(t)
	res, err := Unpack([]byte("%PDF-1.5\nfake pdf body"), dest)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Format != FormatPDF {
		t.Fatalf("format: got %s, want %s", res.Format, FormatPDF)
	}
	if _, err := os.Stat(filepath.Join(dest, SinglePDF)); err != nil {
		t.Fatalf("synthesized pdf missing: %v", err)
	}
}

func TestUnpack_RawTeX(t *testing.T) {
	dest := newDest(t)
	res, err := Unpack([]byte(`\section{Intro} plain tex`), dest)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Format != FormatTeX {
		t.Fatalf("format: got %s, want %s", res.Format, FormatTeX)
	}
	got, _ := os.ReadFile(filepath.Join(dest, SingleTeX))
	if !bytes.Contains(got, []byte("plain tex")) {
		t.Fatalf("synthesized tex content wrong: %q", got)
	}
}

func TestUnpack_EmptyBuffer(t *testing.T) {
	dest := newDest(t)
	res, err := Unpack(nil, dest)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Format != FormatTeX {
		t.Fatalf("format: got %s, want %s", res.Format, FormatTeX)
	}
}

func TestUnpack_TraversalEntrySkipped(t *testing.T) {
	parent := t.TempDir()
	dest := filepath.Join(parent, "tree")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	data := tarball(t, map[string]string{
		"../evil.txt": "escape",
		"ok.txt":      "fine",
	})

	res, err := Unpack(data, dest)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Files != 1 {
		t.Fatalf("files: got %d, want 1 (traversal entry skipped)", res.Files)
	}
	if _, err := os.Stat(filepath.Join(parent, "evil.txt")); err == nil {
		t.Fatal("traversal entry escaped the destination")
	}
	if _, err := os.Stat(filepath.Join(dest, "ok.txt")); err != nil {
		t.Fatalf("legitimate entry missing: %v", err)
	}
}
