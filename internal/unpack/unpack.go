// Package unpack materializes an e-print byte buffer into a directory tree.
//
// Interpretations are tried strictly in order:
//  1. gzip-compressed tar
//  2. bare tar
//  3. gzip-compressed single TeX file
//  4. raw passthrough (PDF sniffed by magic bytes, everything else TeX)
//
// The last stage always succeeds, so an unrecognized buffer synthesizes a
// one-file tree instead of failing the run.
package unpack

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/hazyhaar/scout/safepath"
)

// Format identifies which interpretation of the buffer succeeded.
type Format string

const (
	FormatGzipTar Format = "gzip+tar"
	FormatTar     Format = "tar"
	FormatGzip    Format = "gzip"
	FormatPDF     Format = "pdf"
	FormatTeX     Format = "tex"
)

// SingleTeX is the synthesized filename for non-archive TeX buffers.
const SingleTeX = "main.tex"

// SinglePDF is the synthesized filename for non-archive PDF buffers.
const SinglePDF = "paper.pdf"

// Result reports what the unpacker produced.
type Result struct {
	Format Format
	Files  int
}

// Unpack writes the buffer's contents under dest, which must exist.
// It only returns an error when the destination itself cannot be written;
// unrecognized input degrades to a synthesized single file.
func Unpack(data []byte, dest string) (*Result, error) {
	if gz, err := gzip.NewReader(bytes.NewReader(data)); err == nil {
		if n, err := extractTar(tar.NewReader(gz), dest); err == nil {
			return &Result{Format: FormatGzipTar, Files: n}, nil
		}
	}

	if n, err := extractTar(tar.NewReader(bytes.NewReader(data)), dest); err == nil {
		return &Result{Format: FormatTar, Files: n}, nil
	}

	if gz, err := gzip.NewReader(bytes.NewReader(data)); err == nil {
		if plain, err := io.ReadAll(gz); err == nil {
			if err := os.WriteFile(filepath.Join(dest, SingleTeX), plain, 0o644); err != nil {
				return nil, err
			}
			return &Result{Format: FormatGzip, Files: 1}, nil
		}
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		if err := os.WriteFile(filepath.Join(dest, SinglePDF), data, 0o644); err != nil {
			return nil, err
		}
		return &Result{Format: FormatPDF, Files: 1}, nil
	}
	if err := os.WriteFile(filepath.Join(dest, SingleTeX), data, 0o644); err != nil {
		return nil, err
	}
	return &Result{Format: FormatTeX, Files: 1}, nil
}

// extractTar streams entries into dest. Entries that would escape dest are
// skipped; non-regular entries other than directories are skipped. A stream
// error fails the whole stage so the next interpretation can run.
func extractTar(tr *tar.Reader, dest string) (int, error) {
	files := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, err
		}

		target, err := safepath.SafePath(dest, hdr.Name)
		if err != nil {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr); err != nil {
				return files, err
			}
			files++
		}
	}
	return files, nil
}

func writeEntry(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
