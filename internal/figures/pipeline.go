// Package figures turns an unpacked source tree into saved figure files.
//
// The pipeline assembles the document text, indexes the tree's image files,
// parses figure environments and then saves at most one image per figure
// under the run's output directory. Every stage degrades locally: an
// unresolvable reference, an unsupported format or a failed conversion
// skips that candidate and the run keeps going. Only the caller's context
// aborts a run outright.
package figures

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/scout/internal/texdoc"
	"github.com/hazyhaar/scout/safepath"
)

// SavedFigure describes one file written by a run.
type SavedFigure struct {
	Number   int    `json:"number"`
	Caption  string `json:"caption"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// Result is the complete outcome of one extraction run.
type Result struct {
	// TexContent is the assembled document text the figures were parsed
	// from.
	TexContent string

	// MainFile is the tree-relative path of the root document, or empty
	// when no root was found and the sorted concatenation fallback ran.
	MainFile string

	// Found counts figure environments in the text. Saved plus Skipped
	// always equals Found.
	Found   int
	Skipped int

	Saved     []SavedFigure
	OutputDir string
	CleanID   string
}

// Pipeline extracts figures from unpacked source trees.
type Pipeline struct {
	config Config
	logger *slog.Logger
}

func New(config Config, logger *slog.Logger) *Pipeline {
	config.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{config: config, logger: logger}
}

// OutputDir returns where a run for the given paper writes its files.
func (p *Pipeline) OutputDir(publishedDate, arxivID string) string {
	return filepath.Join(p.config.OutputRoot, publishedDate, safepath.SanitizeID(arxivID))
}

// Extract assembles the document under srcDir, parses its figure
// environments and saves the resolvable images. The output directory is
// created up front so a run that finds nothing still leaves its marker.
func (p *Pipeline) Extract(ctx context.Context, srcDir, arxivID, publishedDate string) (*Result, error) {
	cleanID := safepath.SanitizeID(arxivID)
	outDir := filepath.Join(p.config.OutputRoot, publishedDate, cleanID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("figures: create output dir: %w", err)
	}

	res := &Result{OutputDir: outDir, CleanID: cleanID}

	if mainFile, ok := texdoc.FindMainFile(srcDir); ok {
		if rel, err := filepath.Rel(srcDir, mainFile); err == nil {
			res.MainFile = filepath.ToSlash(rel)
		}
		res.TexContent = texdoc.Assemble(mainFile, srcDir)
		p.logger.Debug("assembled document", "main", res.MainFile, "bytes", len(res.TexContent))
	} else {
		res.TexContent = texdoc.AssembleAll(srcDir)
		p.logger.Info("no root document found, concatenated all sources", "bytes", len(res.TexContent))
	}

	images := texdoc.BuildImageIndex(srcDir, p.config.ImageExtensions)
	records := texdoc.ParseFigures(res.TexContent)
	res.Found = len(records)
	p.logger.Debug("parsed figure environments", "found", res.Found, "images", len(images))

	capHit := false
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(res.Saved) >= p.config.MaxFigures {
			if !capHit {
				capHit = true
				p.logger.Info("figure cap reached", "max", p.config.MaxFigures)
			}
			res.Skipped++
			continue
		}
		saved, ok := p.saveRecord(ctx, rec, images, outDir)
		if !ok {
			res.Skipped++
			continue
		}
		res.Saved = append(res.Saved, saved)
	}

	p.logger.Info("extraction finished",
		"arxiv_id", arxivID,
		"found", res.Found,
		"saved", len(res.Saved),
		"skipped", res.Skipped)
	return res, nil
}

// saveRecord tries the record's image references in order and writes the
// first one that works. One saved file per record at most.
func (p *Pipeline) saveRecord(ctx context.Context, rec texdoc.Figure, images texdoc.ImageIndex, outDir string) (SavedFigure, bool) {
	for _, ref := range rec.Images {
		resolved, ok := texdoc.Resolve(ref, images, p.config.ExtensionPreference)
		if !ok {
			p.logger.Warn("unresolved image reference", "figure", rec.Number, "ref", ref)
			continue
		}

		ext := strings.ToLower(filepath.Ext(resolved))
		if ext == ".eps" {
			p.logger.Warn("skipping eps image", "figure", rec.Number, "ref", ref)
			continue
		}

		var filename string
		if ext == ".pdf" {
			filename = p.savePDF(ctx, resolved, rec.Number, outDir)
		} else {
			filename = fmt.Sprintf("figure%d%s", rec.Number, ext)
			if err := copyFile(resolved, filepath.Join(outDir, filename)); err != nil {
				p.logger.Warn("copy failed", "figure", rec.Number, "src", resolved, "error", err)
				continue
			}
			p.logger.Debug("saved figure", "file", filename)
		}
		if filename == "" {
			continue
		}

		return SavedFigure{
			Number:   rec.Number,
			Caption:  rec.Caption,
			Filename: filename,
			Path:     filepath.Join(outDir, filename),
		}, true
	}
	return SavedFigure{}, false
}

// savePDF rasterizes a PDF figure to PNG, falling back to a verbatim copy
// of the PDF when conversion fails. Returns the saved filename, or empty
// when even the copy failed.
func (p *Pipeline) savePDF(ctx context.Context, src string, number int, outDir string) string {
	if pages, err := validatePDF(src); err != nil {
		p.logger.Warn("pdf failed validation", "figure", number, "src", src, "error", err)
	} else {
		p.logger.Debug("pdf figure", "figure", number, "pages", pages)
	}

	pngName := fmt.Sprintf("figure%d.png", number)
	err := p.rasterize(ctx, src, filepath.Join(outDir, pngName))
	if err == nil {
		p.logger.Debug("saved figure", "file", pngName, "converted_from", "pdf")
		return pngName
	}
	p.logger.Warn("pdf conversion failed, keeping pdf", "figure", number, "error", err)

	pdfName := fmt.Sprintf("figure%d.pdf", number)
	if err := copyFile(src, filepath.Join(outDir, pdfName)); err != nil {
		p.logger.Warn("copy failed", "figure", number, "src", src, "error", err)
		return ""
	}
	p.logger.Debug("saved figure", "file", pdfName)
	return pdfName
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
