package figures

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// rasterize converts the first page of a PDF to a PNG at pngPath using
// pdftoppm. The invocation is bounded by RasterTimeout; success requires
// the output file to exist afterwards, since pdftoppm exits zero on some
// inputs it silently cannot render.
func (p *Pipeline) rasterize(ctx context.Context, pdfPath, pngPath string) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.RasterTimeout)
	defer cancel()

	prefix := strings.TrimSuffix(pngPath, ".png")
	cmd := exec.CommandContext(ctx, p.config.PdftoppmPath,
		"-png",
		"-r", strconv.Itoa(p.config.RasterDPI),
		"-singlefile",
		pdfPath,
		prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		detail := string(bytes.TrimSpace(out))
		if detail != "" {
			return fmt.Errorf("figures: pdftoppm: %w: %s", err, detail)
		}
		return fmt.Errorf("figures: pdftoppm: %w", err)
	}
	if _, err := os.Stat(pngPath); err != nil {
		return fmt.Errorf("figures: pdftoppm produced no output for %s", filepath.Base(pdfPath))
	}
	return nil
}

// validatePDF parses the file with pdfcpu and reports its page count. The
// result is diagnostic only; pdftoppm remains the authority on whether a
// PDF can be rendered.
func validatePDF(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	pctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return pctx.PageCount, nil
}
