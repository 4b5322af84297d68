package figures

import (
	"time"

	"github.com/hazyhaar/scout/internal/texdoc"
)

// Config controls where figures land and how aggressively they are
// extracted. The zero value is usable; defaults fill in anything unset.
type Config struct {
	// OutputRoot is the base directory for saved figures. Each run writes
	// into OutputRoot/<published-date>/<sanitized-id>/.
	OutputRoot string

	// MaxFigures caps how many figures a single run saves. Scanning
	// continues past the cap so the run report stays complete.
	MaxFigures int

	// ImageExtensions lists the file types indexed as figure candidates.
	ImageExtensions []string

	// ExtensionPreference orders the probes used to resolve references
	// that do not match the index as written.
	ExtensionPreference []string

	// RasterDPI is the resolution passed to the rasterizer for PDF
	// figures.
	RasterDPI int

	// RasterTimeout bounds a single rasterizer invocation. On expiry the
	// conversion counts as failed and the PDF is copied verbatim.
	RasterTimeout time.Duration

	// PdftoppmPath overrides the rasterizer binary looked up on PATH.
	PdftoppmPath string
}

func (c *Config) defaults() {
	if c.OutputRoot == "" {
		c.OutputRoot = "papers"
	}
	if c.MaxFigures == 0 {
		c.MaxFigures = 10
	}
	if len(c.ImageExtensions) == 0 {
		c.ImageExtensions = texdoc.DefaultImageExtensions()
	}
	if len(c.ExtensionPreference) == 0 {
		c.ExtensionPreference = texdoc.DefaultExtensionPreference()
	}
	if c.RasterDPI == 0 {
		c.RasterDPI = 150
	}
	if c.RasterTimeout == 0 {
		c.RasterTimeout = 30 * time.Second
	}
	if c.PdftoppmPath == "" {
		c.PdftoppmPath = "pdftoppm"
	}
}
