package scout

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/scout/internal/arxiv"
	"github.com/hazyhaar/scout/internal/figures"
	"github.com/hazyhaar/scout/internal/harvest"
)

// Config holds the full scout configuration.
type Config struct {
	Listen     string `yaml:"listen"`
	DBPath     string `yaml:"db_path"`
	LedgerPath string `yaml:"ledger_path"`
	OutputRoot string `yaml:"output_root"`
	// ScratchDir is where downloaded archives are unpacked before
	// extraction. Empty means the system temp dir.
	ScratchDir string `yaml:"scratch_dir"`

	Category string `yaml:"category"`
	PageSize int    `yaml:"page_size"`

	MaxFigures   int    `yaml:"max_figures"`
	RasterDPI    int    `yaml:"raster_dpi"`
	PdftoppmPath string `yaml:"pdftoppm_path"`

	QueryURL  string `yaml:"query_url"`
	SourceURL string `yaml:"source_url"`
	UserAgent string `yaml:"user_agent"`
	// RequestTimeout bounds a single HTTP request to arXiv.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:     ":8084",
		DBPath:     "data/scout.db",
		LedgerPath: "data/abstracts.csv",
		OutputRoot: "papers",
		Category:   "cs.AI",
		PageSize:   200,
		MaxFigures: 10,
		RasterDPI:  150,
	}
}

// LoadConfig reads and parses a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.LedgerPath == "" {
		return fmt.Errorf("ledger_path is required")
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("output_root is required")
	}
	if c.Category == "" {
		return fmt.Errorf("category is required")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must be >= 0")
	}
	if c.MaxFigures < 0 {
		return fmt.Errorf("max_figures must be >= 0")
	}
	return nil
}

func (c *Config) arxivConfig() arxiv.Config {
	return arxiv.Config{
		QueryURL:  c.QueryURL,
		SourceURL: c.SourceURL,
		UserAgent: c.UserAgent,
		Timeout:   c.RequestTimeout,
	}
}

func (c *Config) harvestConfig() harvest.Config {
	return harvest.Config{
		Category: c.Category,
		PageSize: c.PageSize,
	}
}

func (c *Config) figuresConfig() figures.Config {
	return figures.Config{
		OutputRoot:   c.OutputRoot,
		MaxFigures:   c.MaxFigures,
		RasterDPI:    c.RasterDPI,
		PdftoppmPath: c.PdftoppmPath,
	}
}
