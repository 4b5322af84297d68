package scout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	body := `
listen: ":9090"
db_path: /tmp/test/scout.db
category: cs.LG
max_figures: 5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9090" {
		t.Fatalf("listen: got %q", cfg.Listen)
	}
	if cfg.DBPath != "/tmp/test/scout.db" {
		t.Fatalf("db_path: got %q", cfg.DBPath)
	}
	if cfg.Category != "cs.LG" {
		t.Fatalf("category: got %q", cfg.Category)
	}
	if cfg.MaxFigures != 5 {
		t.Fatalf("max_figures: got %d", cfg.MaxFigures)
	}
	// Untouched keys keep their defaults.
	if cfg.LedgerPath != "data/abstracts.csv" {
		t.Fatalf("ledger_path default: got %q", cfg.LedgerPath)
	}
	if cfg.PageSize != 200 {
		t.Fatalf("page_size default: got %d", cfg.PageSize)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	if err := os.WriteFile(path, []byte(`db_path: ""`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "db_path") {
		t.Fatalf("error: got %v, want db_path validation", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name  string
		alter func(*Config)
		want  string
	}{
		{"no ledger", func(c *Config) { c.LedgerPath = "" }, "ledger_path"},
		{"no output root", func(c *Config) { c.OutputRoot = "" }, "output_root"},
		{"no category", func(c *Config) { c.Category = "" }, "category"},
		{"negative page size", func(c *Config) { c.PageSize = -1 }, "page_size"},
		{"negative figure cap", func(c *Config) { c.MaxFigures = -1 }, "max_figures"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.alter(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error: got %v, want mention of %s", err, tc.want)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
