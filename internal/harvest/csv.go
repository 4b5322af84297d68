package harvest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var csvHeader = []string{"arxiv_id", "published", "title", "abstract", "authors", "affiliations", "url"}

// CSV is the append-only paper ledger. Rows are never rewritten; appending
// skips ids already present so re-harvesting a day is idempotent.
type CSV struct {
	path string
}

func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (c *CSV) Path() string { return c.path }

// ExistingIDs returns the ids already recorded. A missing file is an empty
// ledger, not an error.
func (c *CSV) ExistingIDs() (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return ids, nil
	}
	if err != nil {
		return nil, fmt.Errorf("harvest: open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return ids, nil
	}
	if err != nil {
		return nil, fmt.Errorf("harvest: read ledger header: %w", err)
	}

	idCol := -1
	for i, name := range header {
		if name == "arxiv_id" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("harvest: ledger %s has no arxiv_id column", c.path)
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("harvest: read ledger: %w", err)
		}
		if idCol < len(row) {
			ids[row[idCol]] = struct{}{}
		}
	}
	return ids, nil
}

// Append writes the papers not already present and returns how many were
// added. The header is written only when the file is new or empty.
func (c *CSV) Append(papers []PaperMeta) (int, error) {
	existing, err := c.ExistingIDs()
	if err != nil {
		return 0, err
	}

	var fresh []PaperMeta
	for _, p := range papers {
		if _, ok := existing[p.ArxivID]; !ok {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return 0, fmt.Errorf("harvest: create ledger dir: %w", err)
	}

	needHeader := true
	if fi, err := os.Stat(c.path); err == nil && fi.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("harvest: open ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(csvHeader); err != nil {
			return 0, fmt.Errorf("harvest: write ledger header: %w", err)
		}
	}
	for _, p := range fresh {
		row := []string{p.ArxivID, p.Published, p.Title, p.Abstract, p.Authors, p.Affiliations, p.URL}
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("harvest: write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("harvest: flush ledger: %w", err)
	}
	return len(fresh), nil
}
