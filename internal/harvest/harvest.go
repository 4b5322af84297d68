// Package harvest pulls one calendar day of paper metadata from the arXiv
// API and records it in an append-only CSV ledger.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/scout/internal/arxiv"
)

// Querier is the slice of the arXiv client the harvester needs.
type Querier interface {
	Query(ctx context.Context, req arxiv.QueryRequest) (*arxiv.Page, error)
}

// PaperMeta is one harvested paper, flattened to the ledger's row shape.
type PaperMeta struct {
	ArxivID      string `json:"arxiv_id"`
	Published    string `json:"published"`
	Title        string `json:"title"`
	Abstract     string `json:"abstract"`
	Authors      string `json:"authors"`      // " | " separated
	Affiliations string `json:"affiliations"` // " | " separated, slots align with authors
	URL          string `json:"url"`
}

// FromEntry flattens an API entry into its ledger row.
func FromEntry(e arxiv.Entry) PaperMeta {
	return PaperMeta{
		ArxivID:      e.ArxivID,
		Published:    e.Published,
		Title:        e.Title,
		Abstract:     e.Summary,
		Authors:      strings.Join(e.Authors, " | "),
		Affiliations: strings.Join(e.Affiliations, " | "),
		URL:          e.AbsURL,
	}
}

// Config controls pagination.
type Config struct {
	// Category is the arXiv category queried. Default: cs.AI.
	Category string
	// PageSize is results per request. Default: 200.
	PageSize int
	// PagePause is the courtesy wait between successive pages. Default: 3s.
	PagePause time.Duration
}

func (c *Config) defaults() {
	if c.Category == "" {
		c.Category = "cs.AI"
	}
	if c.PageSize <= 0 {
		c.PageSize = 200
	}
	if c.PagePause <= 0 {
		c.PagePause = 3 * time.Second
	}
}

// Harvester pages through one day of API results.
type Harvester struct {
	client Querier
	config Config
	logger *slog.Logger
}

func New(client Querier, config Config, logger *slog.Logger) *Harvester {
	config.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Harvester{client: client, config: config, logger: logger}
}

// Run fetches every paper submitted in the category on the given day.
// Pagination stops when the reported total is reached or a page comes back
// empty; any page failing past the client's retries aborts the harvest.
func (h *Harvester) Run(ctx context.Context, day time.Time) ([]PaperMeta, error) {
	var papers []PaperMeta
	start := 0
	for {
		page, err := h.client.Query(ctx, arxiv.QueryRequest{
			Category: h.config.Category,
			Day:      day,
			Start:    start,
			Max:      h.config.PageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("harvest: page at %d: %w", start, err)
		}

		for _, e := range page.Entries {
			papers = append(papers, FromEntry(e))
		}
		h.logger.Debug("harvested page",
			"start", start,
			"entries", len(page.Entries),
			"total", page.TotalResults)

		if start+h.config.PageSize >= page.TotalResults || len(page.Entries) == 0 {
			break
		}
		start += h.config.PageSize
		if err := sleepCtx(ctx, h.config.PagePause); err != nil {
			return nil, err
		}
	}

	h.logger.Info("harvest finished",
		"category", h.config.Category,
		"day", day.Format("2006-01-02"),
		"papers", len(papers))
	return papers, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
