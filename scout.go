// Package scout harvests arXiv paper metadata and extracts the figures of
// papers from their LaTeX sources.
//
// The service pages per-day metadata out of the arXiv API into a CSV ledger
// and an SQLite database, then runs extractions: download the e-print
// archive, unpack it into a scratch directory, assemble the TeX document
// from its root file, parse the figure environments and save the referenced
// images under an output tree keyed by publication date and identifier. PDF
// graphics are rasterized to PNG on the way out, and every extraction is
// recorded as a run together with its saved figures.
package scout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/scout/internal/arxiv"
	"github.com/hazyhaar/scout/internal/figures"
	"github.com/hazyhaar/scout/internal/harvest"
	"github.com/hazyhaar/scout/internal/store"
	"github.com/hazyhaar/scout/internal/unpack"
	"github.com/hazyhaar/scout/kit"
	"github.com/hazyhaar/scout/safepath"
)

// SourceClient abstracts the arXiv API for testability.
type SourceClient interface {
	Query(ctx context.Context, req arxiv.QueryRequest) (*arxiv.Page, error)
	DownloadSource(ctx context.Context, id string) ([]byte, error)
}

// Service is the main scout orchestrator.
type Service struct {
	db        *sql.DB
	store     *store.Store
	client    SourceClient
	harvester *harvest.Harvester
	ledger    *harvest.CSV
	pipeline  *figures.Pipeline
	config    *Config
	logger    *slog.Logger
}

// New creates a scout Service on an open database handle. The handle must
// already have the store schema applied (dbopen.WithSchema(store.Schema)).
func New(db *sql.DB, cfg *Config, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("scout: nil database handle")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scout: config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{
		db:       db,
		store:    store.NewStore(db),
		client:   arxiv.New(cfg.arxivConfig()),
		ledger:   harvest.NewCSV(cfg.LedgerPath),
		pipeline: figures.New(cfg.figuresConfig(), logger),
		config:   cfg,
		logger:   logger,
	}

	// Apply options before building the harvester so a swapped client is
	// the one paginating.
	for _, opt := range opts {
		opt(svc)
	}
	svc.harvester = harvest.New(svc.client, cfg.harvestConfig(), logger)

	return svc, nil
}

// ServiceOption configures a Service during creation.
type ServiceOption func(*Service)

// WithSourceClient replaces the arXiv client. Tests inject fakes here.
func WithSourceClient(c SourceClient) ServiceOption {
	return func(svc *Service) { svc.client = c }
}

// --- Harvest ---

// HarvestDay fetches every paper submitted in the configured category on the
// given calendar day (GMT), appends the new ones to the CSV ledger and
// inserts them into the database.
func (svc *Service) HarvestDay(ctx context.Context, day time.Time) (*HarvestReport, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: harvest day required", ErrInvalidInput)
	}

	papers, err := svc.harvester.Run(ctx, day)
	if err != nil {
		return nil, err
	}

	appended, err := svc.ledger.Append(papers)
	if err != nil {
		return nil, fmt.Errorf("scout: ledger append: %w", err)
	}

	rows := make([]store.Paper, 0, len(papers))
	for _, p := range papers {
		rows = append(rows, store.Paper{
			ArxivID:      p.ArxivID,
			Published:    p.Published,
			Title:        p.Title,
			Abstract:     p.Abstract,
			Authors:      p.Authors,
			Affiliations: p.Affiliations,
			URL:          p.URL,
		})
	}
	added, err := svc.store.InsertPapers(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("scout: record papers: %w", err)
	}

	report := &HarvestReport{
		Day:      day.Format("2006-01-02"),
		Fetched:  len(papers),
		Appended: appended,
		Added:    added,
		Ledger:   svc.ledger.Path(),
	}
	svc.logger.Info("harvest complete",
		"day", report.Day, "fetched", report.Fetched, "added", report.Added)
	return report, nil
}

// --- Extraction ---

// Extract downloads the e-print source for one paper, assembles its TeX
// document and saves the figures it references. The published date decides
// the output directory; the title only decorates the digest. Every call is
// recorded as a run, failed or not.
func (svc *Service) Extract(ctx context.Context, arxivID, publishedDate, title string) (*RunReport, error) {
	fetch := func(ctx context.Context) ([]byte, error) {
		data, err := svc.client.DownloadSource(ctx, arxivID)
		if err != nil {
			return nil, fmt.Errorf("scout: download %s: %w", arxivID, err)
		}
		return data, nil
	}
	return svc.extractWith(ctx, arxivID, publishedDate, title, fetch)
}

// ExtractArchive runs the figure pipeline on an already-downloaded archive
// file instead of fetching the e-print over the network.
func (svc *Service) ExtractArchive(ctx context.Context, arxivID, archivePath, publishedDate, title string) (*RunReport, error) {
	fetch := func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(archivePath)
		if err != nil {
			return nil, fmt.Errorf("scout: read archive: %w", err)
		}
		return data, nil
	}
	return svc.extractWith(ctx, arxivID, publishedDate, title, fetch)
}

// FetchSource downloads the raw e-print archive bytes for one paper without
// running an extraction.
func (svc *Service) FetchSource(ctx context.Context, arxivID string) ([]byte, error) {
	if err := safepath.ValidateID(arxivID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return svc.client.DownloadSource(ctx, arxivID)
}

func (svc *Service) extractWith(ctx context.Context, arxivID, publishedDate, title string, fetch func(context.Context) ([]byte, error)) (*RunReport, error) {
	if err := safepath.ValidateID(arxivID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := time.Parse("2006-01-02", publishedDate); err != nil {
		return nil, fmt.Errorf("%w: published date %q (want YYYY-MM-DD)", ErrInvalidInput, publishedDate)
	}

	run := &store.Run{ArxivID: arxivID}
	if err := svc.store.StartRun(ctx, run); err != nil {
		return nil, fmt.Errorf("scout: start run: %w", err)
	}
	ctx = kit.WithRunID(ctx, run.ID)
	log := svc.logger.With("run_id", run.ID, "arxiv_id", arxivID)

	report, err := svc.runExtraction(ctx, run, arxivID, publishedDate, title, fetch, log)
	if err != nil {
		run.Status = store.RunFailed
		run.Error = err.Error()
		if ferr := svc.store.FinishRun(ctx, run); ferr != nil {
			log.Error("finish failed run", "error", ferr)
		}
		log.Warn("extraction failed", "error", err)
		return nil, err
	}
	return report, nil
}

func (svc *Service) runExtraction(ctx context.Context, run *store.Run, arxivID, publishedDate, title string, fetch func(context.Context) ([]byte, error), log *slog.Logger) (*RunReport, error) {
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(svc.config.ScratchDir, "scout-src-*")
	if err != nil {
		return nil, fmt.Errorf("scout: scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	unpacked, err := unpack.Unpack(data, scratch)
	if err != nil {
		return nil, fmt.Errorf("scout: unpack %s: %w", arxivID, err)
	}
	log.Debug("source unpacked", "format", unpacked.Format, "files", unpacked.Files)

	res, err := svc.pipeline.Extract(ctx, scratch, arxivID, publishedDate)
	if err != nil {
		return nil, err
	}

	digestPath, err := figures.WriteDigest(res, arxivID, title)
	if err != nil {
		// The figures themselves landed; a missing digest is not worth
		// failing the run over.
		log.Warn("digest not written", "error", err)
		digestPath = ""
	}

	figs := make([]store.Figure, 0, len(res.Saved))
	for _, f := range res.Saved {
		figs = append(figs, store.Figure{
			RunID:    run.ID,
			ArxivID:  arxivID,
			Number:   f.Number,
			Caption:  f.Caption,
			Filename: f.Filename,
			Path:     f.Path,
		})
	}
	if err := svc.store.InsertFigures(ctx, figs); err != nil {
		return nil, fmt.Errorf("scout: record figures: %w", err)
	}

	run.Status = store.RunDone
	run.MainFile = res.MainFile
	run.FiguresFound = res.Found
	run.FiguresSaved = len(res.Saved)
	run.FiguresSkipped = res.Skipped
	run.OutputDir = res.OutputDir
	if err := svc.store.FinishRun(ctx, run); err != nil {
		return nil, fmt.Errorf("scout: finish run: %w", err)
	}

	log.Info("extraction complete",
		"found", res.Found, "saved", len(res.Saved), "output_dir", res.OutputDir)
	return &RunReport{Run: *run, Digest: digestPath}, nil
}

// ExtractPaper runs an extraction for a previously harvested paper, taking
// the published date and title from the database.
func (svc *Service) ExtractPaper(ctx context.Context, arxivID string) (*RunReport, error) {
	p, err := svc.store.GetPaper(ctx, arxivID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s (harvest its day first)", ErrUnknownPaper, arxivID)
	}
	if err != nil {
		return nil, err
	}
	return svc.Extract(ctx, p.ArxivID, arxiv.PublishedDate(p.Published), p.Title)
}

// ExtractDay runs extractions for every paper harvested on the given day.
// Individual failures are counted and skipped; on context cancellation the
// partial report is returned alongside the error.
func (svc *Service) ExtractDay(ctx context.Context, day time.Time) (*DayReport, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: extraction day required", ErrInvalidInput)
	}

	papers, err := svc.store.ListPapersByDay(ctx, day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	report := &DayReport{Day: day.Format("2006-01-02"), Papers: len(papers)}
	for _, p := range papers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rr, err := svc.Extract(ctx, p.ArxivID, arxiv.PublishedDate(p.Published), p.Title)
		if err != nil {
			report.Failed++
			continue
		}
		report.Done++
		report.Figures += rr.Run.FiguresSaved
	}

	svc.logger.Info("day extraction complete",
		"day", report.Day, "papers", report.Papers, "done", report.Done, "failed", report.Failed)
	return report, nil
}

// --- Reads ---

// Papers lists harvested papers, newest first.
func (svc *Service) Papers(ctx context.Context, limit int) ([]*Paper, error) {
	return svc.store.ListPapers(ctx, limit)
}

// Paper returns one harvested paper, or ErrNotFound.
func (svc *Service) Paper(ctx context.Context, arxivID string) (*Paper, error) {
	return svc.store.GetPaper(ctx, arxivID)
}

// PapersByDay lists papers published on a YYYY-MM-DD day.
func (svc *Service) PapersByDay(ctx context.Context, day string) ([]*Paper, error) {
	return svc.store.ListPapersByDay(ctx, day)
}

// Search runs a full-text query over paper titles and abstracts.
func (svc *Service) Search(ctx context.Context, query string, limit int) ([]*SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}
	return svc.store.SearchPapers(ctx, query, limit)
}

// Figures lists the saved figures of one paper across all its runs.
func (svc *Service) Figures(ctx context.Context, arxivID string) ([]*Figure, error) {
	return svc.store.ListFigures(ctx, arxivID)
}

// Runs lists extraction runs, newest first.
func (svc *Service) Runs(ctx context.Context, limit int) ([]*Run, error) {
	return svc.store.ListRuns(ctx, limit)
}

// Run returns one extraction run, or ErrNotFound.
func (svc *Service) Run(ctx context.Context, id string) (*Run, error) {
	return svc.store.GetRun(ctx, id)
}

// RunFigures lists the figures saved by one run.
func (svc *Service) RunFigures(ctx context.Context, runID string) ([]*Figure, error) {
	return svc.store.ListRunFigures(ctx, runID)
}

// Stats returns store-wide counters.
func (svc *Service) Stats(ctx context.Context) (*Stats, error) {
	return svc.store.Totals(ctx)
}

// DigestPath returns where the digest of a harvested paper's extraction
// lives. The file only exists once an extraction has run.
func (svc *Service) DigestPath(ctx context.Context, arxivID string) (string, error) {
	p, err := svc.store.GetPaper(ctx, arxivID)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrUnknownPaper, arxivID)
	}
	if err != nil {
		return "", err
	}
	dir := svc.pipeline.OutputDir(arxiv.PublishedDate(p.Published), p.ArxivID)
	return filepath.Join(dir, figures.DigestFilename), nil
}

// OutputRoot is the directory tree extraction runs write into.
func (svc *Service) OutputRoot() string {
	return svc.config.OutputRoot
}

// Close shuts down the service.
func (svc *Service) Close() error {
	svc.logger.Info("scout: closed")
	return nil
}
