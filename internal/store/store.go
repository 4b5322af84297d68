// Package store is the data access layer for scout: harvested papers,
// extraction runs and the figures they saved, in one sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/scout/dbopen"
	"github.com/hazyhaar/scout/idgen"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

var newRunID = idgen.Prefixed("run_", idgen.UUIDv7())

// Store wraps the scout database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// InsertPapers records harvested papers, skipping ids already present, and
// returns how many rows were actually added.
func (s *Store) InsertPapers(ctx context.Context, papers []Paper) (int, error) {
	added := 0
	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		added = 0
		now := time.Now().UnixMilli()
		for _, p := range papers {
			harvestedAt := p.HarvestedAt
			if harvestedAt == 0 {
				harvestedAt = now
			}
			res, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO papers
				(arxiv_id, published, title, abstract, authors, affiliations, url, harvested_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ArxivID, p.Published, p.Title, p.Abstract, p.Authors, p.Affiliations, p.URL, harvestedAt)
			if err != nil {
				return fmt.Errorf("insert paper %s: %w", p.ArxivID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			added += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

const paperCols = `arxiv_id, published, title, abstract, authors, affiliations, url, harvested_at`

func scanPaper(r rowScanner) (*Paper, error) {
	var p Paper
	err := r.Scan(&p.ArxivID, &p.Published, &p.Title, &p.Abstract,
		&p.Authors, &p.Affiliations, &p.URL, &p.HarvestedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPaper retrieves one paper by arXiv id.
func (s *Store) GetPaper(ctx context.Context, arxivID string) (*Paper, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+paperCols+` FROM papers WHERE arxiv_id = ?`, arxivID)
	return scanPaper(row)
}

// ListPapers returns the most recently published papers.
func (s *Store) ListPapers(ctx context.Context, limit int) ([]*Paper, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+paperCols+` FROM papers ORDER BY published DESC, arxiv_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPapers(rows)
}

// ListPapersByDay returns papers published on one calendar day (yyyy-mm-dd).
func (s *Store) ListPapersByDay(ctx context.Context, day string) ([]*Paper, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+paperCols+` FROM papers WHERE published LIKE ? || '%' ORDER BY arxiv_id`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPapers(rows)
}

func collectPapers(rows *sql.Rows) ([]*Paper, error) {
	var papers []*Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// SearchPapers performs a FTS5 full-text search over titles and abstracts.
func (s *Store) SearchPapers(ctx context.Context, query string, limit int) ([]*SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT p.arxiv_id, p.title, p.abstract, rank
		FROM papers_fts f
		JOIN papers p ON p.rowid = f.rowid
		WHERE papers_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var hits []*SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.ArxivID, &h.Title, &h.Abstract, &h.Rank); err != nil {
			return nil, fmt.Errorf("store: scan search hit: %w", err)
		}
		hits = append(hits, &h)
	}
	return hits, rows.Err()
}

// StartRun records a new extraction run. A missing id or start time is
// filled in; the run starts in status running.
func (s *Store) StartRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = newRunID()
	}
	if run.Status == "" {
		run.Status = RunRunning
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().UnixMilli()
	}
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, arxiv_id, status, main_file, figures_found,
			figures_saved, figures_skipped, output_dir, error, started_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.ArxivID, run.Status, run.MainFile, run.FiguresFound,
			run.FiguresSaved, run.FiguresSkipped, run.OutputDir, run.Error, run.StartedAt)
		return err
	})
}

// FinishRun updates a run's outcome fields and stamps its finish time.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	now := time.Now().UnixMilli()
	run.FinishedAt = &now
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE runs SET status=?, main_file=?, figures_found=?, figures_saved=?,
			figures_skipped=?, output_dir=?, error=?, finished_at=?
			WHERE id=?`,
			run.Status, run.MainFile, run.FiguresFound, run.FiguresSaved,
			run.FiguresSkipped, run.OutputDir, run.Error, run.FinishedAt, run.ID)
		return err
	})
}

const runCols = `id, arxiv_id, status, main_file, figures_found, figures_saved,
	figures_skipped, output_dir, error, started_at, finished_at`

func scanRun(r rowScanner) (*Run, error) {
	var run Run
	var finished sql.NullInt64
	err := r.Scan(&run.ID, &run.ArxivID, &run.Status, &run.MainFile,
		&run.FiguresFound, &run.FiguresSaved, &run.FiguresSkipped,
		&run.OutputDir, &run.Error, &run.StartedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Int64
	}
	return &run, nil
}

// GetRun retrieves one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+runCols+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+runCols+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// InsertFigures records the figures a run saved. Missing ids are filled in.
func (s *Store) InsertFigures(ctx context.Context, figs []Figure) error {
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		for i := range figs {
			if figs[i].ID == "" {
				figs[i].ID = idgen.New()
			}
			f := figs[i]
			_, err := tx.ExecContext(ctx,
				`INSERT INTO figures (id, run_id, arxiv_id, number, caption, filename, path)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				f.ID, f.RunID, f.ArxivID, f.Number, f.Caption, f.Filename, f.Path)
			if err != nil {
				return fmt.Errorf("insert figure %d: %w", f.Number, err)
			}
		}
		return nil
	})
}

const figureCols = `id, run_id, arxiv_id, number, caption, filename, path`

func scanFigure(r rowScanner) (*Figure, error) {
	var f Figure
	err := r.Scan(&f.ID, &f.RunID, &f.ArxivID, &f.Number, &f.Caption, &f.Filename, &f.Path)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFigures returns a paper's figures across all runs, ordered by number.
func (s *Store) ListFigures(ctx context.Context, arxivID string) ([]*Figure, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+figureCols+` FROM figures WHERE arxiv_id = ? ORDER BY number, id`, arxivID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFigures(rows)
}

// ListRunFigures returns the figures one run saved, ordered by number.
func (s *Store) ListRunFigures(ctx context.Context, runID string) ([]*Figure, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+figureCols+` FROM figures WHERE run_id = ? ORDER BY number`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFigures(rows)
}

func collectFigures(rows *sql.Rows) ([]*Figure, error) {
	var figs []*Figure
	for rows.Next() {
		f, err := scanFigure(rows)
		if err != nil {
			return nil, err
		}
		figs = append(figs, f)
	}
	return figs, rows.Err()
}

// Totals returns aggregate counters.
func (s *Store) Totals(ctx context.Context) (*Totals, error) {
	var t Totals
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers`).Scan(&t.Papers); err != nil {
		return nil, err
	}
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&t.Runs); err != nil {
		return nil, err
	}
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM figures`).Scan(&t.Figures); err != nil {
		return nil, err
	}
	return &t, nil
}
