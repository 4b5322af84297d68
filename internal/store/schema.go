package store

// Schema is the complete scout schema. Everything is IF NOT EXISTS so it
// can be applied on every open.
const Schema = `
-- Harvested paper metadata, one row per arXiv id
CREATE TABLE IF NOT EXISTS papers (
    arxiv_id     TEXT PRIMARY KEY,
    published    TEXT NOT NULL DEFAULT '',
    title        TEXT NOT NULL DEFAULT '',
    abstract     TEXT NOT NULL DEFAULT '',
    authors      TEXT NOT NULL DEFAULT '',
    affiliations TEXT NOT NULL DEFAULT '',
    url          TEXT NOT NULL DEFAULT '',
    harvested_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_papers_published ON papers(published DESC);

-- FTS5 on papers (title + abstract)
CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
    title, abstract, content='papers', content_rowid='rowid',
    tokenize='unicode61 remove_diacritics 2'
);

-- Triggers to keep FTS5 in sync
CREATE TRIGGER IF NOT EXISTS papers_ai AFTER INSERT ON papers BEGIN
    INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
END;
CREATE TRIGGER IF NOT EXISTS papers_ad AFTER DELETE ON papers BEGIN
    INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
END;
CREATE TRIGGER IF NOT EXISTS papers_au AFTER UPDATE ON papers BEGIN
    INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
    INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
END;

-- Extraction runs
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    arxiv_id        TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'running',
    main_file       TEXT NOT NULL DEFAULT '',
    figures_found   INTEGER NOT NULL DEFAULT 0,
    figures_saved   INTEGER NOT NULL DEFAULT 0,
    figures_skipped INTEGER NOT NULL DEFAULT 0,
    output_dir      TEXT NOT NULL DEFAULT '',
    error           TEXT NOT NULL DEFAULT '',
    started_at      INTEGER NOT NULL,
    finished_at     INTEGER
);
CREATE INDEX IF NOT EXISTS idx_runs_paper ON runs(arxiv_id, started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_time ON runs(started_at DESC);

-- Figures saved by runs
CREATE TABLE IF NOT EXISTS figures (
    id       TEXT PRIMARY KEY,
    run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    arxiv_id TEXT NOT NULL,
    number   INTEGER NOT NULL,
    caption  TEXT NOT NULL DEFAULT '',
    filename TEXT NOT NULL DEFAULT '',
    path     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_figures_run ON figures(run_id);
CREATE INDEX IF NOT EXISTS idx_figures_paper ON figures(arxiv_id, number);
`
