package store

// Run status values.
const (
	RunRunning = "running"
	RunDone    = "done"
	RunFailed  = "failed"
)

// Paper is one harvested paper row.
type Paper struct {
	ArxivID      string `json:"arxiv_id"`
	Published    string `json:"published"`
	Title        string `json:"title"`
	Abstract     string `json:"abstract"`
	Authors      string `json:"authors"`
	Affiliations string `json:"affiliations"`
	URL          string `json:"url"`
	HarvestedAt  int64  `json:"harvested_at"`
}

// Run is one extraction run.
type Run struct {
	ID             string `json:"id"`
	ArxivID        string `json:"arxiv_id"`
	Status         string `json:"status"`
	MainFile       string `json:"main_file"`
	FiguresFound   int    `json:"figures_found"`
	FiguresSaved   int    `json:"figures_saved"`
	FiguresSkipped int    `json:"figures_skipped"`
	OutputDir      string `json:"output_dir"`
	Error          string `json:"error"`
	StartedAt      int64  `json:"started_at"`
	FinishedAt     *int64 `json:"finished_at,omitempty"`
}

// Figure is one saved figure row.
type Figure struct {
	ID       string `json:"id"`
	RunID    string `json:"run_id"`
	ArxivID  string `json:"arxiv_id"`
	Number   int    `json:"number"`
	Caption  string `json:"caption"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// SearchHit is a FTS5 hit on papers.
type SearchHit struct {
	ArxivID  string  `json:"arxiv_id"`
	Title    string  `json:"title"`
	Abstract string  `json:"abstract"`
	Rank     float64 `json:"rank"`
}

// Totals aggregates store counters.
type Totals struct {
	Papers  int64 `json:"papers"`
	Runs    int64 `json:"runs"`
	Figures int64 `json:"figures"`
}
