package scout

import (
	"github.com/hazyhaar/scout/internal/harvest"
	"github.com/hazyhaar/scout/internal/store"
)

// Re-export store types for the public API.
type (
	Paper     = store.Paper
	Run       = store.Run
	Figure    = store.Figure
	SearchHit = store.SearchHit
	Stats     = store.Totals
	PaperMeta = harvest.PaperMeta
)

// Run status values.
const (
	RunRunning = store.RunRunning
	RunDone    = store.RunDone
	RunFailed  = store.RunFailed
)

// HarvestReport summarises one HarvestDay call.
type HarvestReport struct {
	Day string `json:"day"`
	// Fetched is how many entries the API returned for the day.
	Fetched int `json:"fetched"`
	// Appended is how many rows were new to the CSV ledger.
	Appended int `json:"appended"`
	// Added is how many rows were new to the database.
	Added  int    `json:"added"`
	Ledger string `json:"ledger"`
}

// RunReport summarises one extraction run.
type RunReport struct {
	Run    Run    `json:"run"`
	Digest string `json:"digest,omitempty"`
}

// DayReport summarises an ExtractDay sweep.
type DayReport struct {
	Day     string `json:"day"`
	Papers  int    `json:"papers"`
	Done    int    `json:"done"`
	Failed  int    `json:"failed"`
	Figures int    `json:"figures"`
}
