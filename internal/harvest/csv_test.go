package harvest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestCSVAppend_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "abstracts.csv")
	ledger := NewCSV(path)

	added, err := ledger.Append(samplePapers())
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Fatalf("added: got %d, want 2", added)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want header plus 2", len(rows))
	}
	for i, name := range csvHeader {
		if rows[0][i] != name {
			t.Fatalf("header: %v", rows[0])
		}
	}
	if rows[1][0] != "2401.00001" || rows[2][0] != "2401.00002" {
		t.Fatalf("ids: %v %v", rows[1][0], rows[2][0])
	}
	if rows[1][2] != `Paper 1, with a "quoted" comma` {
		t.Fatalf("title should round-trip quoting: %q", rows[1][2])
	}
}

func TestCSVAppend_Dedupes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abstracts.csv")
	ledger := NewCSV(path)
	papers := samplePapers()

	if _, err := ledger.Append(papers); err != nil {
		t.Fatal(err)
	}
	added, err := ledger.Append(papers)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Fatalf("re-appending identical papers added %d", added)
	}

	papers = append(papers, PaperMeta{ArxivID: "2401.00003", Title: "New"})
	added, err = ledger.Append(papers)
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Fatalf("added: got %d, want 1", added)
	}

	rows := readRows(t, path)
	if len(rows) != 4 {
		t.Fatalf("rows: got %d, want 4", len(rows))
	}
	if rows[3][0] != "2401.00003" {
		t.Fatalf("new row should append at the end: %v", rows[3])
	}
	if rows[1][0] != "2401.00001" {
		t.Fatalf("existing rows must be preserved: %v", rows[1])
	}
}

func TestCSVExistingIDs_MissingFile(t *testing.T) {
	ledger := NewCSV(filepath.Join(t.TempDir(), "nope.csv"))
	ids, err := ledger.ExistingIDs()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids: %v", ids)
	}
}

func TestCSVExistingIDs_NoIDColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weird.csv")
	if err := os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCSV(path).ExistingIDs(); err == nil {
		t.Fatal("expected error for a ledger without arxiv_id")
	}
}

func TestCSVAppend_EmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abstracts.csv")
	added, err := NewCSV(path).Append(nil)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Fatalf("added: %d", added)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no file should be created when nothing is appended")
	}
}
