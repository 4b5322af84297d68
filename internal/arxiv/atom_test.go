package arxiv

import "testing"

const samplePage = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title type="html">ArXiv Query: search_query=cat:cs.AI</title>
  <id>http://arxiv.org/api/cHxbiOdZaP56ODnBPIenZhzg5f8</id>
  <opensearch:totalResults>42715</opensearch:totalResults>
  <opensearch:startIndex>0</opensearch:startIndex>
  <opensearch:itemsPerPage>2</opensearch:itemsPerPage>
  <entry>
    <id>http://arxiv.org/abs/2401.12345v2</id>
    <published>2024-01-22T18:59:02Z</published>
    <title>Answer  Set
 Programming for Planning</title>
    <summary>  We study
  planning under uncertainty.
  </summary>
    <author><name>Ada Lovelace</name><arxiv:affiliation>Analytical Society</arxiv:affiliation><arxiv:affiliation>Academy</arxiv:affiliation></author>
    <author><name>Alan Turing</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.99999v1</id>
    <published>2024-01-21T09:00:00Z</published>
    <title>A Second Paper</title>
    <summary>Nothing here.</summary>
    <author><name>Grace Hopper</name></author>
  </entry>
</feed>`

func TestParsePage(t *testing.T) {
	page, err := ParsePage([]byte(samplePage))
	if err != nil {
		t.Fatalf("ParsePage: %v", err)
	}

	if page.TotalResults != 42715 {
		t.Fatalf("total results: got %d, want 42715", page.TotalResults)
	}
	if len(page.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(page.Entries))
	}

	e := page.Entries[0]
	if e.ArxivID != "2401.12345v2" {
		t.Errorf("arxiv id: got %q, want %q", e.ArxivID, "2401.12345v2")
	}
	if e.Title != "Answer Set Programming for Planning" {
		t.Errorf("title not whitespace-collapsed: %q", e.Title)
	}
	if e.Summary != "We study planning under uncertainty." {
		t.Errorf("summary not whitespace-collapsed: %q", e.Summary)
	}
	if e.AbsURL != "http://arxiv.org/abs/2401.12345v2" {
		t.Errorf("abs url: got %q", e.AbsURL)
	}
	if len(e.Authors) != 2 || e.Authors[0] != "Ada Lovelace" || e.Authors[1] != "Alan Turing" {
		t.Errorf("authors: got %v", e.Authors)
	}
	if len(e.Affiliations) != 2 {
		t.Fatalf("affiliations should align with authors: got %v", e.Affiliations)
	}
	if e.Affiliations[0] != "Analytical Society; Academy" {
		t.Errorf("first affiliation slot: got %q", e.Affiliations[0])
	}
	if e.Affiliations[1] != "" {
		t.Errorf("unlisted affiliation should be empty, got %q", e.Affiliations[1])
	}

	second := page.Entries[1]
	if second.ArxivID != "2401.99999v1" {
		t.Errorf("second arxiv id: got %q", second.ArxivID)
	}
	if len(second.Authors) != 1 || len(second.Affiliations) != 1 || second.Affiliations[0] != "" {
		t.Errorf("second entry authors=%v affiliations=%v", second.Authors, second.Affiliations)
	}
}

// The feed-level id element is not an entry and paging metadata carries no
// abs URL; both must be ignored rather than parsed into phantom papers.
func TestParsePage_SkipsNonPaperEntries(t *testing.T) {
	const page = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incomplete_query</id>
    <title>Error</title>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2402.00001v1</id>
    <title>Real Paper</title>
  </entry>
</feed>`

	parsed, err := ParsePage([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Entries) != 1 || parsed.Entries[0].ArxivID != "2402.00001v1" {
		t.Fatalf("entries: %+v", parsed.Entries)
	}
}

func TestParsePage_Invalid(t *testing.T) {
	if _, err := ParsePage([]byte("not xml at all <<<")); err == nil {
		t.Fatal("expected error for invalid XML")
	}
}

func TestPublishedDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-01-22T18:59:02Z", "2024-01-22"},
		{"2024-01-22", "2024-01-22"},
		{"short", "short"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PublishedDate(tt.in); got != tt.want {
			t.Errorf("PublishedDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
