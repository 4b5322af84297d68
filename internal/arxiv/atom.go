package arxiv

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Entry is one paper from an API page, normalized for storage.
type Entry struct {
	// ArxivID is the last path segment of the entry's abs URL, kept
	// verbatim including any version suffix.
	ArxivID   string `json:"arxiv_id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Published string `json:"published"` // raw Atom timestamp

	// Authors and Affiliations are aligned: Affiliations[i] holds author
	// i's affiliations joined with "; ", or "" when none are listed.
	Authors      []string `json:"authors"`
	Affiliations []string `json:"affiliations"`

	AbsURL string `json:"url"`
}

// Page is one parsed API response.
type Page struct {
	TotalResults int     `json:"total_results"`
	Entries      []Entry `json:"entries"`
}

type atomFeed struct {
	XMLName      xml.Name    `xml:"feed"`
	TotalResults int         `xml:"totalResults"` // opensearch:totalResults
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name        string   `xml:"name"`
	Affiliation []string `xml:"affiliation"` // arxiv:affiliation
}

// ParsePage parses one Atom payload from the arXiv API. Entries whose id
// is not an abs URL (feed-level metadata) are dropped.
func ParsePage(data []byte) (*Page, error) {
	var root atomFeed
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("arxiv: parse atom: %w", err)
	}

	page := &Page{
		TotalResults: root.TotalResults,
		Entries:      make([]Entry, 0, len(root.Entries)),
	}

	for _, e := range root.Entries {
		absURL := strings.TrimSpace(e.ID)
		i := strings.LastIndex(absURL, "/abs/")
		if i < 0 {
			continue
		}
		id := absURL[i+len("/abs/"):]

		var authors, affiliations []string
		for _, a := range e.Authors {
			name := strings.TrimSpace(a.Name)
			if name == "" {
				continue
			}
			var affs []string
			for _, aff := range a.Affiliation {
				if aff = strings.TrimSpace(aff); aff != "" {
					affs = append(affs, aff)
				}
			}
			authors = append(authors, name)
			affiliations = append(affiliations, strings.Join(affs, "; "))
		}

		page.Entries = append(page.Entries, Entry{
			ArxivID:      id,
			Title:        collapseSpace(e.Title),
			Summary:      collapseSpace(e.Summary),
			Published:    strings.TrimSpace(e.Published),
			Authors:      authors,
			Affiliations: affiliations,
			AbsURL:       absURL,
		})
	}

	return page, nil
}

// PublishedDate reduces a raw Atom timestamp to its YYYY-MM-DD prefix,
// the key used for the output directory layout.
func PublishedDate(published string) string {
	if len(published) >= 10 {
		return published[:10]
	}
	return published
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
