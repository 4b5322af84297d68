package figures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DigestFilename is the markdown summary written next to saved figures.
const DigestFilename = "digest.md"

// WriteDigest renders a markdown summary of the run into its output
// directory and returns the file's path. Bitmap figures are embedded
// inline; PDF fallbacks get a plain link since most markdown renderers
// will not inline them.
func WriteDigest(res *Result, arxivID, title string) (string, error) {
	heading := strings.TrimSpace(title)
	if heading == "" {
		heading = arxivID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	fmt.Fprintf(&b, "arXiv:%s\n\n", arxivID)
	fmt.Fprintf(&b, "Figures: %d found, %d saved, %d skipped.\n", res.Found, len(res.Saved), res.Skipped)

	for _, fig := range res.Saved {
		fmt.Fprintf(&b, "\n## Figure %d\n\n", fig.Number)
		if strings.HasSuffix(fig.Filename, ".pdf") {
			fmt.Fprintf(&b, "[%s](%s)\n", fig.Filename, fig.Filename)
		} else {
			fmt.Fprintf(&b, "![Figure %d](%s)\n", fig.Number, fig.Filename)
		}
		if fig.Caption != "" {
			fmt.Fprintf(&b, "\n%s\n", fig.Caption)
		}
	}

	path := filepath.Join(res.OutputDir, DigestFilename)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("figures: write digest: %w", err)
	}
	return path, nil
}
