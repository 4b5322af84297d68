package texdoc

import (
	"regexp"
	"strings"
)

const (
	captionMax  = 120
	captionKeep = 117
)

var (
	reFigure   = regexp.MustCompile(`(?s)\\begin\{figure\*?\}(.*?)\\end\{figure\*?\}`)
	reGraphics = regexp.MustCompile(`\\includegraphics(?:\[.*?\])?\{([^}]+)\}`)
	reCaption  = regexp.MustCompile(`(?s)\\caption(?:\[.*?\])?\{(.+?)\}`)
	reCommand  = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
)

// ParseFigures scans the assembled text for figure and figure* environments
// in order of their opening marker. Numbering starts at 1 and counts every
// environment, including ones with no image reference, so downstream
// attrition stays visible. Bodies are bounded at the first matching end
// marker; nested figure environments are not supported.
func ParseFigures(text string) []Figure {
	var figures []Figure
	for i, m := range reFigure.FindAllStringSubmatch(text, -1) {
		body := m[1]

		var images []string
		for _, g := range reGraphics.FindAllStringSubmatch(body, -1) {
			images = append(images, g[1])
		}

		caption := ""
		if c := reCaption.FindStringSubmatch(body); c != nil {
			caption = cleanCaption(c[1])
		}

		figures = append(figures, Figure{
			Number:  i + 1,
			Images:  images,
			Caption: caption,
		})
	}
	return figures
}

// cleanCaption normalizes a raw caption argument: inline commands of the
// form \cmd{arg} are replaced by arg in a single pass (nested formatting is
// left as-is), leftover braces are dropped, whitespace runs collapse to
// single spaces, and anything past 120 characters is cut to 117 plus "...".
func cleanCaption(raw string) string {
	caption := strings.TrimSpace(raw)
	caption = reCommand.ReplaceAllString(caption, "$1")
	caption = strings.ReplaceAll(caption, "{", "")
	caption = strings.ReplaceAll(caption, "}", "")
	caption = strings.Join(strings.Fields(caption), " ")
	if runes := []rune(caption); len(runes) > captionMax {
		caption = string(runes[:captionKeep]) + "..."
	}
	return caption
}
