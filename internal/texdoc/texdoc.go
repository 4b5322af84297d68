// Package texdoc reconstructs a logical LaTeX document from an unpacked
// source tree and pulls figure environments out of it.
//
// The package understands exactly three pieces of LaTeX: \input/\include
// directives, figure/figure* environments, and \includegraphics/\caption
// markup inside them. It does not typeset, it does not validate, and it
// treats everything else as opaque text.
package texdoc

// ImageIndex maps a normalized stem key (path relative to the tree root,
// extension stripped, separators as "/") to the absolute file path.
// Built once per run; read-only afterward.
type ImageIndex map[string]string

// DefaultImageExtensions lists the file types indexed as figure candidates.
func DefaultImageExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".pdf", ".eps", ".svg", ".gif", ".bmp", ".tiff"}
}

// DefaultExtensionPreference orders the probes used when a reference does
// not resolve as written.
func DefaultExtensionPreference() []string {
	return []string{".png", ".pdf", ".jpg", ".jpeg", ".eps", ".svg"}
}

// Figure is one figure environment in document order.
type Figure struct {
	Number  int      `json:"number"`
	Images  []string `json:"images"` // raw \includegraphics references, in order
	Caption string   `json:"caption"`
}
