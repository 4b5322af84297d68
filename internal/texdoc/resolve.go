package texdoc

import (
	"path"
	"strings"
)

// Resolve maps a raw image reference to an indexed file. Stages run in
// order, first match wins:
//
//  1. the reference as an exact key
//  2. the reference with leading "." and "/" characters stripped
//  3. each extension in prefExts appended to the stripped reference
//     (replacing any extension it already carries)
//  4. basename-only comparison against every key, unordered
//
// Archives routinely omit extensions, vary relative-path depth, or flatten
// directories on upload; the later stages tolerate that at the cost of
// ambiguity, which is resolved by taking the first hit.
func Resolve(ref string, images ImageIndex, prefExts []string) (string, bool) {
	if p, ok := images[ref]; ok {
		return p, true
	}

	clean := strings.TrimLeft(ref, "./")
	if p, ok := images[clean]; ok {
		return p, true
	}

	for _, ext := range prefExts {
		key := clean
		if !strings.HasSuffix(clean, ext) {
			key = clean + ext
		}
		keyNoExt := key
		if i := strings.LastIndex(key, "."); i >= 0 {
			keyNoExt = key[:i]
		}
		if p, ok := images[keyNoExt]; ok {
			return p, true
		}
	}

	base := path.Base(clean)
	baseNoExt := base
	if i := strings.LastIndex(base, "."); i >= 0 {
		baseNoExt = base[:i]
	}
	for key, p := range images {
		if path.Base(key) == baseNoExt {
			return p, true
		}
	}

	return "", false
}
