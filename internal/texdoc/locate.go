package texdoc

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindMainFile walks the tree in lexical order and returns the first .tex
// file whose content mentions \documentclass. The boolean is false when the
// tree has no such file; that is a normal outcome, not an error.
func FindMainFile(root string) (string, bool) {
	for _, path := range ListTexFiles(root) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if strings.Contains(string(data), `\documentclass`) {
			return path, true
		}
	}
	return "", false
}

// ListTexFiles returns every .tex file under root, sorted by path.
func ListTexFiles(root string) []string {
	var files []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".tex") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files
}

// BuildImageIndex walks the tree once and indexes every file whose extension
// (case-insensitive) is in exts. Keys are relative paths with the extension
// removed and separators normalized; on a stem collision the later file wins.
func BuildImageIndex(root string, exts []string) ImageIndex {
	recognized := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		recognized[e] = struct{}{}
	}

	index := make(ImageIndex)
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := recognized[ext]; !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		index[key] = path
		return nil
	})
	return index
}
