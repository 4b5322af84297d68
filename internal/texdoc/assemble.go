package texdoc

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var reInclude = regexp.MustCompile(`\\(?:input|include)\{([^}]+)\}`)

// Assemble reads mainFile and recursively splices every \input/\include
// target in place of its directive, depth-first. Each file expands at most
// once per call: a visited set keyed by canonical path guards against
// cycles, so self-inclusion terminates with the repeated expansion empty.
// Unreadable files expand to empty text rather than failing the assembly.
func Assemble(mainFile, root string) string {
	return assemble(mainFile, root, make(map[string]struct{}))
}

func assemble(path, root string, visited map[string]struct{}) string {
	canon := canonical(path)
	if _, ok := visited[canon]; ok {
		return ""
	}
	visited[canon] = struct{}{}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	content := string(data)

	var sb strings.Builder
	last := 0
	for _, m := range reInclude.FindAllStringSubmatchIndex(content, -1) {
		sb.WriteString(content[last:m[0]])
		ref := content[m[2]:m[3]]
		if child, ok := findIncluded(ref, filepath.Dir(path), root); ok {
			sb.WriteString(assemble(child, root, visited))
		}
		last = m[1]
	}
	sb.WriteString(content[last:])
	return sb.String()
}

// findIncluded resolves an inclusion reference to a file, trying the
// including file's directory before the tree root, each with and without
// a .tex extension appended.
func findIncluded(ref, parent, root string) (string, bool) {
	candidates := []string{
		filepath.Join(parent, ref),
		filepath.Join(parent, ref+".tex"),
		filepath.Join(root, ref),
		filepath.Join(root, ref+".tex"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

// AssembleAll concatenates every .tex file in the tree, sorted by path, each
// followed by a newline. It is the fallback when no file carries a
// \documentclass declaration.
func AssembleAll(root string) string {
	var sb strings.Builder
	for _, path := range ListTexFiles(root) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
