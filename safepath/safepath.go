// Package safepath guards the filesystem surface of the service: arXiv
// identifier validation and sanitizing, path traversal checks for
// user-addressable files, and bounded I/O helpers.
package safepath

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// MaxIDLen is the maximum accepted length for an arXiv identifier. Real ids
// are well under this; anything longer is garbage input.
const MaxIDLen = 64

// ErrPathTraversal is returned when a user-supplied path escapes its base.
var ErrPathTraversal = errors.New("safepath: path traversal detected")

// ValidateID checks that id looks like an arXiv identifier: non-empty,
// bounded length, and built only from alphanumerics, dot, slash, hyphen and
// underscore. Both new-style (2301.12345v2) and old-style (hep-th/9901001)
// ids pass.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("safepath: identifier must not be empty")
	}
	if len(id) > MaxIDLen {
		return fmt.Errorf("safepath: identifier too long (max %d)", MaxIDLen)
	}
	if strings.Contains(id, "..") {
		return fmt.Errorf("safepath: identifier must not contain %q", "..")
	}
	for _, r := range id {
		if !isIDChar(r) {
			return fmt.Errorf("safepath: invalid character %q in identifier", r)
		}
	}
	return nil
}

// SanitizeID strips the characters that would fragment an output directory
// name: dots and slashes. "2301.12345" becomes "230112345", "hep-th/9901001"
// becomes "hep-th9901001". The result is stable for a given id.
func SanitizeID(id string) string {
	id = strings.ReplaceAll(id, ".", "")
	return strings.ReplaceAll(id, "/", "")
}

// SafePath validates that joining base and userInput does not escape base.
// Returns the cleaned absolute path or ErrPathTraversal.
func SafePath(base, userInput string) (string, error) {
	if strings.Contains(userInput, "..") {
		return "", ErrPathTraversal
	}
	// Clean both and verify the result stays under base.
	cleaned := filepath.Join(base, filepath.Clean("/"+userInput))
	if !strings.HasPrefix(cleaned, filepath.Clean(base)+string(filepath.Separator)) &&
		cleaned != filepath.Clean(base) {
		return "", ErrPathTraversal
	}
	return cleaned, nil
}

// LimitedReadAll reads at most maxBytes from r and errors past the limit.
func LimitedReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	lr := io.LimitReader(r, maxBytes+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("safepath: read exceeds %d bytes", maxBytes)
	}
	return data, nil
}

func isIDChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '.' || r == '/' || r == '-' || r == '_'
}
