package server

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// digestPolicy keeps the rendered digest to the tags goldmark emits:
// headings, paragraphs, links, images.
var digestPolicy = bluemonday.UGCPolicy()

// handleDigest renders a paper's digest.md as sanitized HTML. A <base> tag
// pointing into /files/ makes the relative image links resolve.
func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("id query parameter required"))
		return
	}

	path, err := s.svc.DigestPath(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	md, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no digest for %s; run an extraction first", id))
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("render digest: %w", err))
		return
	}

	base := ""
	if rel, err := filepath.Rel(s.svc.OutputRoot(), filepath.Dir(path)); err == nil {
		base = "/files/" + filepath.ToSlash(rel) + "/"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if base != "" {
		fmt.Fprintf(w, "<base href=%q>\n", base)
	}
	w.Write(digestPolicy.SanitizeBytes(buf.Bytes()))
}
