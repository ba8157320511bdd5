package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// handleGetChart serves a rendered chart file. Filenames are a chart UUID
// plus a .png or .svg extension; anything else is rejected before touching
// the filesystem.
func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	ext := filepath.Ext(filename)
	if ext != ".png" && ext != ".svg" {
		err := &ErrChartNotFound{Filename: filename}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	id := strings.TrimSuffix(filename, ext)
	if _, err := uuid.Parse(id); err != nil {
		wrapped := &ErrChartNotFound{Filename: filename}
		s.errorResponse(w, HTTPStatus(wrapped), wrapped.Error())
		return
	}

	path := filepath.Join(s.renderer.Dir(), filename)
	if _, err := os.Stat(path); err != nil {
		wrapped := &ErrChartNotFound{Filename: filename}
		s.errorResponse(w, HTTPStatus(wrapped), wrapped.Error())
		return
	}

	if ext == ".png" {
		w.Header().Set("Content-Type", "image/png")
	} else {
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	http.ServeFile(w, r, path)
}
