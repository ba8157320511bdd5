package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/chart-agent/internal/ingest"
	"github.com/jonathan/chart-agent/internal/resolver"
	"github.com/jonathan/chart-agent/internal/types"
)

// maxUploadSize caps uploaded spreadsheets at 10MB.
const maxUploadSize = 10 << 20

// handleUpload accepts an Excel file and renders a chart from its contents.
// Two-column sheets are charted directly; anything else goes through the
// resolver with a text rendering of the sheet.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		wrapped := &ErrFileTooLarge{Size: r.ContentLength, Limit: maxUploadSize}
		s.errorResponse(w, HTTPStatus(wrapped), wrapped.Error())
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		err := &ErrValidation{Field: "session_id", Message: "is required"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		wrapped := &ErrValidation{Field: "file", Message: "is required"}
		s.errorResponse(w, HTTPStatus(wrapped), wrapped.Error())
		return
	}
	defer file.Close()

	name := header.Filename
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
		wrapped := &ErrUnsupportedFile{Filename: name}
		s.errorResponse(w, HTTPStatus(wrapped), wrapped.Error())
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	if err := s.store.Touch(sessionID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	sessionStyle, err := s.store.Style(sessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	history, err := s.store.History(sessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.store.Append(sessionID, types.RoleUser, "Uploaded Excel file: "+name, nil); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	wb, err := ingest.ParseWorkbook(bytes.NewReader(content))
	if err != nil {
		text := fmt.Sprintf("Error reading Excel file: %v", err)
		s.appendAssistant(sessionID, text, nil)
		s.jsonResponse(w, http.StatusOK, &types.ChatResponse{Response: text})
		return
	}

	in := resolver.Input{SourceName: name}
	source := "excel_auto_detect"
	det, detected := wb.AutoDetect()
	if detected {
		in.Table = det.Pairs
		in.Text = "Create a chart from " + name
	} else {
		in.Text = "Create a chart from this Excel data:\n" + wb.Text()
		source = "excel_ai_interpret"
	}

	rec, err := s.resolver.Resolve(r.Context(), in, history)
	if err != nil {
		wrapped := &ErrResolverUnavailable{Err: err}
		s.errorResponse(w, HTTPStatus(wrapped), wrapped.Error())
		return
	}
	if rec.IsValid {
		// Column headers from the sheet beat generated axis labels.
		if detected && det.XLabel != "" {
			rec.XLabel = det.XLabel
		}
		if detected && det.YLabel != "" {
			rec.YLabel = det.YLabel
		}
		if rec.Title == "" {
			rec.Title = "Chart from " + name
		}
	}

	resp := s.completeChart(sessionID, rec, sessionStyle, source)
	s.jsonResponse(w, http.StatusOK, resp)
}
