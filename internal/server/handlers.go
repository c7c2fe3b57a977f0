package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/proposalcheck/internal/extract"
	"github.com/hyperifyio/proposalcheck/internal/report"
)

type textSubmission struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// handleSubmit accepts either a multipart upload in field "file" or a JSON
// body {"text": "..."} and queues a check job.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20)

	var (
		filename string
		data     []byte
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()
		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		filename = sanitizeFilename(header.Filename)
		if !extract.IsSupported(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
	case "application/json":
		var sub textSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return
		}
		filename = "submission.txt"
		if sub.Filename != "" {
			base := sanitizeFilename(sub.Filename)
			filename = strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
		}
		data = []byte(sub.Text)
	default:
		jsonError(w, "expected multipart/form-data or application/json", http.StatusUnsupportedMediaType)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	job := NewJob(uuid.NewString(), filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	log.Debug().Str("job_id", job.ID).Str("filename", filename).Int("bytes", len(data)).Msg("job queued")

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   job.Snapshot().Status,
		"poll_url": "/v1/checks/" + job.ID,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

var reportContentTypes = map[report.Format]string{
	report.FormatMarkdown: "text/markdown; charset=utf-8",
	report.FormatJSON:     "application/json",
	report.FormatPDF:      "application/pdf",
	report.FormatXLSX:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// handleReport renders a completed job in the format named by ?format=
// (md, json, pdf or xlsx; default md).
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	res, meta, ok := job.Outcome()
	if !ok {
		jsonError(w, "job is not completed", http.StatusConflict)
		return
	}
	format := report.Format(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = report.FormatMarkdown
	}
	ctype, known := reportContentTypes[format]
	if !known {
		jsonError(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}
	if format == report.FormatPDF && strings.TrimSpace(s.cfg.Report.PDF.FontPath) == "" {
		jsonError(w, "pdf reports need a configured pdf.font", http.StatusUnprocessableEntity)
		return
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, format, res, meta, s.cfg.Report); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Str("format", string(format)).Msg("render failed")
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ctype)
	if format == report.FormatPDF || format == report.FormatXLSX {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.%s"`, job.ID, format))
	}
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
