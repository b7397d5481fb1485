// Package server exposes the extraction pipeline over HTTP: a multipart
// PDF upload endpoint plus a health check, with permissive CORS for the
// review frontend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arznote/arznote/internal/config"
	"github.com/arznote/arznote/internal/display"
	"github.com/arznote/arznote/internal/invoice"
	"github.com/arznote/arznote/internal/llm"
	"github.com/arznote/arznote/internal/metadata"
	"github.com/arznote/arznote/internal/pipeline"
	"github.com/arznote/arznote/internal/reader"
	"github.com/arznote/arznote/internal/validate"
)

// maxUploadBytes caps the in-memory size of a PDF upload.
const maxUploadBytes = 32 << 20

// Processor runs the extraction pipeline for one document.
type Processor interface {
	Process(ctx context.Context, data []byte, model string) (pipeline.Result, error)
}

// Server is the arznote HTTP server.
type Server struct {
	proc Processor
	meta *metadata.Store
	cfg  *config.Config
	mux  *http.ServeMux
}

// New creates a Server around a pipeline processor.
func New(proc Processor, meta *metadata.Store, cfg *config.Config) (*Server, error) {
	if proc == nil {
		return nil, errors.New("pipeline processor is required")
	}
	if cfg == nil {
		return nil, config.ErrNilConfig
	}
	s := &Server{
		proc: proc,
		meta: meta,
		cfg:  cfg,
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/extract", s.handleExtract)
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(loggingMiddleware(s.mux))
}

// extractResponse is the success payload for POST /extract.
type extractResponse struct {
	Filename    string           `json:"filename"`
	PDFType     reader.Type      `json:"pdf_type"`
	Model       string           `json:"model"`
	Invoice     *invoice.Invoice `json:"invoice"`
	Validation  validate.Report  `json:"validation"`
	GroundTruth metadata.Record  `json:"ground_truth"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' upload")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "only PDF files are supported")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	model := s.cfg.ResolveModel(r.FormValue("model"))

	res, err := s.proc.Process(r.Context(), data, model)
	switch {
	case errors.Is(err, reader.ErrUnreadable):
		writeError(w, http.StatusBadRequest, "unreadable PDF document")
		return
	case errors.Is(err, llm.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "extraction service unavailable")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if res.Invoice == nil {
		writeError(w, http.StatusUnprocessableEntity, "could not extract invoice data")
		return
	}

	groundTruth, err := s.meta.Lookup(header.Filename)
	if err != nil {
		// Ground truth is best effort; the extraction result still stands.
		display.Warn("ground truth lookup: " + err.Error())
		groundTruth = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(extractResponse{
		Filename:    header.Filename,
		PDFType:     res.PDFType,
		Model:       model,
		Invoice:     res.Invoice,
		Validation:  res.Validation,
		GroundTruth: groundTruth,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		display.LogRequest(r.Method, r.URL.Path, rec.status, time.Since(start), r.RemoteAddr)
	})
}
