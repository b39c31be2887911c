package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/auditops/manday-planner/pkg/core/services"
	"github.com/auditops/manday-planner/pkg/core/tables"
)

// maxUploadBytes caps workbook uploads.
const maxUploadBytes = 32 << 20

// filenameSanitizer collapses anything outside the safe character set.
var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type runResponse struct {
	services.SummaryPayload
	RunID       string `json:"run_id,omitempty"`
	ResultsFile string `json:"results_file"`
	LogFile     string `json:"log_file"`
	ResultsURL  string `json:"results_url"`
	LogURL      string `json:"log_url"`
}

type runRecord struct {
	ID                 string    `json:"id"`
	SourceFile         string    `json:"source_file"`
	TotalMandays       float64   `json:"total_mandays"`
	MandaysAllocated   float64   `json:"total_mandays_allocated"`
	MandaysUsed        float64   `json:"total_mandays_used"`
	OverallUtilization float64   `json:"overall_utilization"`
	SelectedUnits      int       `json:"selected_units"`
	CreatedAt          time.Time `json:"created_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRun accepts a multipart workbook upload, runs the optimizer, and
// responds with the summary payload plus artifact download locations.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing workbook upload: provide a 'file' form field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	sourceName := sanitizeFilename(header.Filename)

	result, err := services.RunPlan(r.Context(), s.store, s.logger, s.cfg, services.RunPlanInput{
		WorkbookBytes: data,
		SourceName:    sourceName,
		Persist:       true,
	})
	if err != nil {
		s.logger.Error("Run failed", zap.String("source", sourceName), zap.Error(err))
		if errors.Is(err, tables.ErrNoTotalMandays) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, runResponse{
		SummaryPayload: services.BuildSummaryPayload(result.Summary),
		RunID:          result.RunID,
		ResultsFile:    result.ResultsName,
		LogFile:        result.LogName,
		ResultsURL:     "/api/files/" + result.ResultsName,
		LogURL:         "/api/files/" + result.LogName,
	})
}

// handleDownload serves a generated artifact by name.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		s.writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	path := filepath.Join(s.cfg.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	case ".txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	http.ServeFile(w, r, path)
}

// handleRuns lists persisted runs, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "run history requires a configured database")
		return
	}

	runs, err := s.store.GetPlanRuns(r.Context())
	if err != nil {
		s.logger.Error("Failed to fetch runs", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch runs")
		return
	}

	records := make([]runRecord, 0, len(runs))
	for _, run := range runs {
		records = append(records, runRecord{
			ID:                 run.ID,
			SourceFile:         run.SourceFile,
			TotalMandays:       run.TotalMandays,
			MandaysAllocated:   run.MandaysAllocated,
			MandaysUsed:        run.MandaysUsed,
			OverallUtilization: run.OverallUtilization,
			SelectedUnits:      run.SelectedUnits,
			CreatedAt:          run.CreatedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"runs": records})
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	sanitized := filenameSanitizer.ReplaceAllString(base, "_")
	if sanitized == "" || sanitized == "." {
		return "upload.xlsx"
	}
	return sanitized
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
