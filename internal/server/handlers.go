package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
	"github.com/MandarKelkarOfficial/talent-sync/internal/pipeline"
)

const maxUploadBytes = 32 << 20 // certificates are small; anything bigger is abuse

// verifyURLRequest is the JSON body for link-based submissions.
type verifyURLRequest struct {
	URL             string `json:"url,omitempty"`              // direct file URL (pdf/png/jpg)
	VerificationURL string `json:"verification_url,omitempty"` // issuer verification page
	Username        string `json:"username,omitempty"`
	Metadata        string `json:"metadata,omitempty"`
}

// submitResponse acknowledges an accepted submission.
type submitResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// handleUpload accepts a multipart certificate upload. The claimed identity
// comes from the X-User header; the metadata form field carries the caller's
// external reference blob.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.Warn("upload file close failed", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(raw)
	}

	job := &entity.Job{
		ID:              uuid.New().String(),
		ClaimedIdentity: strings.TrimSpace(r.Header.Get("X-User")),
		Source:          constants.SourceUpload,
		RawBytes:        raw,
		ContentType:     contentType,
		Filename:        header.Filename,
		Metadata:        r.FormValue("metadata"),
		State:           constants.JobStateQueued,
		CreatedAt:       time.Now().UTC(),
	}
	s.accept(w, r, job)
}

// handleVerifyURL accepts link-based submissions: either a direct file URL or
// an issuer verification page.
func (s *Server) handleVerifyURL(w http.ResponseWriter, r *http.Request) {
	var req verifyURLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "decode request: "+err.Error())
		return
	}
	if req.URL == "" && req.VerificationURL == "" {
		writeError(w, http.StatusBadRequest, "one of url or verification_url is required")
		return
	}

	source := constants.SourceURL
	if req.URL == "" {
		source = constants.SourceVerifyPage
	}

	claimed := strings.TrimSpace(req.Username)
	if claimed == "" {
		claimed = strings.TrimSpace(r.Header.Get("X-User"))
	}

	job := &entity.Job{
		ID:              uuid.New().String(),
		ClaimedIdentity: claimed,
		Source:          source,
		SourceURL:       req.URL,
		VerificationURL: req.VerificationURL,
		Metadata:        req.Metadata,
		State:           constants.JobStateQueued,
		CreatedAt:       time.Now().UTC(),
	}
	s.accept(w, r, job)
}

// accept stores the normalized job and schedules its pipeline run.
func (s *Server) accept(w http.ResponseWriter, r *http.Request, job *entity.Job) {
	if err := s.jobs.Create(r.Context(), job); err != nil {
		s.logger.Error("job create failed", "job_id", job.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "store job")
		return
	}
	if err := s.queue.Enqueue(r.Context(), pipeline.Job{JobID: job.ID}); err != nil {
		s.logger.Error("job enqueue failed", "job_id", job.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "schedule job")
		return
	}
	s.metrics.ObserveSubmission(string(job.Source))
	s.logger.Info("submission accepted", "job_id", job.ID, "source", job.Source, "bytes", len(job.RawBytes))
	writeJSON(w, http.StatusAccepted, submitResponse{JobID: job.ID, Status: string(job.State)})
}

// handleJobStatus returns the sanitized snapshot: never raw artifact bytes,
// never the encryption key.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	snap, err := s.jobs.Snapshot(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.logger.Error("job snapshot failed", "job_id", jobID, "error", err)
		writeError(w, http.StatusInternalServerError, "load job")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleExport streams the XLSX audit report.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.ExportJobsXLSX(r.Context())
	if err != nil {
		s.logger.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export jobs")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="verifications.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
