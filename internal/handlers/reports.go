// internal/handlers/reports.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	redis_a "github.com/acrelle/supplytrack-be/internal/adapters/redis_adapter"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/handlers/middleware"
	"github.com/acrelle/supplytrack-be/internal/workers"
)

// ReportHandler queues traceability exports and serves their results. The
// heavy lifting happens in the worker; job state lives in the cache under
// the report prefix.
type ReportHandler struct {
	asynqClient *asynq.Client
	cache       ports.CacheRepository
	logger      *slog.Logger
	outputDir   string
	resultTTL   time.Duration
	timeout     time.Duration
}

// NewReportHandler creates a new report handler
func NewReportHandler(asynqClient *asynq.Client, cache ports.CacheRepository, outputDir string, resultTTL, timeout time.Duration, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		asynqClient: asynqClient,
		cache:       cache,
		logger:      logger.With(slog.String("handler", "reports")),
		outputDir:   outputDir,
		resultTTL:   resultTTL,
		timeout:     timeout,
	}
}

// Export handles POST /api/v1/reports/export
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestedBy := ""
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		requestedBy = claims.Email
	}

	jobID := uuid.New().String()
	payload := workers.ReportJobPayload{
		JobID:       jobID,
		RequestedBy: requestedBy,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal report payload",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	job := workers.ReportJob{
		JobID:       jobID,
		Status:      workers.ReportStatusQueued,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.cache.SetWithTTL(ctx, workers.ReportJobKey(jobID), job, h.resultTTL); err != nil {
		h.logger.ErrorContext(ctx, "failed to create report job record",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	task := asynq.NewTask(workers.TypeReportExport, b)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(h.timeout),
		asynq.Retention(h.resultTTL))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue report task",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.InfoContext(ctx, "traceability report queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID))

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"jobId":   jobID,
		"status":  workers.ReportStatusQueued,
		"message": "Traceability report has been queued for generation",
	})
}

// Status handles GET /api/v1/reports/status/{jobId}
func (h *ReportHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := h.loadJob(r, jobID)
	if err != nil {
		if errors.Is(err, redis_a.ErrCacheMiss) {
			respondError(w, http.StatusNotFound, "Report job not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load report job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Download handles GET /api/v1/reports/download/{jobId}
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := h.loadJob(r, jobID)
	if err != nil {
		if errors.Is(err, redis_a.ErrCacheMiss) {
			respondError(w, http.StatusNotFound, "Report job not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load report job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if job.Status != workers.ReportStatusCompleted {
		respondError(w, http.StatusConflict,
			fmt.Sprintf("Report is not ready for download (status: %s)", job.Status))
		return
	}

	filePath := filepath.Join(h.outputDir, job.FileName)
	if _, err := os.Stat(filePath); err != nil {
		h.logger.WarnContext(r.Context(), "report file missing",
			slog.String("job_id", jobID),
			slog.String("file", filePath))
		respondError(w, http.StatusGone, "Report file has expired")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, job.FileName))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	http.ServeFile(w, r, filePath)
}

func (h *ReportHandler) loadJob(r *http.Request, jobID string) (*workers.ReportJob, error) {
	var job workers.ReportJob
	if err := h.cache.Get(r.Context(), workers.ReportJobKey(jobID), &job); err != nil {
		return nil, err
	}
	return &job, nil
}
