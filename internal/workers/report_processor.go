// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/acrelle/supplytrack-be/internal/adapters/redis_adapter"
	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// Task type names registered with the asynq mux.
const (
	TypeReportExport  = "report:export"
	TypeReportCleanup = "report:cleanup"
)

// Report job lifecycle states stored in the cache.
const (
	ReportStatusQueued     = "queued"
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// ReportJobPayload is the asynq task payload for a traceability export.
type ReportJobPayload struct {
	JobID       string `json:"job_id"`
	RequestedBy string `json:"requested_by"`
}

// ReportJob is the job record the API polls while the worker runs.
type ReportJob struct {
	JobID       string     `json:"jobId"`
	Status      string     `json:"status"`
	RequestedBy string     `json:"requestedBy,omitempty"`
	FileName    string     `json:"fileName,omitempty"`
	RowCount    int        `json:"rowCount,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ReportJobKey builds the cache key a job record lives under.
func ReportJobKey(jobID string) string {
	return redis_a.BuildKey(redis_a.PrefixReport, jobID)
}

// ReportProcessor generates traceability spreadsheets. Each row walks a
// batch back to its raw material and supplier.
type ReportProcessor struct {
	batches   ports.BatchRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
	outputDir string
	resultTTL time.Duration
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(batches ports.BatchRepository, cache ports.CacheRepository, outputDir string, resultTTL time.Duration, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		batches:   batches,
		cache:     cache,
		logger:    logger.With(slog.String("processor", "report")),
		outputDir: outputDir,
		resultTTL: resultTTL,
	}
}

// ProcessReport handles a TypeReportExport task.
func (p *ReportProcessor) ProcessReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "generating traceability report",
		slog.String("job_id", payload.JobID))

	job := ReportJob{
		JobID:       payload.JobID,
		Status:      ReportStatusProcessing,
		RequestedBy: payload.RequestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	p.saveJob(ctx, &job)

	batches, err := p.batches.FindAll(ctx, ports.BatchListParams{})
	if err != nil {
		p.failJob(ctx, &job, err)
		return fmt.Errorf("failed to load batches: %w", err)
	}

	data, err := p.generateWorkbook(batches)
	if err != nil {
		p.failJob(ctx, &job, err)
		return fmt.Errorf("failed to generate workbook: %w", err)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		p.failJob(ctx, &job, err)
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fileName := fmt.Sprintf("traceability_%s.xlsx", payload.JobID)
	filePath := filepath.Join(p.outputDir, fileName)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		p.failJob(ctx, &job, err)
		return fmt.Errorf("failed to write report file: %w", err)
	}

	now := time.Now().UTC()
	job.Status = ReportStatusCompleted
	job.FileName = fileName
	job.RowCount = len(batches)
	job.CompletedAt = &now
	p.saveJob(ctx, &job)

	p.logger.InfoContext(ctx, "traceability report completed",
		slog.String("job_id", payload.JobID),
		slog.String("file", fileName),
		slog.Int("rows", len(batches)))

	return nil
}

// CleanupReports handles a TypeReportCleanup task: it removes report files
// older than the result TTL so the output directory does not grow unbounded.
func (p *ReportProcessor) CleanupReports(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up expired reports")

	var deleted int
	err := filepath.Walk(p.outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > p.resultTTL {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete report file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deleted++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk report directory: %w", err)
	}

	p.logger.InfoContext(ctx, "expired reports cleaned up",
		slog.Int("files_deleted", deleted))

	return nil
}

func (p *ReportProcessor) generateWorkbook(batches []domain.Batch) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Traceability")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"Batch Number", "Status", "Approval Status", "Raw Material",
		"Supplier", "Quantity", "Unit", "Production Date",
		"Acquisition Date", "Buyer", "Contents", "Notes", "Created At",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for i := range batches {
		b := &batches[i]
		row := sheet.AddRow()
		for _, value := range []string{
			b.BatchNumber,
			string(b.Status),
			string(b.ApprovalStatus),
			b.RawMaterialName,
			b.SupplierName,
			b.Quantity.Value.String(),
			string(b.Quantity.Unit),
			safeDate(b.ProductionDate),
			safeDate(b.AcquisitionDate),
			b.Buyer,
			b.Contents,
			b.Notes,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		} {
			row.AddCell().Value = value
		}
	}

	for i := range headers {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook to buffer: %w", err)
	}
	return buffer.Bytes(), nil
}

func (p *ReportProcessor) saveJob(ctx context.Context, job *ReportJob) {
	if err := p.cache.SetWithTTL(ctx, ReportJobKey(job.JobID), job, p.resultTTL); err != nil {
		p.logger.WarnContext(ctx, "failed to save report job record",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()))
	}
}

func (p *ReportProcessor) failJob(ctx context.Context, job *ReportJob, cause error) {
	job.Status = ReportStatusFailed
	job.Error = cause.Error()
	p.saveJob(ctx, job)
}

func safeDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
