// internal/workers/report_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/acrelle/supplytrack-be/internal/adapters/redis_adapter"
	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/workers"
	"github.com/acrelle/supplytrack-be/test/helpers"
	"github.com/acrelle/supplytrack-be/test/mocks"
)

func exportTask(t *testing.T, jobID, requestedBy string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(workers.ReportJobPayload{
		JobID:       jobID,
		RequestedBy: requestedBy,
	})
	require.NoError(t, err)
	return asynq.NewTask(workers.TypeReportExport, payload)
}

func TestReportProcessor_ProcessReport(t *testing.T) {
	t.Run("writes_workbook_and_completes_job_record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tr := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(tr.Client, time.Hour, helpers.TestLogger())
		batches := mocks.NewMockBatchRepository(ctrl)
		outputDir := t.TempDir()

		batches.EXPECT().
			FindAll(gomock.Any(), ports.BatchListParams{}).
			Return([]domain.Batch{
				*helpers.CreateTestBatch(func(b *domain.Batch) {
					b.BatchNumber = "B-2025-001"
					b.RawMaterialName = "Organic Oat Flour"
					b.SupplierName = "Nordic Organics AS"
				}),
				*helpers.CreateTestBatch(func(b *domain.Batch) {
					b.BatchNumber = "B-2025-002"
				}),
			}, nil)

		processor := workers.NewReportProcessor(batches, cache, outputDir, time.Hour, helpers.TestLogger())

		err := processor.ProcessReport(context.Background(), exportTask(t, "job-1", "qa@supplytrack.test"))
		require.NoError(t, err)

		// The spreadsheet exists and is non-trivial.
		filePath := filepath.Join(outputDir, "traceability_job-1.xlsx")
		info, err := os.Stat(filePath)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))

		// The job record reflects completion.
		var job workers.ReportJob
		require.NoError(t, cache.Get(context.Background(), workers.ReportJobKey("job-1"), &job))
		assert.Equal(t, workers.ReportStatusCompleted, job.Status)
		assert.Equal(t, "traceability_job-1.xlsx", job.FileName)
		assert.Equal(t, 2, job.RowCount)
		assert.Equal(t, "qa@supplytrack.test", job.RequestedBy)
		require.NotNil(t, job.CompletedAt)
		assert.Empty(t, job.Error)
	})

	t.Run("repository_failure_marks_job_failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tr := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(tr.Client, time.Hour, helpers.TestLogger())
		batches := mocks.NewMockBatchRepository(ctrl)

		batches.EXPECT().
			FindAll(gomock.Any(), ports.BatchListParams{}).
			Return(nil, errors.New("connection refused"))

		processor := workers.NewReportProcessor(batches, cache, t.TempDir(), time.Hour, helpers.TestLogger())

		err := processor.ProcessReport(context.Background(), exportTask(t, "job-2", "qa@supplytrack.test"))
		require.Error(t, err)

		var job workers.ReportJob
		require.NoError(t, cache.Get(context.Background(), workers.ReportJobKey("job-2"), &job))
		assert.Equal(t, workers.ReportStatusFailed, job.Status)
		assert.Contains(t, job.Error, "connection refused")
	})

	t.Run("malformed_payload_is_rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tr := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(tr.Client, time.Hour, helpers.TestLogger())
		batches := mocks.NewMockBatchRepository(ctrl)

		processor := workers.NewReportProcessor(batches, cache, t.TempDir(), time.Hour, helpers.TestLogger())

		task := asynq.NewTask(workers.TypeReportExport, []byte("{invalid"))
		err := processor.ProcessReport(context.Background(), task)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal payload")
	})
}

func TestReportProcessor_CleanupReports(t *testing.T) {
	t.Run("removes_only_expired_files", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tr := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(tr.Client, time.Hour, helpers.TestLogger())
		batches := mocks.NewMockBatchRepository(ctrl)
		outputDir := t.TempDir()

		oldFile := filepath.Join(outputDir, "traceability_old.xlsx")
		freshFile := filepath.Join(outputDir, "traceability_fresh.xlsx")
		require.NoError(t, os.WriteFile(oldFile, []byte("stale"), 0o644))
		require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))

		stale := time.Now().Add(-2 * time.Hour)
		require.NoError(t, os.Chtimes(oldFile, stale, stale))

		processor := workers.NewReportProcessor(batches, cache, outputDir, time.Hour, helpers.TestLogger())

		err := processor.CleanupReports(context.Background(), asynq.NewTask(workers.TypeReportCleanup, nil))
		require.NoError(t, err)

		_, err = os.Stat(oldFile)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(freshFile)
		assert.NoError(t, err)
	})

	t.Run("missing_output_directory_is_not_an_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tr := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(tr.Client, time.Hour, helpers.TestLogger())
		batches := mocks.NewMockBatchRepository(ctrl)

		processor := workers.NewReportProcessor(batches, cache,
			filepath.Join(t.TempDir(), "does-not-exist"), time.Hour, helpers.TestLogger())

		err := processor.CleanupReports(context.Background(), asynq.NewTask(workers.TypeReportCleanup, nil))
		require.NoError(t, err)
	})
}
