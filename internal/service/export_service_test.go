package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
	"github.com/noah-isme/slp-caseload/pkg/jobs"
	"github.com/noah-isme/slp-caseload/pkg/storage"
)

type recordingQueue struct {
	tasks []jobs.Task
	err   error
}

func (q *recordingQueue) Submit(task jobs.Task) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func newExportServiceForTest(t *testing.T, keep bool) (*ExportService, *storage.Directory, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewDirectory(dir, 0o600)
	require.NoError(t, err)
	svc := NewExportService(store, ExportConfig{KeepPDFs: keep}, nil, zap.NewNop(), nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC) }
	return svc, store, dir
}

func sampleQuarterlyReport() models.QuarterlyReportWithStudent {
	return models.QuarterlyReportWithStudent{
		QuarterlyReport: models.QuarterlyReport{
			ID:          4,
			StudentID:   1,
			Quarter:     "2025-Q3",
			ReportText:  "Ana demonstrated steady progress in the third quarter.\n\n-Clinician",
			DateCreated: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		FirstName: "Ana",
		LastName:  "Lopez",
	}
}

func TestRedactNoteText(t *testing.T) {
	text := "S: Sam attended.\r\nO: sammy and SAM\nworked."
	assert.Equal(t, "S: 12 attended. O: 12 and 12 worked.", RedactNoteText(text, 12, "Sam", "Sammy"))
	assert.Equal(t, "no names here", RedactNoteText("no names here", 1, "", "  "))
}

func TestExportServiceQuarterlyPDF(t *testing.T) {
	svc, _, dir := newExportServiceForTest(t, false)

	file, err := svc.QuarterlyReportPDF(sampleQuarterlyReport())
	require.NoError(t, err)
	assert.Equal(t, "quarterly_report_4_2025-Q3.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportServiceArchivesWhenEnabled(t *testing.T) {
	svc, store, dir := newExportServiceForTest(t, true)

	_, err := svc.QuarterlyReportPDF(sampleQuarterlyReport())
	require.NoError(t, err)
	files, err := store.List("20250501_083000_")
	require.NoError(t, err)
	require.Len(t, files, 1)
	_, err = os.Stat(filepath.Join(dir, files[0].Name))
	require.NoError(t, err)
}

func TestExportServiceArchiveQueue(t *testing.T) {
	svc, store, _ := newExportServiceForTest(t, true)
	queue := &recordingQueue{}
	svc.UseArchiveQueue(queue)

	_, err := svc.QuarterlyReportPDF(sampleQuarterlyReport())
	require.NoError(t, err)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, "20250501_083000_quarterly_report_4_2025-Q3.pdf", queue.tasks[0].Name)

	files, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, files)

	require.NoError(t, svc.ArchiveTask(context.Background(), queue.tasks[0]))
	files, err = store.List("")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	queue.err = errors.New("queue full")
	_, err = svc.QuarterlyReportPDF(sampleQuarterlyReport())
	require.NoError(t, err)
	files, err = store.List("")
	require.NoError(t, err)
	assert.Len(t, files, 1, "inline write reuses the same stamped name")
}

func TestExportServiceMonthlySessionsFile(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t, false)
	report := models.MonthlySessionsReport{Month: 3, Year: 2025, MonthName: "March", Rows: []models.MonthlySessionRow{
		{StudentName: "Ana Lopez", ExpectedSessions: 4, CompletedSessions: 2, ExcusedSessions: 1, RemainingSessions: 1},
	}}

	csvFile, err := svc.MonthlySessionsFile(report, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "monthly_sessions_2025_03.csv", csvFile.Filename)
	assert.Contains(t, string(csvFile.Payload), "Ana Lopez,4,2,1,0,1,0")

	pdfFile, err := svc.MonthlySessionsFile(report, FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfFile.Payload, []byte("%PDF")))

	_, err = svc.MonthlySessionsFile(report, "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
