package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/pkg/export"
	"github.com/noah-isme/slp-caseload/pkg/jobs"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var soapExportHeaders = []string{"Note ID", "Student ID", "Date", "Student", "Note Text"}

type fileArchive interface {
	Save(name string, data []byte) (string, error)
}

type taskSubmitter interface {
	Submit(task jobs.Task) error
}

type csvRenderer interface {
	Render(data export.Table) ([]byte, error)
}

type pdfRenderer interface {
	RenderTable(data export.Table, title string) ([]byte, error)
	RenderDocument(doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	// KeepPDFs archives every rendered PDF in the storage directory.
	KeepPDFs bool
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders caseload data into CSV and PDF downloads.
type ExportService struct {
	storage fileArchive
	queue   taskSubmitter
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService. A nil storage disables archiving.
func NewExportService(storage fileArchive, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{storage: storage, csv: csv, pdf: pdf, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// SoapNotesCSV renders notes with each student's first and preferred names replaced by their id.
func (s *ExportService) SoapNotesCSV(notes []models.SoapNoteWithStudent) (*ExportFile, error) {
	table := export.Table{Headers: soapExportHeaders, Rows: make([][]string, 0, len(notes))}
	for _, note := range notes {
		student := models.Student{FirstName: note.FirstName, LastName: note.LastName, PreferredName: note.PreferredName}
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(note.ID, 10),
			strconv.FormatInt(note.StudentID, 10),
			note.NoteDate.Format(dateLayout),
			student.Initials(),
			RedactNoteText(note.NoteText, note.StudentID, note.FirstName, deref(note.PreferredName)),
		})
	}
	payload, err := s.csv.Render(table)
	if err != nil {
		return nil, internalError(err, "failed to render soap notes csv")
	}
	s.metrics.IncDocument("soap_notes_csv")
	return &ExportFile{Filename: "soap_notes.csv", ContentType: "text/csv", Payload: payload}, nil
}

// QuarterlyReportPDF renders a saved quarterly report.
func (s *ExportService) QuarterlyReportPDF(report models.QuarterlyReportWithStudent) (*ExportFile, error) {
	paragraphs := strings.Split(strings.ReplaceAll(report.ReportText, "\r\n", "\n"), "\n\n")
	doc := export.Document{
		Title:    fmt.Sprintf("Quarterly Progress Report: %s %s", report.FirstName, report.LastName),
		Subtitle: fmt.Sprintf("%s  |  generated %s", report.Quarter, report.DateCreated.Format(dateLayout)),
		Sections: []export.Section{{Paragraphs: paragraphs}},
		Footer:   "Confidential student record",
	}
	payload, err := s.pdf.RenderDocument(doc)
	if err != nil {
		return nil, internalError(err, "failed to render quarterly report pdf")
	}
	name := fmt.Sprintf("quarterly_report_%d_%s.pdf", report.ID, sanitizeFilename(report.Quarter))
	s.archive(name, payload)
	s.metrics.IncDocument("quarterly_report_pdf")
	return &ExportFile{Filename: name, ContentType: "application/pdf", Payload: payload}, nil
}

// MonthlySessionsFile renders the monthly sessions report as CSV or PDF.
func (s *ExportService) MonthlySessionsFile(report models.MonthlySessionsReport, format string) (*ExportFile, error) {
	table := export.Table{
		Headers: []string{"Student", "Expected", "Completed", "Excused", "Makeup Needed", "Remaining", "Outstanding Makeups"},
		Rows:    make([][]string, 0, len(report.Rows)),
	}
	for _, row := range report.Rows {
		table.Rows = append(table.Rows, []string{
			row.StudentName,
			strconv.Itoa(row.ExpectedSessions),
			strconv.Itoa(row.CompletedSessions),
			strconv.Itoa(row.ExcusedSessions),
			strconv.Itoa(row.MakeupNeeded),
			strconv.Itoa(row.RemainingSessions),
			strconv.Itoa(row.TotalMakeups),
		})
	}
	base := fmt.Sprintf("monthly_sessions_%04d_%02d", report.Year, report.Month)

	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(table)
		if err != nil {
			return nil, internalError(err, "failed to render monthly sessions csv")
		}
		s.metrics.IncDocument("monthly_sessions_csv")
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Payload: payload}, nil
	case FormatPDF:
		title := fmt.Sprintf("Monthly Sessions: %s %d", report.MonthName, report.Year)
		payload, err := s.pdf.RenderTable(table, title)
		if err != nil {
			return nil, internalError(err, "failed to render monthly sessions pdf")
		}
		s.archive(base+".pdf", payload)
		s.metrics.IncDocument("monthly_sessions_pdf")
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Payload: payload}, nil
	default:
		return nil, validationError(fmt.Errorf("unsupported format %q", format), "format must be csv or pdf")
	}
}

// UseArchiveQueue moves PDF archiving onto a background queue whose handler is ArchiveTask.
func (s *ExportService) UseArchiveQueue(queue taskSubmitter) {
	s.queue = queue
}

// ArchiveTask writes a queued document into the storage directory.
func (s *ExportService) ArchiveTask(_ context.Context, task jobs.Task) error {
	if s.storage == nil {
		return nil
	}
	_, err := s.storage.Save(task.Name, task.Payload)
	return err
}

func (s *ExportService) archive(name string, payload []byte) {
	if s.storage == nil || !s.cfg.KeepPDFs {
		return
	}
	stamped := fmt.Sprintf("%s_%s", s.now().UTC().Format("20060102_150405"), name)
	if s.queue != nil {
		err := s.queue.Submit(jobs.Task{Name: stamped, Kind: "pdf_archive", Payload: payload})
		if err == nil {
			return
		}
		s.logger.Warn("archive queue rejected export, writing inline", zap.String("file", stamped), zap.Error(err))
	}
	if _, err := s.storage.Save(stamped, payload); err != nil {
		s.logger.Warn("archive export failed", zap.String("file", stamped), zap.Error(err))
	}
}

// RedactNoteText flattens newlines and replaces every case-insensitive occurrence of the
// given names with the student id. Longer names are replaced first.
func RedactNoteText(text string, studentID int64, names ...string) string {
	flat := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	id := strconv.FormatInt(studentID, 10)
	ordered := append([]string(nil), names...)
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })
	for _, name := range ordered {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(name))
		flat = pattern.ReplaceAllLiteralString(flat, id)
	}
	return flat
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
