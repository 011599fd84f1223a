package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

// Monthly report sort keys.
const (
	SortStudentAZ     = "student_az"
	SortStudentZA     = "student_za"
	SortRemainingAsc  = "remaining_asc"
	SortRemainingDesc = "remaining_desc"
	SortMakeupsAsc    = "makeups_asc"
	SortMakeupsDesc   = "makeups_desc"
)

// MonthlySortKeys lists the accepted monthly sessions report sort keys.
var MonthlySortKeys = []string{SortStudentAZ, SortStudentZA, SortRemainingAsc, SortRemainingDesc, SortMakeupsAsc, SortMakeupsDesc}

const schoolYearEndMonth = time.June

// schoolYearSpan counts the months from start through the first June on or after it.
func schoolYearSpan(start time.Month) int {
	return (int(schoolYearEndMonth)-int(start)+12)%12 + 1
}

type reportRepository interface {
	MonthlySessionCounts(ctx context.Context, monthStart time.Time) ([]models.MonthlySessionCounts, error)
	MakeupNeeded(ctx context.Context, sortBy string) ([]models.MakeupNeededRow, error)
	MakeupCounts(ctx context.Context, from, to time.Time) ([]models.MakeupMonthCount, error)
}

// ReportServiceConfig tunes report defaults.
type ReportServiceConfig struct {
	CacheTTL             time.Duration
	SchoolYearStartMonth int
}

// ReportService produces the monthly, makeup and school-year session reports.
type ReportService struct {
	repo     reportRepository
	students activeStudentLister
	exports  *ExportService
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      ReportServiceConfig
	now      func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportRepository, students activeStudentLister, exports *ExportService, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SchoolYearStartMonth < 1 || cfg.SchoolYearStartMonth > 12 {
		cfg.SchoolYearStartMonth = int(time.September)
	}
	return &ReportService{repo: repo, students: students, exports: exports, cache: cache, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// MonthlySessions reports expected, credited and remaining sessions per active student.
// Zero month or year default to the current month.
func (s *ReportService) MonthlySessions(ctx context.Context, month, year int, sortBy string) (*models.MonthlySessionsReport, bool, error) {
	now := s.now().UTC()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 || year < 1900 || year > 9999 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "month must be 1-12 and year must be four digits")
	}
	sortBy = strings.TrimSpace(sortBy)

	first := monthStart(year, time.Month(month))
	cacheKey := fmt.Sprintf("report:monthly:%s:%s", first.Format("2006-01"), sortBy)
	var cached models.MonthlySessionsReport
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	counts, err := s.repo.MonthlySessionCounts(ctx, first)
	s.metrics.ObserveReportQuery("monthly_sessions", time.Since(start))
	if err != nil {
		return nil, false, internalError(err, "failed to build monthly sessions report")
	}

	report := &models.MonthlySessionsReport{
		Month:     month,
		Year:      year,
		MonthName: first.Format("January"),
		SortBy:    sortBy,
		Rows:      make([]models.MonthlySessionRow, 0, len(counts)),
	}
	for _, c := range counts {
		report.Rows = append(report.Rows, monthlyRow(c))
	}
	sortMonthlyRows(report.Rows, sortBy)

	if err := s.cache.Set(ctx, cacheKey, report, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("monthly report cache write failed", zap.Error(err))
	}
	return report, false, nil
}

// MonthlySessionsExport renders the monthly report as a CSV or PDF download.
func (s *ReportService) MonthlySessionsExport(ctx context.Context, month, year int, sortBy, format string) (*ExportFile, error) {
	report, _, err := s.MonthlySessions(ctx, month, year, sortBy)
	if err != nil {
		return nil, err
	}
	return s.exports.MonthlySessionsFile(*report, format)
}

// MakeupNeeded lists open makeup-needed sessions, all and for the current month.
func (s *ReportService) MakeupNeeded(ctx context.Context, sortBy string) (*models.MakeupNeededReport, error) {
	start := time.Now()
	rows, err := s.repo.MakeupNeeded(ctx, sortBy)
	s.metrics.ObserveReportQuery("makeup_needed", time.Since(start))
	if err != nil {
		return nil, internalError(err, "failed to build makeup needed report")
	}
	now := s.now().UTC()
	report := &models.MakeupNeededReport{
		SortBy:    sortBy,
		All:       make([]models.MakeupNeededRow, 0, len(rows)),
		ThisMonth: []models.MakeupNeededRow{},
	}
	for _, row := range rows {
		report.All = append(report.All, row)
		if row.DateOfSession.Year() == now.Year() && row.DateOfSession.Month() == now.Month() {
			report.ThisMonth = append(report.ThisMonth, row)
		}
	}
	return report, nil
}

// MakeupsByMonth builds a dense per-student count of makeup-needed sessions for the school
// months from the configured start month through June. A nil start year is derived from today.
func (s *ReportService) MakeupsByMonth(ctx context.Context, schoolYearStart *int) (*models.MakeupMatrix, error) {
	startMonth := time.Month(s.cfg.SchoolYearStartMonth)
	year := s.defaultSchoolYear(startMonth)
	if schoolYearStart != nil {
		if *schoolYearStart < 1900 || *schoolYearStart > 9999 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "school_year_start must be a four digit year")
		}
		year = *schoolYearStart
	}

	span := schoolYearSpan(startMonth)
	from := monthStart(year, startMonth)
	to := from.AddDate(0, span, -1)
	months := make([]string, 0, span)
	keys := make(map[string]string, span)
	for i := 0; i < span; i++ {
		m := from.AddDate(0, i, 0)
		months = append(months, m.Format("January"))
		keys[m.Format("2006-01")] = m.Format("January")
	}

	students, err := s.students.ListActive(ctx, models.StudentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	started := time.Now()
	counts, err := s.repo.MakeupCounts(ctx, from, to)
	s.metrics.ObserveReportQuery("makeups_by_month", time.Since(started))
	if err != nil {
		return nil, internalError(err, "failed to count makeups")
	}

	byStudent := make(map[int64]map[string]int, len(students))
	for _, c := range counts {
		name, ok := keys[fmt.Sprintf("%04d-%02d", c.Year, c.Month)]
		if !ok {
			continue
		}
		if byStudent[c.StudentID] == nil {
			byStudent[c.StudentID] = make(map[string]int)
		}
		byStudent[c.StudentID][name] += c.Count
	}

	sort.SliceStable(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	matrix := &models.MakeupMatrix{SchoolYearStart: year, Months: months, Rows: make([]models.MakeupMatrixRow, 0, len(students))}
	for _, student := range students {
		row := models.MakeupMatrixRow{StudentID: student.ID, StudentName: student.FullName(), Counts: make(map[string]int, len(months))}
		for _, name := range months {
			n := byStudent[student.ID][name]
			row.Counts[name] = n
			row.Total += n
		}
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix, nil
}

func (s *ReportService) defaultSchoolYear(startMonth time.Month) int {
	now := s.now().UTC()
	if now.Month() >= startMonth {
		return now.Year()
	}
	return now.Year() - 1
}

func monthlyRow(c models.MonthlySessionCounts) models.MonthlySessionRow {
	student := models.Student{FirstName: c.FirstName, LastName: c.LastName, MonthlyServices: c.MonthlyServices}
	expected := student.MonthlyServiceCount()
	if c.QuotaOverride != nil {
		expected = *c.QuotaOverride
	}
	remaining := expected - (c.Completed + c.Excused)
	if remaining < 0 {
		remaining = 0
	}
	return models.MonthlySessionRow{
		StudentID:         c.StudentID,
		StudentName:       student.FullName(),
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		ExpectedSessions:  expected,
		CompletedSessions: c.Completed,
		ExcusedSessions:   c.Excused,
		MakeupNeeded:      c.MakeupNeeded,
		TotalMakeups:      c.PriorMakeups,
		RemainingSessions: remaining,
	}
}

// sortMonthlyRows applies a stable sort; unknown keys keep the first-name order from the query.
func sortMonthlyRows(rows []models.MonthlySessionRow, sortBy string) {
	var less func(a, b models.MonthlySessionRow) bool
	switch sortBy {
	case SortStudentAZ:
		less = func(a, b models.MonthlySessionRow) bool { return a.StudentName < b.StudentName }
	case SortStudentZA:
		less = func(a, b models.MonthlySessionRow) bool { return a.StudentName > b.StudentName }
	case SortRemainingAsc:
		less = func(a, b models.MonthlySessionRow) bool { return a.RemainingSessions < b.RemainingSessions }
	case SortRemainingDesc:
		less = func(a, b models.MonthlySessionRow) bool { return a.RemainingSessions > b.RemainingSessions }
	case SortMakeupsAsc:
		less = func(a, b models.MonthlySessionRow) bool { return a.TotalMakeups < b.TotalMakeups }
	case SortMakeupsDesc:
		less = func(a, b models.MonthlySessionRow) bool { return a.TotalMakeups > b.TotalMakeups }
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}
