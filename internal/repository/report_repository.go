package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

// ReportRepository runs the aggregate queries behind the session reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const monthlySessionCountsQuery = `SELECT s.id AS student_id, s.first_name, s.last_name, s.monthly_services,
        q.required_sessions AS quota_override,
        COUNT(e.id) FILTER (WHERE e.status = $4 AND e.is_makeup = FALSE AND e.date_of_session BETWEEN $1 AND $2) AS completed,
        COUNT(e.id) FILTER (WHERE e.status = $5 AND e.date_of_session BETWEEN $1 AND $2) AS excused,
        COUNT(e.id) FILTER (WHERE e.status = $6 AND e.date_of_session BETWEEN $1 AND $2) AS makeup_needed,
        COUNT(e.id) FILTER (WHERE e.status = $6 AND e.date_of_session < $1) AS prior_makeups
        FROM students s
        LEFT JOIN monthly_quotas q ON q.student_id = s.id AND q.month = $3
        LEFT JOIN events e ON e.student_id = s.id AND e.active = TRUE AND e.event_type = $7
        WHERE s.active = TRUE
        GROUP BY s.id, s.first_name, s.last_name, s.monthly_services, q.required_sessions
        ORDER BY s.first_name, s.last_name`

// MonthlySessionCounts aggregates per-student session counts for the month starting at monthStart.
func (r *ReportRepository) MonthlySessionCounts(ctx context.Context, monthStart time.Time) ([]models.MonthlySessionCounts, error) {
	monthEnd := monthStart.AddDate(0, 1, -1)
	var rows []models.MonthlySessionCounts
	if err := r.db.SelectContext(ctx, &rows, monthlySessionCountsQuery,
		dateArg(monthStart), dateArg(monthEnd), monthStart.Format("2006-01"),
		models.EventStatusCompleted, models.EventStatusExcused, models.EventStatusMakeupNeeded, models.EventTypeSession,
	); err != nil {
		return nil, fmt.Errorf("monthly session counts: %w", err)
	}
	return rows, nil
}

var makeupOrderings = map[string]string{
	"date_asc":    "e.date_of_session ASC, e.time_of_start ASC",
	"date_desc":   "e.date_of_session DESC, e.time_of_start ASC",
	"student_az":  "s.last_name ASC, s.first_name ASC",
	"student_za":  "s.last_name DESC, s.first_name DESC",
	"status_asc":  "e.status ASC",
	"status_desc": "e.status DESC",
}

// MakeupSortKeys lists the accepted makeup-needed sort keys.
func MakeupSortKeys() []string {
	return []string{"date_asc", "date_desc", "student_az", "student_za", "status_asc", "status_desc"}
}

// MakeupNeeded lists active sessions awaiting a makeup in the requested order.
// Unknown sort keys fall back to start time.
func (r *ReportRepository) MakeupNeeded(ctx context.Context, sortBy string) ([]models.MakeupNeededRow, error) {
	order, ok := makeupOrderings[sortBy]
	if !ok {
		order = "e.time_of_start ASC"
	}
	query := fmt.Sprintf(`SELECT e.id, e.student_id, e.event_type, e.date_of_session, e.time_of_start, e.time_of_end,
        e.status, e.active, e.plan_notes, e.makeup_for_event_id, e.is_makeup, e.created_at,
        s.first_name, s.last_name,
        EXISTS (SELECT 1 FROM events m WHERE m.makeup_for_event_id = e.id AND m.active = TRUE) AS makeup_scheduled
        FROM events e LEFT JOIN students s ON s.id = e.student_id
        WHERE e.event_type = $1 AND e.status = $2 AND e.active = TRUE
        ORDER BY %s, e.id`, order)
	var rows []models.MakeupNeededRow
	if err := r.db.SelectContext(ctx, &rows, query, models.EventTypeSession, models.EventStatusMakeupNeeded); err != nil {
		return nil, fmt.Errorf("makeup needed report: %w", err)
	}
	return rows, nil
}

// MakeupCounts tallies active students' makeup-needed events per calendar month within [from, to].
func (r *ReportRepository) MakeupCounts(ctx context.Context, from, to time.Time) ([]models.MakeupMonthCount, error) {
	const query = `SELECT e.student_id,
        EXTRACT(YEAR FROM e.date_of_session)::int AS year,
        EXTRACT(MONTH FROM e.date_of_session)::int AS month,
        COUNT(*) AS count
        FROM events e JOIN students s ON s.id = e.student_id
        WHERE s.active = TRUE AND e.active = TRUE AND e.status = $1 AND e.date_of_session BETWEEN $2 AND $3
        GROUP BY e.student_id, year, month`
	var rows []models.MakeupMonthCount
	if err := r.db.SelectContext(ctx, &rows, query, models.EventStatusMakeupNeeded, dateArg(from), dateArg(to)); err != nil {
		return nil, fmt.Errorf("makeup counts: %w", err)
	}
	return rows, nil
}
