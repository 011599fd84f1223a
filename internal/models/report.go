package models

import "time"

// MonthlySessionCounts is the raw aggregate row for one student in the report month.
type MonthlySessionCounts struct {
	StudentID       int64   `db:"student_id"`
	FirstName       string  `db:"first_name"`
	LastName        string  `db:"last_name"`
	MonthlyServices *string `db:"monthly_services"`
	QuotaOverride   *int    `db:"quota_override"`
	Completed       int     `db:"completed"`
	Excused         int     `db:"excused"`
	MakeupNeeded    int     `db:"makeup_needed"`
	PriorMakeups    int     `db:"prior_makeups"`
}

// MonthlySessionRow is one line of the monthly sessions report.
type MonthlySessionRow struct {
	StudentID         int64  `json:"student_id"`
	StudentName       string `json:"student_name"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	ExpectedSessions  int    `json:"expected_sessions"`
	CompletedSessions int    `json:"completed_sessions"`
	ExcusedSessions   int    `json:"excused_sessions"`
	MakeupNeeded      int    `json:"makeup_needed"`
	TotalMakeups      int    `json:"total_makeups"`
	RemainingSessions int    `json:"remaining_sessions"`
}

// MonthlySessionsReport wraps the rows with the period they describe.
type MonthlySessionsReport struct {
	Month     int                 `json:"month"`
	Year      int                 `json:"year"`
	MonthName string              `json:"month_name"`
	SortBy    string              `json:"sort_by"`
	Rows      []MonthlySessionRow `json:"rows"`
}

// MakeupNeededRow is an open "Makeup Needed" session.
type MakeupNeededRow struct {
	EventWithStudent
	MakeupScheduled bool `db:"makeup_scheduled" json:"makeup_scheduled"`
}

// MakeupNeededReport splits open makeups into the full list and the current month.
type MakeupNeededReport struct {
	SortBy    string            `json:"sort_by"`
	All       []MakeupNeededRow `json:"all"`
	ThisMonth []MakeupNeededRow `json:"this_month"`
}

// MakeupMonthCount is a per-student, per-calendar-month makeup tally.
type MakeupMonthCount struct {
	StudentID int64 `db:"student_id"`
	Year      int   `db:"year"`
	Month     int   `db:"month"`
	Count     int   `db:"count"`
}

// MakeupMatrixRow is one student's line in the school-year matrix.
type MakeupMatrixRow struct {
	StudentID   int64          `json:"student_id"`
	StudentName string         `json:"student_name"`
	Counts      map[string]int `json:"counts"`
	Total       int            `json:"total"`
}

// MakeupMatrix is a dense September to June table of makeup-needed counts.
type MakeupMatrix struct {
	SchoolYearStart int               `json:"school_year_start"`
	Months          []string          `json:"months"`
	Rows            []MakeupMatrixRow `json:"rows"`
}

// DashboardSummary feeds the landing page.
type DashboardSummary struct {
	TotalStudents    int                `json:"total_students"`
	TotalGoals       int                `json:"total_goals"`
	UpcomingSessions []EventWithStudent `json:"upcoming_sessions"`
	Today            string             `json:"today"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// SystemMetrics is a lightweight runtime snapshot exposed beside Prometheus.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
