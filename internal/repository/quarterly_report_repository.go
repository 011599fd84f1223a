package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

const quarterlyReportSelect = `SELECT r.id, r.student_id, r.quarter, r.report_text, r.date_created, s.first_name, s.last_name
        FROM quarterly_reports r JOIN students s ON s.id = r.student_id`

// QuarterlyReportRepository persists saved quarterly reports.
type QuarterlyReportRepository struct {
	db *sqlx.DB
}

// NewQuarterlyReportRepository constructs a QuarterlyReportRepository.
func NewQuarterlyReportRepository(db *sqlx.DB) *QuarterlyReportRepository {
	return &QuarterlyReportRepository{db: db}
}

// Create inserts a report.
func (r *QuarterlyReportRepository) Create(ctx context.Context, report *models.QuarterlyReport) error {
	report.DateCreated = time.Now().UTC()
	const query = `INSERT INTO quarterly_reports (student_id, quarter, report_text, date_created) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, report.StudentID, report.Quarter, report.ReportText, report.DateCreated).Scan(&report.ID); err != nil {
		return fmt.Errorf("create quarterly report: %w", err)
	}
	return nil
}

// List returns saved reports, newest first, optionally for one student.
func (r *QuarterlyReportRepository) List(ctx context.Context, studentID *int64) ([]models.QuarterlyReportWithStudent, error) {
	query := quarterlyReportSelect
	args := []interface{}{}
	if studentID != nil {
		query += " WHERE r.student_id = $1"
		args = append(args, *studentID)
	}
	query += " ORDER BY r.date_created DESC, r.id DESC"
	var reports []models.QuarterlyReportWithStudent
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list quarterly reports: %w", err)
	}
	return reports, nil
}

// FindByID fetches a saved report.
func (r *QuarterlyReportRepository) FindByID(ctx context.Context, id int64) (*models.QuarterlyReportWithStudent, error) {
	var report models.QuarterlyReportWithStudent
	if err := r.db.GetContext(ctx, &report, quarterlyReportSelect+" WHERE r.id = $1", id); err != nil {
		return nil, err
	}
	return &report, nil
}
