package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

// QuotaRepository persists monthly session quota overrides.
type QuotaRepository struct {
	db *sqlx.DB
}

// NewQuotaRepository constructs a QuotaRepository.
func NewQuotaRepository(db *sqlx.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

// List returns overrides, optionally for one student, by month.
func (r *QuotaRepository) List(ctx context.Context, studentID *int64) ([]models.MonthlyQuota, error) {
	query := `SELECT id, student_id, month, required_sessions FROM monthly_quotas`
	args := []interface{}{}
	if studentID != nil {
		query += " WHERE student_id = $1"
		args = append(args, *studentID)
	}
	query += " ORDER BY month DESC, student_id"
	var quotas []models.MonthlyQuota
	if err := r.db.SelectContext(ctx, &quotas, query, args...); err != nil {
		return nil, fmt.Errorf("list monthly quotas: %w", err)
	}
	return quotas, nil
}

// Upsert creates or replaces the override for (student, month).
func (r *QuotaRepository) Upsert(ctx context.Context, quota *models.MonthlyQuota) error {
	const query = `INSERT INTO monthly_quotas (student_id, month, required_sessions) VALUES ($1, $2, $3)
        ON CONFLICT (student_id, month) DO UPDATE SET required_sessions = EXCLUDED.required_sessions
        RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, quota.StudentID, quota.Month, quota.RequiredSessions).Scan(&quota.ID); err != nil {
		return fmt.Errorf("upsert monthly quota: %w", err)
	}
	return nil
}
