package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

const trialLogSelect = `SELECT t.id, t.student_id, t.objective_id, t.date_of_session,
        t.correct_no_support, t.correct_visual_cue, t.correct_verbal_cue, t.correct_visual_verbal_cue, t.correct_modeling, t.incorrect,
        t.independent, t.minimal_support, t.moderate_support, t.maximal_support, t.incorrect_new, t.notes,
        o.objective_description
        FROM trial_logs t LEFT JOIN objectives o ON o.id = t.objective_id`

// TrialLogRepository persists trial logs.
type TrialLogRepository struct {
	db *sqlx.DB
}

// NewTrialLogRepository constructs a TrialLogRepository.
func NewTrialLogRepository(db *sqlx.DB) *TrialLogRepository {
	return &TrialLogRepository{db: db}
}

// CreateMany inserts all logs in one transaction.
func (r *TrialLogRepository) CreateMany(ctx context.Context, logs []*models.TrialLog) error {
	return withTx(ctx, r.db, "create trial logs", func(tx *sqlx.Tx) error {
		const query = `INSERT INTO trial_logs (student_id, objective_id, date_of_session,
        correct_no_support, correct_visual_cue, correct_verbal_cue, correct_visual_verbal_cue, correct_modeling, incorrect,
        independent, minimal_support, moderate_support, maximal_support, incorrect_new, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
		for _, l := range logs {
			if err := tx.QueryRowxContext(ctx, query,
				l.StudentID, l.ObjectiveID, dateArg(l.DateOfSession),
				l.CorrectNoSupport, l.CorrectVisualCue, l.CorrectVerbalCue, l.CorrectVisualVerbalCue, l.CorrectModeling, l.Incorrect,
				l.Independent, l.MinimalSupport, l.ModerateSupport, l.MaximalSupport, l.IncorrectNew, l.Notes,
			).Scan(&l.ID); err != nil {
				return fmt.Errorf("create trial log: %w", err)
			}
		}
		return nil
	})
}

// ListByStudent returns a student's logs, newest session first.
func (r *TrialLogRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.TrialLogView, error) {
	var logs []models.TrialLogView
	if err := r.db.SelectContext(ctx, &logs, trialLogSelect+" WHERE t.student_id = $1 ORDER BY t.date_of_session DESC, t.id DESC", studentID); err != nil {
		return nil, fmt.Errorf("list student trial logs: %w", err)
	}
	return logs, nil
}

// ListByDate returns every log recorded for a session date, grouped by student.
func (r *TrialLogRepository) ListByDate(ctx context.Context, day time.Time) ([]models.TrialLogView, error) {
	var logs []models.TrialLogView
	if err := r.db.SelectContext(ctx, &logs, trialLogSelect+" WHERE t.date_of_session = $1 ORDER BY t.student_id, t.id", dateArg(day)); err != nil {
		return nil, fmt.Errorf("list trial logs by date: %w", err)
	}
	return logs, nil
}
