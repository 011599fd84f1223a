package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

const studentColumns = `id, first_name, last_name, preferred_name, pronouns, grade, monthly_services,
        reevaluation_date, annual_review_date, active, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListActive returns active students ordered by first name, optionally filtered.
func (r *StudentRepository) ListActive(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	conditions := []string{"active = TRUE"}
	args := []interface{}{}

	if filter.Grade != "" {
		args = append(args, filter.Grade)
		conditions = append(conditions, fmt.Sprintf("grade = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", len(args), len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY first_name, last_name", studentColumns, strings.Join(conditions, " AND "))

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student regardless of active state.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// CountActive returns the number of active students.
func (r *StudentRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students WHERE active = TRUE`); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	student.Active = true
	const query = `INSERT INTO students (first_name, last_name, preferred_name, pronouns, grade, monthly_services,
        reevaluation_date, annual_review_date, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		student.FirstName, student.LastName, student.PreferredName, student.Pronouns, student.Grade,
		student.MonthlyServices, student.ReevaluationDate, student.AnnualReviewDate, student.Active,
		student.CreatedAt, student.UpdatedAt,
	).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// UpdateProfile saves the student's fields together with goal and objective description edits.
// Edits are keyed by id and only touch rows owned by this student.
func (r *StudentRepository) UpdateProfile(ctx context.Context, student *models.Student, goalEdits, objectiveEdits map[int64]string) error {
	student.UpdatedAt = time.Now().UTC()
	return withTx(ctx, r.db, "update student", func(tx *sqlx.Tx) error {
		const query = `UPDATE students SET first_name = $1, last_name = $2, preferred_name = $3, pronouns = $4, grade = $5,
        monthly_services = $6, reevaluation_date = $7, annual_review_date = $8, updated_at = $9 WHERE id = $10`
		res, err := tx.ExecContext(ctx, query,
			student.FirstName, student.LastName, student.PreferredName, student.Pronouns, student.Grade,
			student.MonthlyServices, student.ReevaluationDate, student.AnnualReviewDate, student.UpdatedAt, student.ID,
		)
		if err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		if err := expectAffected(res, "update student"); err != nil {
			return err
		}

		for id, description := range goalEdits {
			if _, err := tx.ExecContext(ctx, `UPDATE goals SET goal_description = $1 WHERE id = $2 AND student_id = $3`, description, id, student.ID); err != nil {
				return fmt.Errorf("update goal %d: %w", id, err)
			}
		}
		for id, description := range objectiveEdits {
			const objQuery = `UPDATE objectives SET objective_description = $1
        WHERE id = $2 AND goal_id IN (SELECT id FROM goals WHERE student_id = $3)`
			if _, err := tx.ExecContext(ctx, objQuery, description, id, student.ID); err != nil {
				return fmt.Errorf("update objective %d: %w", id, err)
			}
		}
		return nil
	})
}

// Archive soft deletes a student and cascades the flag to their goals and objectives.
func (r *StudentRepository) Archive(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, "archive student", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE students SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("archive student: %w", err)
		}
		if err := expectAffected(res, "archive student"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE objectives SET active = FALSE WHERE goal_id IN (SELECT id FROM goals WHERE student_id = $1)`, id); err != nil {
			return fmt.Errorf("archive student objectives: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE goals SET active = FALSE WHERE student_id = $1`, id); err != nil {
			return fmt.Errorf("archive student goals: %w", err)
		}
		return nil
	})
}
