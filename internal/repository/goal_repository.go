package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

// GoalRepository persists IEP goals and their objectives.
type GoalRepository struct {
	db *sqlx.DB
}

// NewGoalRepository constructs a GoalRepository.
func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// ListByStudent returns a student's goals ordered by id.
func (r *GoalRepository) ListByStudent(ctx context.Context, studentID int64, activeOnly bool) ([]models.Goal, error) {
	query := `SELECT id, student_id, goal_description, active FROM goals WHERE student_id = $1`
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY id"
	var goals []models.Goal
	if err := r.db.SelectContext(ctx, &goals, query, studentID); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// ListObjectivesByStudent returns objectives under any of the student's goals.
func (r *GoalRepository) ListObjectivesByStudent(ctx context.Context, studentID int64, activeOnly bool) ([]models.Objective, error) {
	query := `SELECT o.id, o.goal_id, o.objective_description, o.with_accuracy, o.notes, o.active
        FROM objectives o JOIN goals g ON g.id = o.goal_id
        WHERE g.student_id = $1`
	if activeOnly {
		query += " AND o.active = TRUE AND g.active = TRUE"
	}
	query += " ORDER BY o.goal_id, o.id"
	var objectives []models.Objective
	if err := r.db.SelectContext(ctx, &objectives, query, studentID); err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	return objectives, nil
}

// ListActiveObjectives returns active objectives of active students, optionally for one student.
func (r *GoalRepository) ListActiveObjectives(ctx context.Context, studentID *int64) ([]models.StudentObjective, error) {
	query := `SELECT o.id, o.goal_id, o.objective_description, o.with_accuracy, o.notes, o.active,
        g.student_id, g.goal_description AS goal_description_text
        FROM objectives o
        JOIN goals g ON g.id = o.goal_id
        JOIN students s ON s.id = g.student_id
        WHERE o.active = TRUE AND g.active = TRUE AND s.active = TRUE`
	args := []interface{}{}
	if studentID != nil {
		query += " AND g.student_id = $1"
		args = append(args, *studentID)
	}
	query += " ORDER BY o.objective_description"
	var objectives []models.StudentObjective
	if err := r.db.SelectContext(ctx, &objectives, query, args...); err != nil {
		return nil, fmt.Errorf("list active objectives: %w", err)
	}
	return objectives, nil
}

// FindGoal fetches a goal by id.
func (r *GoalRepository) FindGoal(ctx context.Context, id int64) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.GetContext(ctx, &goal, `SELECT id, student_id, goal_description, active FROM goals WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &goal, nil
}

// FindObjective fetches an objective by id.
func (r *GoalRepository) FindObjective(ctx context.Context, id int64) (*models.Objective, error) {
	var objective models.Objective
	const query = `SELECT id, goal_id, objective_description, with_accuracy, notes, active FROM objectives WHERE id = $1`
	if err := r.db.GetContext(ctx, &objective, query, id); err != nil {
		return nil, err
	}
	return &objective, nil
}

// CountActive counts active goals.
func (r *GoalRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM goals WHERE active = TRUE`); err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return total, nil
}

// CreateGoal inserts a goal and, when provided, its first objective in one transaction.
func (r *GoalRepository) CreateGoal(ctx context.Context, goal *models.Goal, first *models.Objective) error {
	goal.Active = true
	return withTx(ctx, r.db, "create goal", func(tx *sqlx.Tx) error {
		const query = `INSERT INTO goals (student_id, goal_description, active) VALUES ($1, $2, $3) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query, goal.StudentID, goal.Description, goal.Active).Scan(&goal.ID); err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		if first == nil {
			return nil
		}
		first.GoalID = goal.ID
		return insertObjective(ctx, tx, first)
	})
}

// CreateObjective inserts an objective under an existing goal.
func (r *GoalRepository) CreateObjective(ctx context.Context, objective *models.Objective) error {
	return withTx(ctx, r.db, "create objective", func(tx *sqlx.Tx) error {
		return insertObjective(ctx, tx, objective)
	})
}

// UpdateGoal changes a goal's description.
func (r *GoalRepository) UpdateGoal(ctx context.Context, id int64, description string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE goals SET goal_description = $1 WHERE id = $2`, description, id)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return expectAffected(res, "update goal")
}

// UpdateObjective saves an objective's editable fields.
func (r *GoalRepository) UpdateObjective(ctx context.Context, objective *models.Objective) error {
	const query = `UPDATE objectives SET objective_description = $1, with_accuracy = $2, notes = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, objective.Description, objective.WithAccuracy, objective.Notes, objective.ID)
	if err != nil {
		return fmt.Errorf("update objective: %w", err)
	}
	return expectAffected(res, "update objective")
}

// ArchiveGoal deactivates a goal and its objectives.
func (r *GoalRepository) ArchiveGoal(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, "archive goal", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE goals SET active = FALSE WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("archive goal: %w", err)
		}
		if err := expectAffected(res, "archive goal"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE objectives SET active = FALSE WHERE goal_id = $1`, id); err != nil {
			return fmt.Errorf("archive goal objectives: %w", err)
		}
		return nil
	})
}

// ArchiveObjective deactivates a single objective.
func (r *GoalRepository) ArchiveObjective(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE objectives SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive objective: %w", err)
	}
	return expectAffected(res, "archive objective")
}

func insertObjective(ctx context.Context, tx *sqlx.Tx, objective *models.Objective) error {
	objective.Active = true
	const query = `INSERT INTO objectives (goal_id, objective_description, with_accuracy, notes, active)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query, objective.GoalID, objective.Description, objective.WithAccuracy, objective.Notes, objective.Active).Scan(&objective.ID); err != nil {
		return fmt.Errorf("create objective: %w", err)
	}
	return nil
}
