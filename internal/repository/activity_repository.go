package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

// ActivityRepository persists the activity lookup table.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ListActive returns active activities by name.
func (r *ActivityRepository) ListActive(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, `SELECT id, name, active FROM activities WHERE active = TRUE ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// FindByID fetches an activity.
func (r *ActivityRepository) FindByID(ctx context.Context, id int64) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, `SELECT id, name, active FROM activities WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Create inserts an activity. Duplicate names surface as a unique violation.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	activity.Active = true
	if err := r.db.QueryRowxContext(ctx, `INSERT INTO activities (name, active) VALUES ($1, $2) RETURNING id`, activity.Name, activity.Active).Scan(&activity.ID); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// Rename changes an activity's name.
func (r *ActivityRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE activities SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("rename activity: %w", err)
	}
	return expectAffected(res, "rename activity")
}

// Archive soft deletes an activity.
func (r *ActivityRepository) Archive(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE activities SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive activity: %w", err)
	}
	return expectAffected(res, "archive activity")
}
