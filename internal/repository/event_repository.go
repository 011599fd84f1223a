package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

const eventSelect = `SELECT e.id, e.student_id, e.event_type, e.date_of_session, e.time_of_start, e.time_of_end,
        e.status, e.active, e.plan_notes, e.makeup_for_event_id, e.is_makeup, e.created_at,
        s.first_name, s.last_name
        FROM events e LEFT JOIN students s ON s.id = e.student_id`

// EventRepository persists calendar events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListActive returns every active event for the calendar.
func (r *EventRepository) ListActive(ctx context.Context) ([]models.EventWithStudent, error) {
	query := eventSelect + " WHERE e.active = TRUE ORDER BY e.date_of_session, e.time_of_start"
	var events []models.EventWithStudent
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListSessions returns active Session events matching the filter, ordered by start time.
func (r *EventRepository) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.EventWithStudent, error) {
	conditions := []string{"e.active = TRUE", "e.event_type = $1"}
	args := []interface{}{models.EventTypeSession}

	if filter.Date != nil {
		args = append(args, dateArg(*filter.Date))
		conditions = append(conditions, fmt.Sprintf("e.date_of_session = $%d", len(args)))
	}
	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY e.time_of_start", eventSelect, strings.Join(conditions, " AND "))
	var events []models.EventWithStudent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return events, nil
}

// ListPending returns active sessions still marked Scheduled.
func (r *EventRepository) ListPending(ctx context.Context) ([]models.EventWithStudent, error) {
	query := eventSelect + " WHERE e.active = TRUE AND e.event_type = $1 AND e.status = $2 ORDER BY e.date_of_session, e.time_of_start"
	var events []models.EventWithStudent
	if err := r.db.SelectContext(ctx, &events, query, models.EventTypeSession, models.EventStatusScheduled); err != nil {
		return nil, fmt.Errorf("list pending sessions: %w", err)
	}
	return events, nil
}

// ListUpcoming returns the next scheduled sessions on or after from.
func (r *EventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.EventWithStudent, error) {
	query := eventSelect + ` WHERE e.active = TRUE AND e.event_type = $1 AND e.status = $2 AND e.date_of_session >= $3
        ORDER BY e.date_of_session, e.time_of_start LIMIT $4`
	var events []models.EventWithStudent
	if err := r.db.SelectContext(ctx, &events, query, models.EventTypeSession, models.EventStatusScheduled, dateArg(from), limit); err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	return events, nil
}

// ListStudentSessions returns all of a student's sessions, newest date first.
func (r *EventRepository) ListStudentSessions(ctx context.Context, studentID int64) ([]models.EventWithStudent, error) {
	query := eventSelect + " WHERE e.student_id = $1 AND e.event_type = $2 ORDER BY e.date_of_session DESC, e.time_of_start"
	var events []models.EventWithStudent
	if err := r.db.SelectContext(ctx, &events, query, studentID, models.EventTypeSession); err != nil {
		return nil, fmt.Errorf("list student sessions: %w", err)
	}
	return events, nil
}

// CountStudentSessions counts a student's active sessions with one of the statuses in [from, to].
func (r *EventRepository) CountStudentSessions(ctx context.Context, studentID int64, from, to time.Time, statuses []string) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	args := []interface{}{studentID, models.EventTypeSession, dateArg(from), dateArg(to)}
	for _, s := range statuses {
		args = append(args, s)
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM events WHERE student_id = $1 AND event_type = $2 AND active = TRUE
        AND date_of_session BETWEEN $3 AND $4 AND status IN (%s)`, placeholders(5, len(statuses)))
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count student sessions: %w", err)
	}
	return total, nil
}

// FindByID fetches an event regardless of active state.
func (r *EventRepository) FindByID(ctx context.Context, id int64) (*models.EventWithStudent, error) {
	var event models.EventWithStudent
	if err := r.db.GetContext(ctx, &event, eventSelect+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateMany inserts events atomically and links each to the given objectives.
func (r *EventRepository) CreateMany(ctx context.Context, events []*models.Event, objectiveIDs []int64) error {
	return withTx(ctx, r.db, "create events", func(tx *sqlx.Tx) error {
		const query = `INSERT INTO events (student_id, event_type, date_of_session, time_of_start, time_of_end, status, active,
        plan_notes, makeup_for_event_id, is_makeup)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at`
		for _, ev := range events {
			ev.Active = true
			if err := tx.QueryRowxContext(ctx, query,
				ev.StudentID, ev.EventType, dateArg(ev.DateOfSession), clockArg(ev.TimeOfStart), clockArg(ev.TimeOfEnd),
				ev.Status, ev.Active, ev.PlanNotes, ev.MakeupForEventID, ev.IsMakeup,
			).Scan(&ev.ID, &ev.CreatedAt); err != nil {
				return fmt.Errorf("create event: %w", err)
			}
			for _, objectiveID := range objectiveIDs {
				if _, err := tx.ExecContext(ctx, `INSERT INTO event_objectives (event_id, objective_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, ev.ID, objectiveID); err != nil {
					return fmt.Errorf("link event objective: %w", err)
				}
			}
		}
		return nil
	})
}

// Update persists every editable column of an event.
func (r *EventRepository) Update(ctx context.Context, ev *models.Event) error {
	const query = `UPDATE events SET student_id = $1, event_type = $2, date_of_session = $3, time_of_start = $4,
        time_of_end = $5, status = $6, plan_notes = $7 WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		ev.StudentID, ev.EventType, dateArg(ev.DateOfSession), clockArg(ev.TimeOfStart), clockArg(ev.TimeOfEnd),
		ev.Status, ev.PlanNotes, ev.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectAffected(res, "update event")
}

// UpdateStatus changes only the status column.
func (r *EventRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return expectAffected(res, "update event status")
}

// Archive soft deletes an event.
func (r *EventRepository) Archive(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive event: %w", err)
	}
	return expectAffected(res, "archive event")
}

// ListObjectiveIDs returns the objectives targeted by an event.
func (r *EventRepository) ListObjectiveIDs(ctx context.Context, eventID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT objective_id FROM event_objectives WHERE event_id = $1 ORDER BY objective_id`, eventID); err != nil {
		return nil, fmt.Errorf("list event objectives: %w", err)
	}
	return ids, nil
}
