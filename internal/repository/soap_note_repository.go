package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slp-caseload/internal/models"
)

// SoapNoteRepository persists SOAP notes.
type SoapNoteRepository struct {
	db *sqlx.DB
}

// NewSoapNoteRepository constructs a SoapNoteRepository.
func NewSoapNoteRepository(db *sqlx.DB) *SoapNoteRepository {
	return &SoapNoteRepository{db: db}
}

const soapNoteInsert = `INSERT INTO soap_notes (student_id, note_date, note_text, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

// Create inserts a single note.
func (r *SoapNoteRepository) Create(ctx context.Context, note *models.SoapNote) error {
	note.CreatedAt = time.Now().UTC()
	if err := r.db.QueryRowxContext(ctx, soapNoteInsert, note.StudentID, dateArg(note.NoteDate), note.NoteText, note.CreatedAt).Scan(&note.ID); err != nil {
		return fmt.Errorf("create soap note: %w", err)
	}
	return nil
}

// CreateMany inserts notes atomically; any failure rolls back the batch.
func (r *SoapNoteRepository) CreateMany(ctx context.Context, notes []*models.SoapNote) error {
	return withTx(ctx, r.db, "create soap notes", func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		for _, note := range notes {
			note.CreatedAt = now
			if err := tx.QueryRowxContext(ctx, soapNoteInsert, note.StudentID, dateArg(note.NoteDate), note.NoteText, note.CreatedAt).Scan(&note.ID); err != nil {
				return fmt.Errorf("create soap note: %w", err)
			}
		}
		return nil
	})
}

// List returns notes matching the filter, newest note date first.
func (r *SoapNoteRepository) List(ctx context.Context, filter models.SoapNoteFilter) ([]models.SoapNoteWithStudent, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("n.student_id = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, dateArg(*filter.StartDate))
		conditions = append(conditions, fmt.Sprintf("n.note_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, dateArg(*filter.EndDate))
		conditions = append(conditions, fmt.Sprintf("n.note_date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT n.id, n.student_id, n.note_date, n.note_text, n.created_at, s.first_name, s.last_name, s.preferred_name
        FROM soap_notes n JOIN students s ON s.id = n.student_id
        WHERE %s ORDER BY n.note_date DESC, n.id DESC`, strings.Join(conditions, " AND "))

	var notes []models.SoapNoteWithStudent
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("list soap notes: %w", err)
	}
	return notes, nil
}
