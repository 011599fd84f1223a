package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slp-caseload/internal/models"
)

var eventCols = []string{"id", "student_id", "event_type", "date_of_session", "time_of_start", "time_of_end",
	"status", "active", "plan_notes", "makeup_for_event_id", "is_makeup", "created_at", "first_name", "last_name"}

func clock(h, m int) time.Time { return time.Date(0, 1, 1, h, m, 0, 0, time.UTC) }

func TestEventRepositoryCreateManyFansOut(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	for i, sid := range []int64{1, 2, 3} {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events")).
			WithArgs(sid, models.EventTypeSession, "2025-01-10", "09:00:00", "09:30:00", models.EventStatusScheduled, true, sqlmock.AnyArg(), sqlmock.AnyArg(), false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(100+i), time.Now()))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_objectives")).
			WithArgs(int64(100+i), int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	events := make([]*models.Event, 0, 3)
	for _, sid := range []int64{1, 2, 3} {
		id := sid
		events = append(events, &models.Event{StudentID: &id, EventType: models.EventTypeSession, DateOfSession: day,
			TimeOfStart: clock(9, 0), TimeOfEnd: clock(9, 30), Status: models.EventStatusScheduled})
	}

	require.NoError(t, repo.CreateMany(context.Background(), events, []int64{8}))
	assert.Equal(t, int64(102), events[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreateManyRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events")).WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := repo.CreateMany(context.Background(), []*models.Event{{EventType: models.EventTypeReminder}}, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListSessionsFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	sid := int64(5)
	rows := sqlmock.NewRows(eventCols).
		AddRow(1, 5, "Session", day, clock(9, 0), clock(9, 30), "Completed", true, nil, nil, false, time.Now(), "Ana", "Lopez")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.active = TRUE AND e.event_type = $1 AND e.date_of_session = $2 AND e.student_id = $3 AND e.status = $4 ORDER BY e.time_of_start")).
		WithArgs(models.EventTypeSession, "2025-01-10", sid, "Completed").
		WillReturnRows(rows)

	events, err := repo.ListSessions(context.Background(), models.SessionFilter{Date: &day, StudentID: &sid, Status: "Completed"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Session - Ana Lopez", events[0].Title())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCountStudentSessions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("AND status IN ($5, $6)")).
		WithArgs(int64(2), models.EventTypeSession, "2025-02-01", "2025-02-28", models.EventStatusCompleted, models.EventStatusExcused).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountStudentSessions(context.Background(), 2, from, to, []string{models.EventStatusCompleted, models.EventStatusExcused})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountStudentSessions(context.Background(), 2, from, to, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
