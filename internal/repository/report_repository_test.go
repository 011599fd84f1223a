package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slp-caseload/internal/models"
)

func TestReportRepositoryMonthlySessionCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "first_name", "last_name", "monthly_services", "quota_override", "completed", "excused", "makeup_needed", "prior_makeups"}).
		AddRow(1, "Ana", "Lopez", "4", nil, 2, 1, 0, 1)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN monthly_quotas q ON q.student_id = s.id AND q.month = $3")).
		WithArgs("2025-02-01", "2025-02-28", "2025-02", models.EventStatusCompleted, models.EventStatusExcused, models.EventStatusMakeupNeeded, models.EventTypeSession).
		WillReturnRows(rows)

	counts, err := repo.MonthlySessionCounts(context.Background(), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Nil(t, counts[0].QuotaOverride)
	assert.Equal(t, 2, counts[0].Completed)
	assert.Equal(t, 1, counts[0].PriorMakeups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryMakeupNeededOrdering(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	cols := append(append([]string{}, eventCols...), "makeup_scheduled")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY s.last_name DESC, s.first_name DESC, e.id")).
		WithArgs(models.EventTypeSession, models.EventStatusMakeupNeeded).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, 1, "Session", time.Now(), clock(8, 0), clock(8, 30), "Makeup Needed", true, nil, nil, false, time.Now(), "Ana", "Lopez", true))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY e.time_of_start ASC, e.id")).
		WithArgs(models.EventTypeSession, models.EventStatusMakeupNeeded).
		WillReturnRows(sqlmock.NewRows(cols))

	rows, err := repo.MakeupNeeded(context.Background(), "student_za")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].MakeupScheduled)

	_, err = repo.MakeupNeeded(context.Background(), "; DROP TABLE events")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
