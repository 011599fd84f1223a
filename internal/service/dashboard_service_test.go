package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
)

func TestDashboardServiceSummary(t *testing.T) {
	students := newFakeStudentRepo(
		models.Student{ID: 1, FirstName: "Ana", Active: true},
		models.Student{ID: 2, FirstName: "Ben", Active: false},
	)
	goals := &fakeGoalStore{goals: []models.Goal{{ID: 1, Active: true}, {ID: 2, Active: true}, {ID: 3}}}
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	var upcoming []models.EventWithStudent
	for i := 1; i <= 7; i++ {
		upcoming = append(upcoming, models.EventWithStudent{Event: models.Event{ID: int64(i), DateOfSession: day(10 + i), Active: true}})
	}
	upcoming = append(upcoming, models.EventWithStudent{Event: models.Event{ID: 99, DateOfSession: day(1), Active: true}})
	events := newFakeEventRepo(upcoming...)

	cacheRepo := newMemoryCacheRepo()
	svc := NewDashboardService(DashboardServiceParams{
		Students: students,
		Goals:    goals,
		Events:   events,
		Cache:    NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true),
		Logger:   zap.NewNop(),
	})
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC) }

	summary, cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, summary.TotalStudents)
	assert.Equal(t, 2, summary.TotalGoals)
	assert.Equal(t, "2025-03-10", summary.Today)
	require.Len(t, summary.UpcomingSessions, 5)
	assert.Equal(t, int64(1), summary.UpcomingSessions[0].ID)

	_, cached, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
}
