package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

func newTrialLogFixture() (*TrialLogService, *fakeTrialLogRepo) {
	students := newFakeStudentRepo(
		models.Student{ID: 1, FirstName: "Ana", Active: true},
		models.Student{ID: 2, FirstName: "Ben", Active: true},
	)
	goals := &fakeGoalStore{
		goals: []models.Goal{
			{ID: 10, StudentID: 1, Active: true},
			{ID: 30, StudentID: 2, Active: true},
		},
		objectives: []models.Objective{
			{ID: 20, GoalID: 10, Active: true},
			{ID: 21, GoalID: 10, Active: true},
			{ID: 40, GoalID: 30, Active: true},
		},
	}
	repo := &fakeTrialLogRepo{}
	svc := NewTrialLogService(repo, students, goals, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestTrialLogServiceSubmitOnePerObjective(t *testing.T) {
	svc, repo := newTrialLogFixture()

	logs, err := svc.Submit(context.Background(), SubmitTrialLogsRequest{
		StudentID:     1,
		ObjectiveIDs:  []int64{20, 21, 20},
		DateOfSession: "2025-03-04",
		TrialCounters: TrialCounters{Independent: 8, MinimalSupport: 2},
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(20), *logs[0].ObjectiveID)
	assert.Equal(t, int64(21), *logs[1].ObjectiveID)
	assert.Equal(t, 8, logs[0].Independent)
	assert.Len(t, repo.created, 2)
}

func TestTrialLogServiceSubmitWithoutObjectives(t *testing.T) {
	svc, repo := newTrialLogFixture()

	logs, err := svc.Submit(context.Background(), SubmitTrialLogsRequest{
		StudentID:     1,
		DateOfSession: "2025-03-04",
		TrialCounters: TrialCounters{CorrectNoSupport: 3},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].ObjectiveID)
	assert.Len(t, repo.created, 1)
}

func TestTrialLogServiceSubmitRejectsForeignObjective(t *testing.T) {
	svc, repo := newTrialLogFixture()

	_, err := svc.Submit(context.Background(), SubmitTrialLogsRequest{
		StudentID:     1,
		ObjectiveIDs:  []int64{40},
		DateOfSession: "2025-03-04",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.created)
}

func TestTrialLogServiceSubmitRejectsNegativeCounters(t *testing.T) {
	svc, _ := newTrialLogFixture()

	_, err := svc.Submit(context.Background(), SubmitTrialLogsRequest{
		StudentID:     1,
		DateOfSession: "2025-03-04",
		TrialCounters: TrialCounters{Incorrect: -1},
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTrialLogServiceByDateFallsBackToToday(t *testing.T) {
	svc, repo := newTrialLogFixture()

	resp, err := svc.ByDate(context.Background(), "not-a-date")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", resp.Date)
	assert.Equal(t, InvalidDateMessage, resp.Message)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), repo.queried)
	assert.NotNil(t, resp.TrialLogs)
}

func TestTrialLogServiceByDateComputesMetrics(t *testing.T) {
	svc, repo := newTrialLogFixture()
	repo.views = []models.TrialLogView{{TrialLog: models.TrialLog{ID: 1, StudentID: 1, Independent: 3, IncorrectNew: 1}}}

	resp, err := svc.ByDate(context.Background(), "2025-02-01")
	require.NoError(t, err)
	assert.Empty(t, resp.Message)
	require.Len(t, resp.TrialLogs, 1)
	assert.Equal(t, models.TrialSystemNew, resp.TrialLogs[0].Metrics.System)
	assert.InDelta(t, 75.0, resp.TrialLogs[0].Metrics.PercentIndependent, 0.001)
}

func TestTrialLogServiceStudentLogsBuckets(t *testing.T) {
	svc, repo := newTrialLogFixture()
	repo.views = []models.TrialLogView{
		{TrialLog: models.TrialLog{ID: 1, Independent: 2}},
		{TrialLog: models.TrialLog{ID: 2, CorrectNoSupport: 4}},
		{TrialLog: models.TrialLog{ID: 3}},
	}

	resp, err := svc.StudentLogs(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, resp.TrialLogs.New, 1)
	assert.Len(t, resp.TrialLogs.Legacy, 1)
	assert.Len(t, resp.TrialLogs.Unclassified, 1)
}
