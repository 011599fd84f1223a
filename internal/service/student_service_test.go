package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

func newStudentServiceForTest(repo *fakeStudentRepo, goals *fakeGoalStore, cache *CacheService) *StudentService {
	return NewStudentService(repo, goals, cache, validator.New(), zap.NewNop())
}

func TestStudentServiceCreate(t *testing.T) {
	repo := newFakeStudentRepo()
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := newStudentServiceForTest(repo, &fakeGoalStore{}, cache)

	student, err := svc.Create(context.Background(), StudentRequest{
		FirstName:        " Ana ",
		LastName:         "Lopez",
		PreferredName:    strPtr("  "),
		Pronouns:         strPtr("she/her"),
		MonthlyServices:  strPtr("4"),
		AnnualReviewDate: "2025-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", student.FirstName)
	assert.Nil(t, student.PreferredName)
	require.NotNil(t, student.AnnualReviewDate)
	assert.Equal(t, "2025-03-01", student.AnnualReviewDate.Format("2006-01-02"))
	assert.Len(t, repo.students, 1)
	assert.ElementsMatch(t, []string{"dash:*", "report:*"}, cacheRepo.deleted)
}

func TestStudentServiceCreateRejectsBadDate(t *testing.T) {
	svc := newStudentServiceForTest(newFakeStudentRepo(), &fakeGoalStore{}, nil)

	_, err := svc.Create(context.Background(), StudentRequest{FirstName: "Ana", LastName: "Lopez", ReevaluationDate: "03/01/2025"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDateTime))
}

func TestStudentServiceCreateRequiresNames(t *testing.T) {
	svc := newStudentServiceForTest(newFakeStudentRepo(), &fakeGoalStore{}, nil)

	_, err := svc.Create(context.Background(), StudentRequest{FirstName: "Ana"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceGetNestsGoals(t *testing.T) {
	repo := newFakeStudentRepo(models.Student{ID: 1, FirstName: "Ana", LastName: "Lopez", Active: true})
	goals := &fakeGoalStore{
		goals: []models.Goal{
			{ID: 10, StudentID: 1, Description: "Articulation", Active: true},
			{ID: 11, StudentID: 1, Description: "Old goal", Active: false},
		},
		objectives: []models.Objective{
			{ID: 20, GoalID: 10, Description: "Produce /s/", Active: true},
			{ID: 21, GoalID: 10, Description: "Produce /r/", Active: true},
		},
	}
	svc := newStudentServiceForTest(repo, goals, nil)

	detail, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, detail.Goals, 1)
	assert.Equal(t, int64(10), detail.Goals[0].ID)
	assert.Len(t, detail.Goals[0].Objectives, 2)
}

func TestStudentServiceGetArchivedIsNotFound(t *testing.T) {
	repo := newFakeStudentRepo(models.Student{ID: 1, FirstName: "Ana", LastName: "Lopez", Active: false})
	svc := newStudentServiceForTest(repo, &fakeGoalStore{}, nil)

	_, err := svc.Get(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Get(context.Background(), 99)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestStudentServiceUpdateIgnoresForeignEdits(t *testing.T) {
	repo := newFakeStudentRepo(
		models.Student{ID: 1, FirstName: "Ana", LastName: "Lopez", Active: true},
		models.Student{ID: 2, FirstName: "Ben", LastName: "Ng", Active: true},
	)
	goals := &fakeGoalStore{
		goals: []models.Goal{
			{ID: 10, StudentID: 1, Description: "Articulation", Active: true},
			{ID: 30, StudentID: 2, Description: "Fluency", Active: true},
		},
		objectives: []models.Objective{
			{ID: 20, GoalID: 10, Description: "Produce /s/", Active: true},
			{ID: 40, GoalID: 30, Description: "Easy onset", Active: true},
		},
	}
	svc := newStudentServiceForTest(repo, goals, nil)

	_, err := svc.Update(context.Background(), 1, UpdateStudentRequest{
		StudentRequest: StudentRequest{FirstName: "Ana", LastName: "Lopez-Garcia"},
		Goals:          []DescriptionEdit{{ID: 10, Description: "Speech sounds"}, {ID: 30, Description: "hijacked"}},
		Objectives:     []DescriptionEdit{{ID: 40, Description: "hijacked"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{10: "Speech sounds"}, repo.goalEdits)
	assert.Empty(t, repo.objectiveEdits)
	assert.Equal(t, "Lopez-Garcia", repo.students[1].LastName)
}

func TestStudentServiceArchive(t *testing.T) {
	repo := newFakeStudentRepo(models.Student{ID: 1, FirstName: "Ana", LastName: "Lopez", Active: true})
	svc := newStudentServiceForTest(repo, &fakeGoalStore{}, nil)

	require.NoError(t, svc.Archive(context.Background(), 1))
	assert.Contains(t, repo.archived, int64(1))

	err := svc.Archive(context.Background(), 42)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
