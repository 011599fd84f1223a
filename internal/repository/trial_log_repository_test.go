package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slp-caseload/internal/models"
)

func TestTrialLogRepositoryCreateMany(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTrialLogRepository(db)

	objective := int64(4)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO trial_logs")).
		WillReturnRows(sqlmockRows("id", int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO trial_logs")).
		WillReturnRows(sqlmockRows("id", int64(2)))
	mock.ExpectCommit()

	logs := []*models.TrialLog{{StudentID: 1, ObjectiveID: &objective, Independent: 3}, {StudentID: 1, Independent: 3}}
	require.NoError(t, repo.CreateMany(context.Background(), logs))
	assert.Equal(t, int64(2), logs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
