package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slp-caseload/internal/models"
)

var studentCols = []string{"id", "first_name", "last_name", "preferred_name", "pronouns", "grade", "monthly_services",
	"reevaluation_date", "annual_review_date", "active", "created_at", "updated_at"}

func TestStudentRepositoryListActiveWithGrade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows(studentCols).
		AddRow(1, "Ana", "Lopez", nil, "she/her", "3", "4", nil, nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE active = TRUE AND grade = $1 ORDER BY first_name, last_name")).
		WithArgs("3").
		WillReturnRows(rows)

	students, err := repo.ListActive(context.Background(), models.StudentFilter{Grade: "3"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "she/her", students[0].PronounValue())
	assert.Equal(t, 4, students[0].MonthlyServiceCount())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySearchUsesILike(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE active = TRUE AND (first_name ILIKE $1 OR last_name ILIKE $1)")).
		WithArgs("%lo%").
		WillReturnRows(sqlmock.NewRows(studentCols))

	students, err := repo.ListActive(context.Background(), models.StudentFilter{Search: "lo"})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Ana", "Lopez", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	student := &models.Student{FirstName: "Ana", LastName: "Lopez"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(11), student.ID)
	assert.True(t, student.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryArchiveCascades(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET active = FALSE")).
		WithArgs(int64(4), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE objectives SET active = FALSE WHERE goal_id IN (SELECT id FROM goals WHERE student_id = $1)")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE goals SET active = FALSE WHERE student_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Archive(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryArchiveMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET active = FALSE")).
		WithArgs(int64(99), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Archive(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateProfileScopesChildEdits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET first_name = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE goals SET goal_description = $1 WHERE id = $2 AND student_id = $3")).
		WithArgs("Improve /r/", int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE objectives SET objective_description = $1")).
		WithArgs("Produce /r/ in words", int64(9), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	student := &models.Student{ID: 2, FirstName: "Ana", LastName: "Lopez"}
	err := repo.UpdateProfile(context.Background(), student, map[int64]string{7: "Improve /r/"}, map[int64]string{9: "Produce /r/ in words"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
