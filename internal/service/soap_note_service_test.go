package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

type fakeSoapNoteRepo struct {
	created []*models.SoapNote
	listed  []models.SoapNoteWithStudent
	filter  models.SoapNoteFilter
	bulkErr error
}

func (f *fakeSoapNoteRepo) Create(ctx context.Context, note *models.SoapNote) error {
	note.ID = int64(len(f.created) + 1)
	f.created = append(f.created, note)
	return nil
}

func (f *fakeSoapNoteRepo) CreateMany(ctx context.Context, notes []*models.SoapNote) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	for _, note := range notes {
		if err := f.Create(ctx, note); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSoapNoteRepo) List(ctx context.Context, filter models.SoapNoteFilter) ([]models.SoapNoteWithStudent, error) {
	f.filter = filter
	return f.listed, nil
}

type fakeActivityLister struct{}

func (fakeActivityLister) ListActive(ctx context.Context) ([]models.Activity, error) {
	return []models.Activity{{ID: 1, Name: "Articulation cards", Active: true}}, nil
}

func newSoapFixture() (*SoapNoteService, *fakeSoapNoteRepo, *fakeEventRepo) {
	students := newFakeStudentRepo(
		models.Student{ID: 1, FirstName: "Alexander", LastName: "Smith", PreferredName: strPtr("Alex"), Pronouns: strPtr("he/him"), MonthlyServices: strPtr("4"), Active: true},
		models.Student{ID: 2, FirstName: "Riley", LastName: "Jones", Active: true},
	)
	notes := &fakeSoapNoteRepo{}
	events := newFakeEventRepo()
	svc := NewSoapNoteService(SoapNoteServiceParams{
		Notes:      notes,
		Students:   students,
		Objectives: &fakeGoalStore{},
		Activities: fakeActivityLister{},
		Sessions:   events,
		Exports:    NewExportService(nil, ExportConfig{}, nil, zap.NewNop(), nil, nil),
		Logger:     zap.NewNop(),
		Signature:  "-Test Clinician, CCC-SLP",
	})
	svc.now = func() time.Time { return time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC) }
	return svc, notes, events
}

func TestSoapNoteServiceForm(t *testing.T) {
	svc, _, events := newSoapFixture()
	events.sessionCount = 3

	form, err := svc.Form(context.Background(), int64Ptr(1))
	require.NoError(t, err)
	assert.Equal(t, "April", form.CurrentMonth)
	assert.Equal(t, "4", form.MonthlyServices)
	assert.Equal(t, 3, form.SessionCount)
	assert.Len(t, form.Students, 2)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), events.countedFrom)
	assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), events.countedTo)

	form, err = svc.Form(context.Background(), int64Ptr(2))
	require.NoError(t, err)
	assert.Equal(t, "Not specified", form.MonthlyServices)
}

func TestSoapNoteServiceGenerate(t *testing.T) {
	svc, notes, _ := newSoapFixture()

	result, err := svc.Generate(context.Background(), GenerateSoapNoteRequest{
		StudentID:         1,
		Month:             "April",
		SessionNumber:     "2",
		TotalSessions:     "4",
		Performance:       "cooperative",
		Activity:          "Other",
		ActivityOther:     "a board game",
		Objective:         "produce /s/ in initial position",
		Accuracy:          "80",
		SupportLevel:      "Other",
		SupportLevelOther: "",
		VisualCues:        []string{"Pointing"},
		Save:              true,
	})
	require.NoError(t, err)
	assert.Equal(t, "April Session 2/4: Alex attended his individual speech therapy session. He was cooperative.", result.Subjective)
	assert.Equal(t, "He was given a board game. He was able to produce /s/ in initial position with 80% accuracy with support.", result.Objective)
	assert.Equal(t, "He benefited from visual cues. Visual cues included pointing.", result.Assessment)
	assert.Equal(t, "Continue to target IEP goals. -Test Clinician, CCC-SLP", result.Plan)
	assert.True(t, strings.HasPrefix(result.FullNote, "S: April Session 2/4"))
	assert.Equal(t, "2025-04-15", result.NoteDate)
	require.NotNil(t, result.Saved)
	require.Len(t, notes.created, 1)
	assert.Equal(t, result.FullNote, notes.created[0].NoteText)
}

func TestSoapNoteServiceGenerateWithoutSave(t *testing.T) {
	svc, notes, _ := newSoapFixture()

	result, err := svc.Generate(context.Background(), GenerateSoapNoteRequest{
		StudentID: 2, Month: "April", SessionNumber: "1", TotalSessions: "4", Performance: "engaged",
		Activity: "Articulation cards", Objective: "answer wh- questions", Accuracy: "60", SupportLevel: "with minimal support",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Saved)
	assert.Empty(t, notes.created)
	assert.Contains(t, result.Subjective, "Riley attended their individual speech therapy session. They were engaged.")
}

func TestSoapNoteServiceAddMissingFields(t *testing.T) {
	svc, notes, _ := newSoapFixture()

	_, err := svc.Add(context.Background(), AddSoapNoteRequest{StudentID: 1, FullNote: "  "})
	require.Error(t, err)
	assert.Equal(t, MsgSoapMissingFields, appErrors.FromError(err).Message)
	assert.Empty(t, notes.created)

	note, err := svc.Add(context.Background(), AddSoapNoteRequest{StudentID: 1, FullNote: "S: ok", NoteDate: "2025-04-01"})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", note.NoteDate.Format("2006-01-02"))
}

func TestSoapNoteServiceBulkAddIsAllOrNothing(t *testing.T) {
	svc, notes, _ := newSoapFixture()
	notes.bulkErr = errors.New("pq: insert or update on table violates foreign key constraint")

	_, err := svc.BulkAdd(context.Background(), BulkSoapNotesRequest{Notes: []BulkSoapNoteEntry{
		{StudentID: 1, NoteDate: "2025-04-01", NoteText: "first"},
		{StudentID: 99, NoteDate: "2025-04-02", NoteText: "second"},
	}})
	require.Error(t, err)
	assert.Equal(t, MsgSoapBulkFailed, appErrors.FromError(err).Message)
	assert.Empty(t, notes.created)

	_, err = svc.BulkAdd(context.Background(), BulkSoapNotesRequest{Notes: []BulkSoapNoteEntry{{StudentID: 1, NoteDate: "2025-04-01"}}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSoapNoteServiceListParsesFilters(t *testing.T) {
	svc, notes, _ := newSoapFixture()

	_, err := svc.List(context.Background(), SoapNoteFilterRequest{StudentID: int64Ptr(1), StartDate: "2025-04-01"})
	require.NoError(t, err)
	require.NotNil(t, notes.filter.StartDate)
	assert.Nil(t, notes.filter.EndDate)

	_, err = svc.List(context.Background(), SoapNoteFilterRequest{EndDate: "yesterday"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDateTime))
}

func TestSoapNoteServiceExportRedactsNames(t *testing.T) {
	svc, notes, _ := newSoapFixture()
	notes.listed = []models.SoapNoteWithStudent{{
		SoapNote:      models.SoapNote{ID: 3, StudentID: 1, NoteDate: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), NoteText: "S: Alex attended.\nO: ALEXANDER smiled."},
		FirstName:     "Alexander",
		LastName:      "Smith",
		PreferredName: strPtr("Alex"),
	}}

	file, err := svc.ExportCSV(context.Background(), SoapNoteFilterRequest{})
	require.NoError(t, err)
	body := string(file.Payload)
	assert.Equal(t, "soap_notes.csv", file.Filename)
	assert.Contains(t, body, "Note ID,Student ID,Date,Student,Note Text")
	assert.Contains(t, body, "3,1,2025-04-02,AS,S: 1 attended. O: 1 smiled.")
	assert.NotContains(t, strings.ToLower(body), "alex")
}
