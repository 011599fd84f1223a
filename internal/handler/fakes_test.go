package handler

import (
	"context"
	"encoding/json"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/service"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeStudentSrv struct {
	students   []models.Student
	lastFilter models.StudentFilter
	detail     *models.StudentDetail
	err        error
	archived   []int64
}

func (f *fakeStudentSrv) List(_ context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.lastFilter = filter
	return f.students, f.err
}

func (f *fakeStudentSrv) Get(_ context.Context, id int64) (*models.StudentDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.detail == nil || f.detail.ID != id {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return f.detail, nil
}

func (f *fakeStudentSrv) Create(_ context.Context, req service.StudentRequest) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: 1, FirstName: req.FirstName, LastName: req.LastName, Active: true}, nil
}

func (f *fakeStudentSrv) Update(_ context.Context, id int64, req service.UpdateStudentRequest) (*models.StudentDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.StudentDetail{Student: models.Student{ID: id, FirstName: req.FirstName, LastName: req.LastName}}, nil
}

func (f *fakeStudentSrv) Archive(_ context.Context, id int64) error {
	f.archived = append(f.archived, id)
	return f.err
}

type fakeGoalSrv struct {
	archivedGoal int64
}

func (f *fakeGoalSrv) GetGoal(_ context.Context, id int64) (*models.Goal, error) {
	return &models.Goal{ID: id, StudentID: 3, Description: "articulate /s/", Active: true}, nil
}

func (f *fakeGoalSrv) GetObjective(_ context.Context, id int64) (*models.Objective, error) {
	return &models.Objective{ID: id, GoalID: 2, Description: "produce /s/ in words", Active: true}, nil
}

func (f *fakeGoalSrv) AddGoal(_ context.Context, studentID int64, req service.GoalRequest) (*models.GoalWithObjectives, error) {
	return &models.GoalWithObjectives{Goal: models.Goal{ID: 9, StudentID: studentID, Description: req.Description, Active: true}}, nil
}

func (f *fakeGoalSrv) EditGoal(_ context.Context, id int64, description string) (*models.Goal, error) {
	return &models.Goal{ID: id, Description: description, Active: true}, nil
}

func (f *fakeGoalSrv) ArchiveGoal(_ context.Context, id int64) (int64, error) {
	f.archivedGoal = id
	return 3, nil
}

func (f *fakeGoalSrv) AddObjective(_ context.Context, goalID int64, req service.ObjectiveRequest) (*models.Objective, error) {
	return &models.Objective{ID: 11, GoalID: goalID, Description: req.Description, Active: true}, nil
}

func (f *fakeGoalSrv) EditObjective(_ context.Context, id int64, req service.ObjectiveRequest) (*models.Objective, error) {
	return &models.Objective{ID: id, Description: req.Description, Active: true}, nil
}

func (f *fakeGoalSrv) ArchiveObjective(context.Context, int64) (int64, error) {
	return 2, nil
}

type fakeEventSrv struct {
	calendar      []models.CalendarEvent
	created       []models.Event
	createErr     error
	lastCreate    service.CreateEventRequest
	lastStatus    string
	statusID      int64
	statusErr     error
	sessionFilter [3]string
	archived      []int64
	makeupFor     int64
}

func (f *fakeEventSrv) Calendar(context.Context) ([]models.CalendarEvent, error) {
	return f.calendar, nil
}

func (f *fakeEventSrv) Create(_ context.Context, req service.CreateEventRequest) ([]models.Event, error) {
	f.lastCreate = req
	return f.created, f.createErr
}

func (f *fakeEventSrv) Update(_ context.Context, id int64, req service.UpdateEventRequest) (*models.Event, error) {
	ev := &models.Event{ID: id, EventType: models.EventTypeSession, Active: true}
	if req.Status != nil {
		ev.Status = *req.Status
	}
	return ev, nil
}

func (f *fakeEventSrv) ListSessions(_ context.Context, filterDate, filterStudent, filterStatus string) ([]models.EventWithStudent, error) {
	f.sessionFilter = [3]string{filterDate, filterStudent, filterStatus}
	return []models.EventWithStudent{}, nil
}

func (f *fakeEventSrv) Pending(context.Context) ([]models.EventWithStudent, error) {
	return []models.EventWithStudent{}, nil
}

func (f *fakeEventSrv) Archive(_ context.Context, id int64) error {
	f.archived = append(f.archived, id)
	return nil
}

func (f *fakeEventSrv) Delete(_ context.Context, id int64) error {
	f.archived = append(f.archived, id)
	return nil
}

func (f *fakeEventSrv) UpdateStatus(_ context.Context, id int64, status string) error {
	f.statusID = id
	f.lastStatus = status
	return f.statusErr
}

func (f *fakeEventSrv) BulkForm(context.Context) (*dto.BulkSessionsForm, error) {
	return &dto.BulkSessionsForm{Statuses: models.EventStatuses, DurationMinutes: 30}, nil
}

func (f *fakeEventSrv) BulkSessions(context.Context, service.BulkSessionsRequest) ([]models.Event, error) {
	return f.created, nil
}

func (f *fakeEventSrv) ScheduleMakeup(_ context.Context, missedID int64, _ service.MakeupRequest) (*models.Event, error) {
	f.makeupFor = missedID
	return &models.Event{ID: 50, MakeupForEventID: &missedID, IsMakeup: true}, nil
}

func (f *fakeEventSrv) StudentSessions(_ context.Context, studentID int64) (*dto.StudentSessionsResponse, error) {
	return &dto.StudentSessionsResponse{Student: models.Student{ID: studentID}}, nil
}

type fakeTrialLogSrv struct {
	byDate *dto.TrialLogsByDateResponse
}

func (f *fakeTrialLogSrv) Form(_ context.Context, studentID *int64) (*dto.TrialLogForm, error) {
	return &dto.TrialLogForm{SelectedStudentID: studentID}, nil
}

func (f *fakeTrialLogSrv) Submit(_ context.Context, req service.SubmitTrialLogsRequest) ([]models.TrialLog, error) {
	return []models.TrialLog{{ID: 1, StudentID: req.StudentID}}, nil
}

func (f *fakeTrialLogSrv) StudentLogs(_ context.Context, studentID int64) (*dto.StudentTrialLogsResponse, error) {
	return &dto.StudentTrialLogsResponse{Student: models.Student{ID: studentID}}, nil
}

func (f *fakeTrialLogSrv) ByDate(_ context.Context, raw string) (*dto.TrialLogsByDateResponse, error) {
	if f.byDate != nil {
		return f.byDate, nil
	}
	return &dto.TrialLogsByDateResponse{Date: raw, TrialLogs: []models.TrialLogView{}}, nil
}

type fakeSoapSrv struct {
	generated  *dto.SoapNoteResult
	genErr     error
	lastFilter service.SoapNoteFilterRequest
	export     *service.ExportFile
	bulkErr    error
}

func (f *fakeSoapSrv) Form(_ context.Context, _ *int64) (*dto.SoapFormResponse, error) {
	return &dto.SoapFormResponse{CurrentMonth: "October", MonthlyServices: "Not specified"}, nil
}

func (f *fakeSoapSrv) Generate(context.Context, service.GenerateSoapNoteRequest) (*dto.SoapNoteResult, error) {
	return f.generated, f.genErr
}

func (f *fakeSoapSrv) Add(_ context.Context, req service.AddSoapNoteRequest) (*models.SoapNote, error) {
	return &models.SoapNote{ID: 4, StudentID: req.StudentID, NoteText: req.FullNote}, nil
}

func (f *fakeSoapSrv) BulkAdd(_ context.Context, req service.BulkSoapNotesRequest) ([]models.SoapNote, error) {
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	notes := make([]models.SoapNote, len(req.Notes))
	for i, n := range req.Notes {
		notes[i] = models.SoapNote{ID: int64(i + 1), StudentID: n.StudentID, NoteText: n.NoteText}
	}
	return notes, nil
}

func (f *fakeSoapSrv) List(_ context.Context, req service.SoapNoteFilterRequest) ([]models.SoapNoteWithStudent, error) {
	f.lastFilter = req
	return []models.SoapNoteWithStudent{}, nil
}

func (f *fakeSoapSrv) Students(context.Context) ([]models.Student, error) {
	return []models.Student{{ID: 1, FirstName: "Ava", LastName: "Stone", Active: true}}, nil
}

func (f *fakeSoapSrv) ExportCSV(_ context.Context, req service.SoapNoteFilterRequest) (*service.ExportFile, error) {
	f.lastFilter = req
	return f.export, nil
}

type fakeQuarterlySrv struct {
	startCalls    int
	generateCalls int
	lastStudent   *int64
}

func (f *fakeQuarterlySrv) Start(_ context.Context, studentID *int64) (*dto.QuarterlyStartResponse, error) {
	f.startCalls++
	f.lastStudent = studentID
	if studentID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, service.MsgSelectStudent)
	}
	return &dto.QuarterlyStartResponse{Student: models.Student{ID: *studentID}, DefaultQuarter: "Q2"}, nil
}

func (f *fakeQuarterlySrv) Generate(_ context.Context, req service.GenerateQuarterlyRequest) (*dto.QuarterlyReportResult, error) {
	f.generateCalls++
	return &dto.QuarterlyReportResult{Student: models.Student{ID: req.StudentID}, Quarter: req.Quarter, Paragraphs: []string{"Ava demonstrated good progress in the second quarter."}}, nil
}

func (f *fakeQuarterlySrv) Save(_ context.Context, req service.SaveQuarterlyRequest) (*models.QuarterlyReport, error) {
	return &models.QuarterlyReport{ID: 6, StudentID: req.StudentID, Quarter: req.Quarter}, nil
}

func (f *fakeQuarterlySrv) History(context.Context, *int64) ([]models.QuarterlyReportWithStudent, error) {
	return []models.QuarterlyReportWithStudent{}, nil
}

func (f *fakeQuarterlySrv) PDF(_ context.Context, id int64) (*service.ExportFile, error) {
	return &service.ExportFile{Filename: "quarterly_report.pdf", ContentType: "application/pdf", Payload: []byte("%PDF-1.3")}, nil
}

type fakeReportSrv struct {
	monthly     *models.MonthlySessionsReport
	hit         bool
	lastMonth   [2]int
	lastSort    string
	lastFormat  string
	matrixStart *int
}

func (f *fakeReportSrv) MonthlySessions(_ context.Context, month, year int, sortBy string) (*models.MonthlySessionsReport, bool, error) {
	f.lastMonth = [2]int{month, year}
	f.lastSort = sortBy
	return f.monthly, f.hit, nil
}

func (f *fakeReportSrv) MonthlySessionsExport(_ context.Context, month, year int, sortBy, format string) (*service.ExportFile, error) {
	f.lastMonth = [2]int{month, year}
	f.lastFormat = format
	return &service.ExportFile{Filename: "monthly_sessions_2025_10.csv", ContentType: "text/csv", Payload: []byte("Student\n")}, nil
}

func (f *fakeReportSrv) MakeupNeeded(_ context.Context, sortBy string) (*models.MakeupNeededReport, error) {
	f.lastSort = sortBy
	return &models.MakeupNeededReport{SortBy: sortBy}, nil
}

func (f *fakeReportSrv) MakeupsByMonth(_ context.Context, start *int) (*models.MakeupMatrix, error) {
	f.matrixStart = start
	return &models.MakeupMatrix{SchoolYearStart: 2025}, nil
}

type fakeActivitySrv struct {
	addErr error
}

func (f *fakeActivitySrv) List(context.Context) ([]models.Activity, error) {
	return []models.Activity{{ID: 1, Name: "Card game", Active: true}}, nil
}

func (f *fakeActivitySrv) Get(_ context.Context, id int64) (*models.Activity, error) {
	return &models.Activity{ID: id, Name: "Card game", Active: true}, nil
}

func (f *fakeActivitySrv) Add(_ context.Context, name string) (*models.Activity, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &models.Activity{ID: 2, Name: name, Active: true}, nil
}

func (f *fakeActivitySrv) Rename(_ context.Context, id int64, name string) (*models.Activity, error) {
	return &models.Activity{ID: id, Name: name, Active: true}, nil
}

func (f *fakeActivitySrv) Archive(context.Context, int64) error {
	return nil
}

type fakeQuotaSrv struct{}

func (fakeQuotaSrv) List(context.Context, *int64) ([]models.MonthlyQuota, error) {
	return []models.MonthlyQuota{}, nil
}

func (fakeQuotaSrv) Upsert(_ context.Context, req service.QuotaRequest) (*models.MonthlyQuota, error) {
	return &models.MonthlyQuota{StudentID: req.StudentID, Month: req.Month, RequiredSessions: req.RequiredSessions}, nil
}

type fakeDashboardSrv struct {
	summary *models.DashboardSummary
	hit     bool
	err     error
}

func (f *fakeDashboardSrv) Summary(context.Context) (*models.DashboardSummary, bool, error) {
	return f.summary, f.hit, f.err
}

type fakeChecker struct {
	readyErr error
}

func (f *fakeChecker) Ready(context.Context) error {
	return f.readyErr
}

func (f *fakeChecker) Status(context.Context, int) (*service.SystemStatus, error) {
	return &service.SystemStatus{Database: "ok"}, nil
}
