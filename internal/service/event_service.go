package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/dto"
	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

const calendarLayout = "2006-01-02T15:04:05"

type eventRepository interface {
	ListActive(ctx context.Context) ([]models.EventWithStudent, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.EventWithStudent, error)
	ListPending(ctx context.Context) ([]models.EventWithStudent, error)
	ListStudentSessions(ctx context.Context, studentID int64) ([]models.EventWithStudent, error)
	FindByID(ctx context.Context, id int64) (*models.EventWithStudent, error)
	CreateMany(ctx context.Context, events []*models.Event, objectiveIDs []int64) error
	Update(ctx context.Context, ev *models.Event) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Archive(ctx context.Context, id int64) error
	ListObjectiveIDs(ctx context.Context, eventID int64) ([]int64, error)
}

type activeStudentLister interface {
	ListActive(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type studentTrialLogReader interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.TrialLogView, error)
}

type objectiveLister interface {
	ListActiveObjectives(ctx context.Context, studentID *int64) ([]models.StudentObjective, error)
}

// CreateEventRequest creates one event, or one Session per student in StudentIDs.
type CreateEventRequest struct {
	EventType     string  `json:"event_type" validate:"omitempty,max=32"`
	DateOfSession string  `json:"date_of_session" validate:"required"`
	TimeOfStart   string  `json:"time_of_start" validate:"required"`
	TimeOfEnd     string  `json:"time_of_end" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,oneof='Scheduled' 'Completed' 'Excused Absence' 'Makeup Needed'"`
	PlanNotes     *string `json:"plan_notes" validate:"omitempty,max=64"`
	StudentID     *int64  `json:"student_id" validate:"omitempty,gt=0"`
	StudentIDs    []int64 `json:"student_ids" validate:"dive,gt=0"`
	ObjectiveIDs  []int64 `json:"objective_ids" validate:"dive,gt=0"`
}

// UpdateEventRequest carries a partial event update; nil fields are left unchanged.
type UpdateEventRequest struct {
	StudentID     *int64  `json:"student_id" validate:"omitempty,gt=0"`
	ClearStudent  bool    `json:"clear_student"`
	EventType     *string `json:"event_type" validate:"omitempty,min=1,max=32"`
	DateOfSession *string `json:"date_of_session"`
	TimeOfStart   *string `json:"time_of_start"`
	TimeOfEnd     *string `json:"time_of_end"`
	Status        *string `json:"status" validate:"omitempty,oneof='Scheduled' 'Completed' 'Excused Absence' 'Makeup Needed'"`
	PlanNotes     *string `json:"plan_notes" validate:"omitempty,max=64"`
}

// BulkSessionEntry is one student's row on the bulk scheduling form.
type BulkSessionEntry struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Time      string `json:"time"`
	Status    string `json:"status" validate:"omitempty,oneof='Scheduled' 'Completed' 'Excused Absence' 'Makeup Needed'"`
}

// BulkSessionsRequest schedules sessions for many students on one date.
type BulkSessionsRequest struct {
	SessionDate string             `json:"session_date" validate:"required"`
	Entries     []BulkSessionEntry `json:"entries" validate:"dive"`
}

// MakeupRequest schedules a makeup for a missed session.
type MakeupRequest struct {
	DateOfSession string  `json:"date_of_session" validate:"required"`
	TimeOfStart   string  `json:"time_of_start" validate:"required"`
	TimeOfEnd     string  `json:"time_of_end"`
	PlanNotes     *string `json:"plan_notes" validate:"omitempty,max=64"`
}

// EventServiceParams groups constructor dependencies.
type EventServiceParams struct {
	Events         eventRepository
	Students       activeStudentLister
	TrialLogs      studentTrialLogReader
	Objectives     objectiveLister
	Cache          *CacheService
	Metrics        *MetricsService
	Validator      *validator.Validate
	Logger         *zap.Logger
	SessionMinutes int
}

// EventService schedules and maintains calendar events.
type EventService struct {
	events          eventRepository
	students        activeStudentLister
	trialLogs       studentTrialLogReader
	objectives      objectiveLister
	cache           *CacheService
	metrics         *MetricsService
	validator       *validator.Validate
	logger          *zap.Logger
	sessionDuration time.Duration
}

// NewEventService constructs the event service.
func NewEventService(params EventServiceParams) *EventService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minutes := params.SessionMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return &EventService{
		events:          params.Events,
		students:        params.Students,
		trialLogs:       params.TrialLogs,
		objectives:      params.Objectives,
		cache:           params.Cache,
		metrics:         params.Metrics,
		validator:       validate,
		logger:          logger,
		sessionDuration: time.Duration(minutes) * time.Minute,
	}
}

// SessionMinutes is the fixed length of bulk-scheduled sessions.
func (s *EventService) SessionMinutes() int {
	return int(s.sessionDuration / time.Minute)
}

// Calendar renders every active event in the calendar feed shape.
func (s *EventService) Calendar(ctx context.Context) ([]models.CalendarEvent, error) {
	events, err := s.events.ListActive(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list events")
	}
	out := make([]models.CalendarEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, models.CalendarEvent{
			ID:        ev.ID,
			Title:     ev.Title(),
			Start:     ev.Start().Format(calendarLayout),
			End:       ev.End().Format(calendarLayout),
			Status:    ev.Status,
			PlanNotes: ev.PlanNotes,
		})
	}
	return out, nil
}

// Create branches on the event type: Sessions fan out per student, Meetings and
// Assessments need exactly one student, anything else may omit the student.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) ([]models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid event payload")
	}
	day, err := parseDate(req.DateOfSession)
	if err != nil {
		return nil, err
	}
	start, err := parseClock(req.TimeOfStart)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(req.TimeOfEnd)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must not be before start time")
	}

	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		eventType = models.EventTypeSession
	}
	status := req.Status
	if status == "" {
		status = models.EventStatusScheduled
	}
	template := models.Event{
		EventType:     eventType,
		DateOfSession: day,
		TimeOfStart:   start,
		TimeOfEnd:     end,
		Status:        status,
		PlanNotes:     optionalString(req.PlanNotes),
	}

	var events []*models.Event
	switch eventType {
	case models.EventTypeSession:
		if len(req.StudentIDs) == 0 && req.StudentID != nil {
			req.StudentIDs = []int64{*req.StudentID}
		}
		if len(req.StudentIDs) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "select at least one student for a session")
		}
		for _, id := range uniqueIDs(req.StudentIDs) {
			ev := template
			studentID := id
			ev.StudentID = &studentID
			events = append(events, &ev)
		}
	case models.EventTypeMeeting, models.EventTypeAssessment:
		if req.StudentID == nil {
			return nil, appErrors.Clone(appErrors.ErrStudentRequired, appErrors.ErrStudentRequired.Message)
		}
		ev := template
		ev.StudentID = req.StudentID
		events = append(events, &ev)
	default:
		ev := template
		ev.StudentID = req.StudentID
		events = append(events, &ev)
	}

	for _, ev := range events {
		if ev.StudentID == nil {
			continue
		}
		if err := s.requireActiveStudent(ctx, *ev.StudentID); err != nil {
			return nil, err
		}
	}
	if err := s.events.CreateMany(ctx, events, uniqueIDs(req.ObjectiveIDs)); err != nil {
		s.logger.Error("create events failed", zap.String("event_type", eventType), zap.Error(err))
		return nil, internalError(err, "failed to create events")
	}
	s.metrics.AddEvents(eventType, len(events))
	s.cache.InvalidateCaseload(ctx)
	return derefEvents(events), nil
}

// Update applies a partial update to an event.
func (s *EventService) Update(ctx context.Context, id int64, req UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid event payload")
	}
	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}
	current, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "event")
	}
	ev := current.Event
	applyPatch(&ev, patch)

	if ev.TimeOfEnd.Before(ev.TimeOfStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must not be before start time")
	}
	if (ev.EventType == models.EventTypeMeeting || ev.EventType == models.EventTypeAssessment) && ev.StudentID == nil {
		return nil, appErrors.Clone(appErrors.ErrStudentRequired, appErrors.ErrStudentRequired.Message)
	}
	if patch.Empty() {
		return &ev, nil
	}
	if req.StudentID != nil {
		if err := s.requireActiveStudent(ctx, *req.StudentID); err != nil {
			return nil, err
		}
	}
	if err := s.events.Update(ctx, &ev); err != nil {
		return nil, mutationError(err, "event", "update")
	}
	s.cache.InvalidateCaseload(ctx)
	return &ev, nil
}

// ListSessions returns active sessions filtered by date, student and status.
func (s *EventService) ListSessions(ctx context.Context, filterDate, filterStudent, filterStatus string) ([]models.EventWithStudent, error) {
	filter := models.SessionFilter{Status: strings.TrimSpace(filterStatus)}
	day, err := parseOptionalDate(filterDate)
	if err != nil {
		return nil, err
	}
	filter.Date = day
	if raw := strings.TrimSpace(filterStudent); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid student filter")
		}
		filter.StudentID = &id
	}
	sessions, err := s.events.ListSessions(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list sessions")
	}
	return sessions, nil
}

// Pending returns Scheduled sessions that still need a status update.
func (s *EventService) Pending(ctx context.Context) ([]models.EventWithStudent, error) {
	sessions, err := s.events.ListPending(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list pending sessions")
	}
	return sessions, nil
}

// Archive soft deletes an event.
func (s *EventService) Archive(ctx context.Context, id int64) error {
	if err := s.events.Archive(ctx, id); err != nil {
		return mutationError(err, "event", "archive")
	}
	s.cache.InvalidateCaseload(ctx)
	return nil
}

// Delete removes an event from every listing. Rows are kept for audit, so this is an archive.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.Archive(ctx, id); err != nil {
		return err
	}
	s.logger.Info("event deleted", zap.Int64("event_id", id))
	return nil
}

// UpdateStatus sets a session's status. A blank status leaves the event untouched.
func (s *EventService) UpdateStatus(ctx context.Context, id int64, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		if _, err := s.events.FindByID(ctx, id); err != nil {
			return lookupError(err, "event")
		}
		return nil
	}
	if !models.ValidEventStatus(status) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown session status")
	}
	if err := s.events.UpdateStatus(ctx, id, status); err != nil {
		return mutationError(err, "event", "update")
	}
	s.cache.InvalidateCaseload(ctx)
	return nil
}

// BulkForm lists the active students offered for bulk scheduling.
func (s *EventService) BulkForm(ctx context.Context) (*dto.BulkSessionsForm, error) {
	students, err := s.students.ListActive(ctx, models.StudentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return &dto.BulkSessionsForm{Students: students, Statuses: models.EventStatuses, DurationMinutes: s.SessionMinutes()}, nil
}

// BulkSessions creates one Session per active student with a start time on the chosen date.
// Entries without a time are skipped; nothing is written if any entry is invalid or names
// a student outside the active caseload.
func (s *EventService) BulkSessions(ctx context.Context, req BulkSessionsRequest) ([]models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid bulk session payload")
	}
	day, err := parseDate(req.SessionDate)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListActive(ctx, models.StudentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	active := make(map[int64]struct{}, len(students))
	for _, st := range students {
		active[st.ID] = struct{}{}
	}

	var events []*models.Event
	seen := make(map[int64]struct{})
	for _, entry := range req.Entries {
		if strings.TrimSpace(entry.Time) == "" {
			continue
		}
		if _, ok := active[entry.StudentID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		if _, dup := seen[entry.StudentID]; dup {
			continue
		}
		seen[entry.StudentID] = struct{}{}
		start, err := parseClock(entry.Time)
		if err != nil {
			return nil, err
		}
		status := entry.Status
		if status == "" {
			status = models.EventStatusScheduled
		}
		studentID := entry.StudentID
		events = append(events, &models.Event{
			StudentID:     &studentID,
			EventType:     models.EventTypeSession,
			DateOfSession: day,
			TimeOfStart:   start,
			TimeOfEnd:     start.Add(s.sessionDuration),
			Status:        status,
		})
	}
	if len(events) == 0 {
		return []models.Event{}, nil
	}
	if err := s.events.CreateMany(ctx, events, nil); err != nil {
		s.logger.Error("bulk session insert rolled back", zap.String("date", req.SessionDate), zap.Error(err))
		return nil, internalError(err, "failed to create sessions")
	}
	s.metrics.AddEvents(models.EventTypeSession, len(events))
	s.cache.InvalidateCaseload(ctx)
	return derefEvents(events), nil
}

func (s *EventService) requireActiveStudent(ctx context.Context, id int64) error {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "student")
	}
	if !student.Active {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return nil
}

// ScheduleMakeup books a makeup Session for a session marked "Makeup Needed".
// The makeup inherits the student and targeted objectives of the missed session.
func (s *EventService) ScheduleMakeup(ctx context.Context, missedID int64, req MakeupRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid makeup payload")
	}
	day, err := parseDate(req.DateOfSession)
	if err != nil {
		return nil, err
	}
	start, err := parseClock(req.TimeOfStart)
	if err != nil {
		return nil, err
	}
	end := start.Add(s.sessionDuration)
	if strings.TrimSpace(req.TimeOfEnd) != "" {
		if end, err = parseClock(req.TimeOfEnd); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must not be before start time")
	}

	missed, err := s.events.FindByID(ctx, missedID)
	if err != nil {
		return nil, lookupError(err, "event")
	}
	if !missed.Active || missed.EventType != models.EventTypeSession || missed.Status != models.EventStatusMakeupNeeded {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only active sessions marked Makeup Needed can be made up")
	}
	objectiveIDs, err := s.events.ListObjectiveIDs(ctx, missedID)
	if err != nil {
		return nil, internalError(err, "failed to load session objectives")
	}

	sourceID := missed.ID
	makeup := &models.Event{
		StudentID:        missed.StudentID,
		EventType:        models.EventTypeSession,
		DateOfSession:    day,
		TimeOfStart:      start,
		TimeOfEnd:        end,
		Status:           models.EventStatusScheduled,
		PlanNotes:        optionalString(req.PlanNotes),
		MakeupForEventID: &sourceID,
		IsMakeup:         true,
	}
	if err := s.events.CreateMany(ctx, []*models.Event{makeup}, objectiveIDs); err != nil {
		return nil, internalError(err, "failed to schedule makeup")
	}
	s.metrics.AddEvents(models.EventTypeSession, 1)
	s.cache.InvalidateCaseload(ctx)
	s.logger.Info("makeup scheduled", zap.Int64("missed_event_id", missedID), zap.Int64("makeup_event_id", makeup.ID))
	return makeup, nil
}

// StudentSessions returns a student's sessions, bucketed trial logs and active objectives.
// Archived students remain viewable here so their history stays reachable.
func (s *EventService) StudentSessions(ctx context.Context, studentID int64) (*dto.StudentSessionsResponse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	sessions, err := s.events.ListStudentSessions(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list sessions")
	}
	logs, err := s.trialLogs.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list trial logs")
	}
	objectives, err := s.objectives.ListActiveObjectives(ctx, &studentID)
	if err != nil {
		return nil, internalError(err, "failed to list objectives")
	}

	resp := &dto.StudentSessionsResponse{Student: *student, Sessions: sessions, Objectives: objectives}
	for _, log := range logs {
		resp.TrialLogs.Add(log)
	}
	return resp, nil
}

func buildPatch(req UpdateEventRequest) (models.EventPatch, error) {
	patch := models.EventPatch{
		StudentID:    req.StudentID,
		ClearStudent: req.ClearStudent,
		EventType:    req.EventType,
		Status:       req.Status,
		PlanNotes:    req.PlanNotes,
	}
	if req.DateOfSession != nil {
		day, err := parseDate(*req.DateOfSession)
		if err != nil {
			return patch, err
		}
		patch.DateOfSession = &day
	}
	if req.TimeOfStart != nil {
		start, err := parseClock(*req.TimeOfStart)
		if err != nil {
			return patch, err
		}
		patch.TimeOfStart = &start
	}
	if req.TimeOfEnd != nil {
		end, err := parseClock(*req.TimeOfEnd)
		if err != nil {
			return patch, err
		}
		patch.TimeOfEnd = &end
	}
	return patch, nil
}

func applyPatch(ev *models.Event, patch models.EventPatch) {
	if patch.ClearStudent {
		ev.StudentID = nil
	}
	if patch.StudentID != nil {
		ev.StudentID = patch.StudentID
	}
	if patch.EventType != nil {
		ev.EventType = strings.TrimSpace(*patch.EventType)
	}
	if patch.DateOfSession != nil {
		ev.DateOfSession = *patch.DateOfSession
	}
	if patch.TimeOfStart != nil {
		ev.TimeOfStart = *patch.TimeOfStart
	}
	if patch.TimeOfEnd != nil {
		ev.TimeOfEnd = *patch.TimeOfEnd
	}
	if patch.Status != nil {
		ev.Status = *patch.Status
	}
	if patch.PlanNotes != nil {
		ev.PlanNotes = optionalString(patch.PlanNotes)
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func derefEvents(events []*models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, *ev)
	}
	return out
}
