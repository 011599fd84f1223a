package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

func strPtr(v string) *string { return &v }

func int64Ptr(v int64) *int64 { return &v }

type fakeStudentRepo struct {
	students       map[int64]*models.Student
	nextID         int64
	goalEdits      map[int64]string
	objectiveEdits map[int64]string
	archived       []int64
	err            error
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: make(map[int64]*models.Student), nextID: 100}
	for i := range students {
		s := students[i]
		repo.students[s.ID] = &s
	}
	return repo
}

func (f *fakeStudentRepo) ListActive(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		if s.Active {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStudentRepo) CountActive(ctx context.Context) (int, error) {
	students, err := f.ListActive(ctx, models.StudentFilter{})
	return len(students), err
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	student.ID = f.nextID
	student.Active = true
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentRepo) UpdateProfile(ctx context.Context, student *models.Student, goalEdits, objectiveEdits map[int64]string) error {
	if _, ok := f.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *student
	f.students[student.ID] = &copied
	f.goalEdits = goalEdits
	f.objectiveEdits = objectiveEdits
	return nil
}

func (f *fakeStudentRepo) Archive(ctx context.Context, id int64) error {
	s, ok := f.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Active = false
	f.archived = append(f.archived, id)
	return nil
}

type fakeGoalStore struct {
	goals      []models.Goal
	objectives []models.Objective
}

func (f *fakeGoalStore) ListByStudent(ctx context.Context, studentID int64, activeOnly bool) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range f.goals {
		if g.StudentID == studentID && (!activeOnly || g.Active) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) ListObjectivesByStudent(ctx context.Context, studentID int64, activeOnly bool) ([]models.Objective, error) {
	owned := make(map[int64]struct{})
	for _, g := range f.goals {
		if g.StudentID == studentID {
			owned[g.ID] = struct{}{}
		}
	}
	var out []models.Objective
	for _, o := range f.objectives {
		if _, ok := owned[o.GoalID]; ok && (!activeOnly || o.Active) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) ListActiveObjectives(ctx context.Context, studentID *int64) ([]models.StudentObjective, error) {
	goals := make(map[int64]models.Goal)
	for _, g := range f.goals {
		if g.Active && (studentID == nil || g.StudentID == *studentID) {
			goals[g.ID] = g
		}
	}
	var out []models.StudentObjective
	for _, o := range f.objectives {
		g, ok := goals[o.GoalID]
		if !ok || !o.Active {
			continue
		}
		out = append(out, models.StudentObjective{Objective: o, StudentID: g.StudentID, GoalDescription: g.Description})
	}
	return out, nil
}

func (f *fakeGoalStore) CountActive(ctx context.Context) (int, error) {
	n := 0
	for _, g := range f.goals {
		if g.Active {
			n++
		}
	}
	return n, nil
}

type fakeEventRepo struct {
	events         map[int64]*models.EventWithStudent
	objectiveLinks map[int64][]int64
	createCalls    int
	created        []*models.Event
	linked         []int64
	updated        []*models.Event
	statuses       map[int64]string
	nextID         int64
	createErr      error
	sessionCount   int
	countedFrom    time.Time
	countedTo      time.Time
}

func newFakeEventRepo(events ...models.EventWithStudent) *fakeEventRepo {
	repo := &fakeEventRepo{
		events:         make(map[int64]*models.EventWithStudent),
		objectiveLinks: make(map[int64][]int64),
		statuses:       make(map[int64]string),
		nextID:         500,
	}
	for i := range events {
		ev := events[i]
		repo.events[ev.ID] = &ev
	}
	return repo
}

func (f *fakeEventRepo) ListActive(ctx context.Context) ([]models.EventWithStudent, error) {
	var out []models.EventWithStudent
	for _, ev := range f.events {
		if ev.Active {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.EventWithStudent, error) {
	return f.ListActive(ctx)
}

func (f *fakeEventRepo) ListPending(ctx context.Context) ([]models.EventWithStudent, error) {
	return f.ListActive(ctx)
}

func (f *fakeEventRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.EventWithStudent, error) {
	all, _ := f.ListActive(ctx)
	var out []models.EventWithStudent
	for _, ev := range all {
		if !ev.DateOfSession.Before(from) && len(out) < limit {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListStudentSessions(ctx context.Context, studentID int64) ([]models.EventWithStudent, error) {
	var out []models.EventWithStudent
	for _, ev := range f.events {
		if ev.StudentID != nil && *ev.StudentID == studentID {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) CountStudentSessions(ctx context.Context, studentID int64, from, to time.Time, statuses []string) (int, error) {
	f.countedFrom, f.countedTo = from, to
	return f.sessionCount, nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id int64) (*models.EventWithStudent, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeEventRepo) CreateMany(ctx context.Context, events []*models.Event, objectiveIDs []int64) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	for _, ev := range events {
		f.nextID++
		ev.ID = f.nextID
		ev.Active = true
		f.created = append(f.created, ev)
	}
	f.linked = objectiveIDs
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, ev *models.Event) error {
	if _, ok := f.events[ev.ID]; !ok {
		return sql.ErrNoRows
	}
	f.updated = append(f.updated, ev)
	return nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if _, ok := f.events[id]; !ok {
		return sql.ErrNoRows
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeEventRepo) Archive(ctx context.Context, id int64) error {
	ev, ok := f.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	ev.Active = false
	return nil
}

func (f *fakeEventRepo) ListObjectiveIDs(ctx context.Context, eventID int64) ([]int64, error) {
	return f.objectiveLinks[eventID], nil
}

type fakeTrialLogRepo struct {
	created []*models.TrialLog
	views   []models.TrialLogView
	queried time.Time
	err     error
}

func (f *fakeTrialLogRepo) CreateMany(ctx context.Context, logs []*models.TrialLog) error {
	if f.err != nil {
		return f.err
	}
	for i, log := range logs {
		log.ID = int64(i + 1)
		f.created = append(f.created, log)
	}
	return nil
}

func (f *fakeTrialLogRepo) ListByStudent(ctx context.Context, studentID int64) ([]models.TrialLogView, error) {
	return f.views, nil
}

func (f *fakeTrialLogRepo) ListByDate(ctx context.Context, day time.Time) ([]models.TrialLogView, error) {
	f.queried = day
	return f.views, nil
}

type memoryCacheRepo struct {
	values  map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			delete(m.values, key)
		}
	}
	return nil
}
