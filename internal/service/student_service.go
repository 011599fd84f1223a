package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

type studentRepository interface {
	ListActive(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateProfile(ctx context.Context, student *models.Student, goalEdits, objectiveEdits map[int64]string) error
	Archive(ctx context.Context, id int64) error
}

type studentGoalReader interface {
	ListByStudent(ctx context.Context, studentID int64, activeOnly bool) ([]models.Goal, error)
	ListObjectivesByStudent(ctx context.Context, studentID int64, activeOnly bool) ([]models.Objective, error)
}

// StudentRequest holds the editable student fields.
type StudentRequest struct {
	FirstName        string  `json:"first_name" validate:"required,max=64"`
	LastName         string  `json:"last_name" validate:"required,max=64"`
	PreferredName    *string `json:"preferred_name" validate:"omitempty,max=64"`
	Pronouns         *string `json:"pronouns" validate:"omitempty,max=32"`
	Grade            *string `json:"grade" validate:"omitempty,max=16"`
	MonthlyServices  *string `json:"monthly_services" validate:"omitempty,max=64"`
	ReevaluationDate string  `json:"reevaluation_date"`
	AnnualReviewDate string  `json:"annual_review_date"`
}

// DescriptionEdit replaces the description of one goal or objective.
type DescriptionEdit struct {
	ID          int64  `json:"id" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
}

// UpdateStudentRequest edits a student together with their goal and objective descriptions.
type UpdateStudentRequest struct {
	StudentRequest
	Goals      []DescriptionEdit `json:"goals" validate:"dive"`
	Objectives []DescriptionEdit `json:"objectives" validate:"dive"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	goals     studentGoalReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, goals studentGoalReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, goals: goals, cache: cache, validator: validate, logger: logger}
}

// List returns active students ordered by first name, optionally filtered by grade or name.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	filter.Grade = strings.TrimSpace(filter.Grade)
	filter.Search = strings.TrimSpace(filter.Search)
	students, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return students, nil
}

// Get returns an active student with their active goals and objectives.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.activeStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	goals, err := s.loadGoals(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.StudentDetail{Student: *student, Goals: goals}, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student := &models.Student{}
	if err := s.apply(student, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, internalError(err, "failed to create student")
	}
	s.cache.InvalidateCaseload(ctx)
	s.logger.Info("student created", zap.Int64("student_id", student.ID))
	return student, nil
}

// Update saves student fields and any goal or objective descriptions that belong to the student.
// Edits naming goals or objectives the student does not own are ignored.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.activeStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(student, req.StudentRequest); err != nil {
		return nil, err
	}

	current, err := s.loadGoals(ctx, id)
	if err != nil {
		return nil, err
	}
	goalEdits, objectiveEdits := matchEdits(current, req.Goals, req.Objectives)

	if err := s.repo.UpdateProfile(ctx, student, goalEdits, objectiveEdits); err != nil {
		return nil, mutationError(err, "student", "update")
	}
	s.cache.InvalidateCaseload(ctx)
	return s.Get(ctx, id)
}

// Archive soft deletes a student, cascading to goals and objectives.
func (s *StudentService) Archive(ctx context.Context, id int64) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		return mutationError(err, "student", "archive")
	}
	s.cache.InvalidateCaseload(ctx)
	s.logger.Info("student archived", zap.Int64("student_id", id))
	return nil
}

func (s *StudentService) activeStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

func (s *StudentService) loadGoals(ctx context.Context, studentID int64) ([]models.GoalWithObjectives, error) {
	goals, err := s.goals.ListByStudent(ctx, studentID, true)
	if err != nil {
		return nil, internalError(err, "failed to load goals")
	}
	objectives, err := s.goals.ListObjectivesByStudent(ctx, studentID, true)
	if err != nil {
		return nil, internalError(err, "failed to load objectives")
	}
	return groupObjectives(goals, objectives), nil
}

func (s *StudentService) apply(student *models.Student, req StudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid student payload")
	}
	reeval, err := parseOptionalDate(req.ReevaluationDate)
	if err != nil {
		return err
	}
	review, err := parseOptionalDate(req.AnnualReviewDate)
	if err != nil {
		return err
	}
	student.FirstName = strings.TrimSpace(req.FirstName)
	student.LastName = strings.TrimSpace(req.LastName)
	student.PreferredName = optionalString(req.PreferredName)
	student.Pronouns = optionalString(req.Pronouns)
	student.Grade = optionalString(req.Grade)
	student.MonthlyServices = optionalString(req.MonthlyServices)
	student.ReevaluationDate = reeval
	student.AnnualReviewDate = review
	return nil
}

// groupObjectives nests objectives under their goals, preserving goal order.
func groupObjectives(goals []models.Goal, objectives []models.Objective) []models.GoalWithObjectives {
	byGoal := make(map[int64][]models.Objective, len(goals))
	for _, o := range objectives {
		byGoal[o.GoalID] = append(byGoal[o.GoalID], o)
	}
	out := make([]models.GoalWithObjectives, 0, len(goals))
	for _, g := range goals {
		objs := byGoal[g.ID]
		if objs == nil {
			objs = []models.Objective{}
		}
		out = append(out, models.GoalWithObjectives{Goal: g, Objectives: objs})
	}
	return out
}

func matchEdits(current []models.GoalWithObjectives, goals, objectives []DescriptionEdit) (map[int64]string, map[int64]string) {
	goalIDs := make(map[int64]struct{})
	objectiveIDs := make(map[int64]struct{})
	for _, g := range current {
		goalIDs[g.ID] = struct{}{}
		for _, o := range g.Objectives {
			objectiveIDs[o.ID] = struct{}{}
		}
	}

	goalEdits := make(map[int64]string)
	for _, edit := range goals {
		if _, ok := goalIDs[edit.ID]; ok {
			goalEdits[edit.ID] = strings.TrimSpace(edit.Description)
		}
	}
	objectiveEdits := make(map[int64]string)
	for _, edit := range objectives {
		if _, ok := objectiveIDs[edit.ID]; ok {
			objectiveEdits[edit.ID] = strings.TrimSpace(edit.Description)
		}
	}
	return goalEdits, objectiveEdits
}
