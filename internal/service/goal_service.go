package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

type goalRepository interface {
	FindGoal(ctx context.Context, id int64) (*models.Goal, error)
	FindObjective(ctx context.Context, id int64) (*models.Objective, error)
	CreateGoal(ctx context.Context, goal *models.Goal, first *models.Objective) error
	CreateObjective(ctx context.Context, objective *models.Objective) error
	UpdateGoal(ctx context.Context, id int64, description string) error
	UpdateObjective(ctx context.Context, objective *models.Objective) error
	ArchiveGoal(ctx context.Context, id int64) error
	ArchiveObjective(ctx context.Context, id int64) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// ObjectiveRequest describes an objective to create or edit.
type ObjectiveRequest struct {
	Description  string  `json:"objective_description" validate:"required"`
	WithAccuracy *string `json:"with_accuracy" validate:"omitempty,max=32"`
	Notes        *string `json:"notes"`
}

// GoalRequest creates a goal, optionally with its first objective.
type GoalRequest struct {
	Description    string            `json:"goal_description" validate:"required"`
	FirstObjective *ObjectiveRequest `json:"objective" validate:"omitempty"`
}

// GoalService manages IEP goals and objectives.
type GoalService struct {
	repo      goalRepository
	students  studentFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGoalService constructs the goal service.
func NewGoalService(repo goalRepository, students studentFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *GoalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalService{repo: repo, students: students, cache: cache, validator: validate, logger: logger}
}

// GetGoal returns an active goal.
func (s *GoalService) GetGoal(ctx context.Context, id int64) (*models.Goal, error) {
	goal, err := s.repo.FindGoal(ctx, id)
	if err != nil {
		return nil, lookupError(err, "goal")
	}
	if !goal.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "goal not found")
	}
	return goal, nil
}

// GetObjective returns an active objective.
func (s *GoalService) GetObjective(ctx context.Context, id int64) (*models.Objective, error) {
	objective, err := s.repo.FindObjective(ctx, id)
	if err != nil {
		return nil, lookupError(err, "objective")
	}
	if !objective.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "objective not found")
	}
	return objective, nil
}

// AddGoal creates a goal for an active student.
func (s *GoalService) AddGoal(ctx context.Context, studentID int64, req GoalRequest) (*models.GoalWithObjectives, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid goal payload")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	goal := &models.Goal{StudentID: studentID, Description: strings.TrimSpace(req.Description)}
	var first *models.Objective
	if req.FirstObjective != nil && strings.TrimSpace(req.FirstObjective.Description) != "" {
		first = objectiveFromRequest(*req.FirstObjective)
	}
	if err := s.repo.CreateGoal(ctx, goal, first); err != nil {
		return nil, internalError(err, "failed to create goal")
	}
	s.cache.InvalidateCaseload(ctx)

	result := &models.GoalWithObjectives{Goal: *goal, Objectives: []models.Objective{}}
	if first != nil {
		result.Objectives = append(result.Objectives, *first)
	}
	return result, nil
}

// EditGoal changes a goal's description.
func (s *GoalService) EditGoal(ctx context.Context, id int64, description string) (*models.Goal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "goal description is required")
	}
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateGoal(ctx, id, description); err != nil {
		return nil, mutationError(err, "goal", "update")
	}
	goal.Description = description
	return goal, nil
}

// ArchiveGoal soft deletes a goal and its objectives, returning the owning student id.
func (s *GoalService) ArchiveGoal(ctx context.Context, id int64) (int64, error) {
	goal, err := s.repo.FindGoal(ctx, id)
	if err != nil {
		return 0, lookupError(err, "goal")
	}
	if err := s.repo.ArchiveGoal(ctx, id); err != nil {
		return 0, mutationError(err, "goal", "archive")
	}
	s.cache.InvalidateCaseload(ctx)
	return goal.StudentID, nil
}

// AddObjective creates an objective under an active goal.
func (s *GoalService) AddObjective(ctx context.Context, goalID int64, req ObjectiveRequest) (*models.Objective, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid objective payload")
	}
	if _, err := s.GetGoal(ctx, goalID); err != nil {
		return nil, err
	}
	objective := objectiveFromRequest(req)
	objective.GoalID = goalID
	if err := s.repo.CreateObjective(ctx, objective); err != nil {
		return nil, internalError(err, "failed to create objective")
	}
	return objective, nil
}

// EditObjective updates an objective's description, accuracy target and notes.
func (s *GoalService) EditObjective(ctx context.Context, id int64, req ObjectiveRequest) (*models.Objective, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid objective payload")
	}
	current, err := s.GetObjective(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := objectiveFromRequest(req)
	updated.ID = current.ID
	updated.GoalID = current.GoalID
	if err := s.repo.UpdateObjective(ctx, updated); err != nil {
		return nil, mutationError(err, "objective", "update")
	}
	return updated, nil
}

// ArchiveObjective soft deletes an objective, returning its goal id.
func (s *GoalService) ArchiveObjective(ctx context.Context, id int64) (int64, error) {
	objective, err := s.repo.FindObjective(ctx, id)
	if err != nil {
		return 0, lookupError(err, "objective")
	}
	if err := s.repo.ArchiveObjective(ctx, id); err != nil {
		return 0, mutationError(err, "objective", "archive")
	}
	return objective.GoalID, nil
}

func objectiveFromRequest(req ObjectiveRequest) *models.Objective {
	return &models.Objective{
		Description:  strings.TrimSpace(req.Description),
		WithAccuracy: optionalString(req.WithAccuracy),
		Notes:        optionalString(req.Notes),
		Active:       true,
	}
}
