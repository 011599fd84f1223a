package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/repository"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

type activityRepository interface {
	ListActive(ctx context.Context) ([]models.Activity, error)
	FindByID(ctx context.Context, id int64) (*models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Rename(ctx context.Context, id int64, name string) error
	Archive(ctx context.Context, id int64) error
}

// ActivityService maintains the activity picker used by SOAP notes.
type ActivityService struct {
	repo   activityRepository
	logger *zap.Logger
}

// NewActivityService constructs the activity service.
func NewActivityService(repo activityRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger}
}

// List returns active activities ordered by name.
func (s *ActivityService) List(ctx context.Context) ([]models.Activity, error) {
	activities, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list activities")
	}
	return activities, nil
}

// Get returns an active activity.
func (s *ActivityService) Get(ctx context.Context, id int64) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "activity")
	}
	if !activity.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}
	return activity, nil
}

// Add creates an activity; names are unique.
func (s *ActivityService) Add(ctx context.Context, name string) (*models.Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "activity name is required")
	}
	activity := &models.Activity{Name: name}
	if err := s.repo.Create(ctx, activity); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "activity already exists")
		}
		return nil, internalError(err, "failed to create activity")
	}
	return activity, nil
}

// Rename changes an activity's name.
func (s *ActivityService) Rename(ctx context.Context, id int64, name string) (*models.Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "activity name is required")
	}
	activity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, id, name); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "activity already exists")
		}
		return nil, mutationError(err, "activity", "rename")
	}
	activity.Name = name
	return activity, nil
}

// Archive soft deletes an activity.
func (s *ActivityService) Archive(ctx context.Context, id int64) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		return mutationError(err, "activity", "archive")
	}
	return nil
}
