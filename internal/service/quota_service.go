package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

type quotaRepository interface {
	List(ctx context.Context, studentID *int64) ([]models.MonthlyQuota, error)
	Upsert(ctx context.Context, quota *models.MonthlyQuota) error
}

// QuotaRequest sets the expected session count for a student in a "YYYY-MM" month.
type QuotaRequest struct {
	StudentID        int64  `json:"student_id" validate:"required,gt=0"`
	Month            string `json:"month" validate:"required,len=7"`
	RequiredSessions int    `json:"required_sessions" validate:"gte=0,lte=100"`
}

// QuotaService manages per-month session quota overrides.
type QuotaService struct {
	repo      quotaRepository
	students  studentFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuotaService constructs the quota service.
func NewQuotaService(repo quotaRepository, students studentFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *QuotaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotaService{repo: repo, students: students, cache: cache, validator: validate, logger: logger}
}

// List returns overrides, optionally for one student.
func (s *QuotaService) List(ctx context.Context, studentID *int64) ([]models.MonthlyQuota, error) {
	quotas, err := s.repo.List(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list monthly quotas")
	}
	if quotas == nil {
		quotas = []models.MonthlyQuota{}
	}
	return quotas, nil
}

// Upsert creates or replaces a student's override for a month.
func (s *QuotaService) Upsert(ctx context.Context, req QuotaRequest) (*models.MonthlyQuota, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid monthly quota payload")
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidDateTime.Code, appErrors.ErrInvalidDateTime.Status, appErrors.ErrInvalidDateTime.Message)
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}
	quota := &models.MonthlyQuota{StudentID: req.StudentID, Month: req.Month, RequiredSessions: req.RequiredSessions}
	if err := s.repo.Upsert(ctx, quota); err != nil {
		return nil, internalError(err, "failed to save monthly quota")
	}
	s.cache.InvalidateCaseload(ctx)
	return quota, nil
}
