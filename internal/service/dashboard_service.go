package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/models"
)

type activeCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type upcomingLister interface {
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.EventWithStudent, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL      time.Duration
	UpcomingLimit int
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students activeCounter
	Goals    activeCounter
	Events   upcomingLister
	Cache    *CacheService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// DashboardService composes the landing page summary.
type DashboardService struct {
	students activeCounter
	goals    activeCounter
	events   upcomingLister
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.UpcomingLimit <= 0 {
		cfg.UpcomingLimit = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students: params.Students,
		goals:    params.Goals,
		events:   params.Events,
		cache:    params.Cache,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Summary returns caseload counts and the next scheduled sessions, reporting whether the cache served it.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	var cached models.DashboardSummary
	if hit, err := s.cache.Get(ctx, cacheKeyDashboard, &cached); err == nil && hit {
		return &cached, true, nil
	}

	now := s.now().UTC()
	students, err := s.students.CountActive(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to count students")
	}
	goals, err := s.goals.CountActive(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to count goals")
	}
	upcoming, err := s.events.ListUpcoming(ctx, dayOf(now), s.cfg.UpcomingLimit)
	if err != nil {
		return nil, false, internalError(err, "failed to list upcoming sessions")
	}
	if upcoming == nil {
		upcoming = []models.EventWithStudent{}
	}

	summary := &models.DashboardSummary{
		TotalStudents:    students,
		TotalGoals:       goals,
		UpcomingSessions: upcoming,
		Today:            now.Format(dateLayout),
		GeneratedAt:      now,
	}
	if err := s.cache.Set(ctx, cacheKeyDashboard, summary, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return summary, false, nil
}
