// Package app assembles the caseload HTTP server from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/slp-caseload/api/swagger"
	"github.com/noah-isme/slp-caseload/internal/handler"
	internalmiddleware "github.com/noah-isme/slp-caseload/internal/middleware"
	"github.com/noah-isme/slp-caseload/internal/repository"
	"github.com/noah-isme/slp-caseload/internal/service"
	"github.com/noah-isme/slp-caseload/pkg/cache"
	"github.com/noah-isme/slp-caseload/pkg/config"
	"github.com/noah-isme/slp-caseload/pkg/database"
	"github.com/noah-isme/slp-caseload/pkg/jobs"
	"github.com/noah-isme/slp-caseload/pkg/logger"
	corsmiddleware "github.com/noah-isme/slp-caseload/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/slp-caseload/pkg/middleware/requestid"
	"github.com/noah-isme/slp-caseload/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived resources behind the HTTP server.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sqlx.DB
	redis   *redis.Client
	queue   *jobs.Queue
	router  *gin.Engine
	metrics *service.MetricsService
}

// OpenDatabase connects to postgres and applies pending migrations when DB_AUTO_MIGRATE is set.
func OpenDatabase(cfg *config.Config, logr *zap.Logger) (*sqlx.DB, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db.DB, "up"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logr.Info("database migrations applied")
	}
	return db, nil
}

// NewMaintenance builds the backup and status service over db.
func NewMaintenance(cfg *config.Config, db *sqlx.DB, logr *zap.Logger) (*service.MaintenanceService, error) {
	backups, err := storage.NewDirectory(cfg.Backup.Dir, 0o600)
	if err != nil {
		return nil, fmt.Errorf("backup directory: %w", err)
	}
	return service.NewMaintenanceService(repository.NewMaintenanceRepository(db), backups, service.ExecRunner{}, cfg.Database, cfg.Backup, logr), nil
}

// New wires repositories, services and handlers into a gin engine.
func New(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*App, error) {
	db, err := OpenDatabase(cfg, logr)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, logger: logr, db: db, metrics: service.NewMetricsService()}

	if cfg.Cache.Enabled {
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			a.redis = client
		}
	}

	if err := a.buildRouter(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) buildRouter() error {
	cfg, logr := a.cfg, a.logger
	validate := validator.New()

	students := repository.NewStudentRepository(a.db)
	goals := repository.NewGoalRepository(a.db)
	events := repository.NewEventRepository(a.db)
	trialLogs := repository.NewTrialLogRepository(a.db)
	soapNotes := repository.NewSoapNoteRepository(a.db)
	quarterly := repository.NewQuarterlyReportRepository(a.db)
	activities := repository.NewActivityRepository(a.db)
	quotas := repository.NewQuotaRepository(a.db)
	reports := repository.NewReportRepository(a.db)

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(a.redis, logr), a.metrics, cfg.Cache.TTL, logr, a.redis != nil)

	exportsDir, err := storage.NewDirectory(cfg.Exports.StorageDir, 0o640)
	if err != nil {
		return fmt.Errorf("exports directory: %w", err)
	}
	exportSvc := service.NewExportService(exportsDir, service.ExportConfig{KeepPDFs: cfg.Exports.KeepPDFs}, a.metrics, logr, nil, nil)
	a.queue = jobs.NewQueue("pdf-archive", exportSvc.ArchiveTask, jobs.QueueConfig{Workers: 1, BufferSize: 32, MaxRetries: 2, Logger: logr})
	exportSvc.UseArchiveQueue(a.queue)

	studentSvc := service.NewStudentService(students, goals, cacheSvc, validate, logr)
	goalSvc := service.NewGoalService(goals, students, cacheSvc, validate, logr)
	eventSvc := service.NewEventService(service.EventServiceParams{
		Events:         events,
		Students:       students,
		TrialLogs:      trialLogs,
		Objectives:     goals,
		Cache:          cacheSvc,
		Metrics:        a.metrics,
		Validator:      validate,
		Logger:         logr,
		SessionMinutes: cfg.Schedule.BulkSessionMinutes,
	})
	trialLogSvc := service.NewTrialLogService(trialLogs, students, goals, validate, logr)
	soapSvc := service.NewSoapNoteService(service.SoapNoteServiceParams{
		Notes:      soapNotes,
		Students:   students,
		Objectives: goals,
		Activities: activities,
		Sessions:   events,
		Exports:    exportSvc,
		Metrics:    a.metrics,
		Validator:  validate,
		Logger:     logr,
		Signature:  cfg.Clinician.Signature,
	})
	quarterlySvc := service.NewQuarterlyReportService(service.QuarterlyReportServiceParams{
		Reports:              quarterly,
		Students:             students,
		Goals:                goals,
		Exports:              exportSvc,
		Metrics:              a.metrics,
		Validator:            validate,
		Logger:               logr,
		Signature:            cfg.Clinician.Signature,
		SchoolYearStartMonth: cfg.Schedule.SchoolYearStartMonth,
	})
	reportSvc := service.NewReportService(reports, students, exportSvc, cacheSvc, a.metrics, logr, service.ReportServiceConfig{
		CacheTTL:             cfg.Cache.TTL,
		SchoolYearStartMonth: cfg.Schedule.SchoolYearStartMonth,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Students: students,
		Goals:    goals,
		Events:   events,
		Cache:    cacheSvc,
		Logger:   logr,
		Config:   service.DashboardServiceConfig{CacheTTL: cfg.Cache.TTL, UpcomingLimit: 5},
	})
	maintenanceSvc, err := NewMaintenance(cfg, a.db, logr)
	if err != nil {
		return err
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(a.metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	handler.Register(r, handler.Handlers{
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Students:   handler.NewStudentHandler(studentSvc),
		Goals:      handler.NewGoalHandler(goalSvc, studentSvc),
		Events:     handler.NewEventHandler(eventSvc, studentSvc),
		TrialLogs:  handler.NewTrialLogHandler(trialLogSvc),
		SoapNotes:  handler.NewSoapNoteHandler(soapSvc),
		Quarterly:  handler.NewQuarterlyReportHandler(quarterlySvc, studentSvc),
		Reports:    handler.NewReportHandler(reportSvc),
		Quotas:     handler.NewQuotaHandler(service.NewQuotaService(quotas, students, cacheSvc, validate, logr)),
		Activities: handler.NewActivityHandler(service.NewActivityService(activities, logr)),
		System:     handler.NewSystemHandler(a.metrics, maintenanceSvc),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	a.router = r
	return nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and the archive queue.
func (a *App) Run(ctx context.Context) error {
	a.queue.Start(ctx)
	defer a.queue.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Sugar().Infow("server starting", "addr", srv.Addr, "env", a.cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Handler exposes the configured router.
func (a *App) Handler() http.Handler {
	return a.router
}

// Close releases database and redis connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
}
