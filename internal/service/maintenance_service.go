package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/slp-caseload/internal/repository"
	"github.com/noah-isme/slp-caseload/pkg/config"
	"github.com/noah-isme/slp-caseload/pkg/storage"
)

const backupPrefix = "caseload_backup_"

type maintenanceRepository interface {
	Ping(ctx context.Context) error
	TableCounts(ctx context.Context) ([]repository.TableCount, error)
	DatabaseSize(ctx context.Context) (int64, error)
}

type backupStore interface {
	Create(name string) (io.WriteCloser, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	List(prefix string) ([]storage.FileInfo, error)
	Prune(prefix string, keep int) ([]string, error)
}

// CommandRunner executes an external program with the given environment and streams.
type CommandRunner interface {
	Run(ctx context.Context, name string, args, env []string, stdin io.Reader, stdout io.Writer) error
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run starts the command and waits for it, folding stderr into the returned error.
func (ExecRunner) Run(ctx context.Context, name string, args, env []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// BackupResult describes a completed backup.
type BackupResult struct {
	File   string   `json:"file"`
	Size   int64    `json:"size"`
	Pruned []string `json:"pruned"`
}

// SystemStatus summarises database health and backups.
type SystemStatus struct {
	Database      string                  `json:"database"`
	SizeBytes     int64                   `json:"size_bytes"`
	Tables        []repository.TableCount `json:"tables"`
	RecentBackups []storage.FileInfo      `json:"recent_backups"`
	CheckedAt     time.Time               `json:"checked_at"`
}

// MaintenanceService backs up, restores and inspects the caseload database.
type MaintenanceService struct {
	repo   maintenanceRepository
	store  backupStore
	runner CommandRunner
	db     config.DatabaseConfig
	cfg    config.BackupConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewMaintenanceService constructs the service. A nil runner uses ExecRunner.
func NewMaintenanceService(repo maintenanceRepository, store backupStore, runner CommandRunner, db config.DatabaseConfig, cfg config.BackupConfig, logger *zap.Logger) *MaintenanceService {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Keep <= 0 {
		cfg.Keep = 10
	}
	if cfg.PgDumpPath == "" {
		cfg.PgDumpPath = "pg_dump"
	}
	if cfg.PsqlPath == "" {
		cfg.PsqlPath = "psql"
	}
	return &MaintenanceService{repo: repo, store: store, runner: runner, db: db, cfg: cfg, logger: logger, now: time.Now}
}

// Ready reports whether the database answers a ping.
func (s *MaintenanceService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Backup dumps the database into a timestamped plain SQL file and prunes old backups.
// A failed dump leaves no partial file behind.
func (s *MaintenanceService) Backup(ctx context.Context) (*BackupResult, error) {
	name := fmt.Sprintf("%s%s.sql", backupPrefix, s.now().UTC().Format("20060102_150405"))
	out, err := s.store.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}

	args := append(s.connectionArgs(), "--no-owner", "--no-privileges", "--clean", "--if-exists")
	runErr := s.runner.Run(ctx, s.cfg.PgDumpPath, args, s.passwordEnv(), nil, out)
	closeErr := out.Close()
	if runErr != nil || closeErr != nil {
		if err := s.store.Delete(name); err != nil {
			s.logger.Warn("remove partial backup failed", zap.String("file", name), zap.Error(err))
		}
		if runErr != nil {
			return nil, fmt.Errorf("pg_dump: %w", runErr)
		}
		return nil, fmt.Errorf("close backup file: %w", closeErr)
	}

	result := &BackupResult{File: name}
	if files, err := s.store.List(name); err == nil && len(files) > 0 {
		result.Size = files[0].Size
	}
	pruned, err := s.store.Prune(backupPrefix, s.cfg.Keep)
	if err != nil {
		s.logger.Warn("prune backups failed", zap.Error(err))
	}
	result.Pruned = pruned
	s.logger.Info("backup written", zap.String("file", name), zap.Int64("bytes", result.Size), zap.Int("pruned", len(pruned)))
	return result, nil
}

// Restore replays a backup from the backup directory through psql, stopping on the first error.
func (s *MaintenanceService) Restore(ctx context.Context, name string) error {
	in, err := s.store.Open(name)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer in.Close()

	args := append(s.connectionArgs(), "--quiet", "--set", "ON_ERROR_STOP=1")
	if err := s.runner.Run(ctx, s.cfg.PsqlPath, args, s.passwordEnv(), in, io.Discard); err != nil {
		return fmt.Errorf("psql restore: %w", err)
	}
	s.logger.Info("backup restored", zap.String("file", name))
	return nil
}

// Backups lists stored backups, newest first.
func (s *MaintenanceService) Backups() ([]storage.FileInfo, error) {
	return s.store.List(backupPrefix)
}

// Status pings the database and gathers table counts, size and the newest backups.
// A failed ping is reported in Database rather than as an error; the driver detail is only logged.
func (s *MaintenanceService) Status(ctx context.Context, recent int) (*SystemStatus, error) {
	status := &SystemStatus{Database: "ok", CheckedAt: s.now().UTC()}
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("database ping failed", zap.Error(err))
		status.Database = "unreachable"
	} else {
		tables, err := s.repo.TableCounts(ctx)
		if err != nil {
			return nil, err
		}
		status.Tables = tables
		if status.SizeBytes, err = s.repo.DatabaseSize(ctx); err != nil {
			return nil, err
		}
	}

	backups, err := s.Backups()
	if err != nil {
		return nil, err
	}
	if recent > 0 && len(backups) > recent {
		backups = backups[:recent]
	}
	status.RecentBackups = backups
	return status, nil
}

func (s *MaintenanceService) connectionArgs() []string {
	return []string{
		"--host", s.db.Host,
		"--port", strconv.Itoa(s.db.Port),
		"--username", s.db.User,
		"--dbname", s.db.Name,
	}
}

func (s *MaintenanceService) passwordEnv() []string {
	if s.db.Password == "" {
		return nil
	}
	return []string{"PGPASSWORD=" + s.db.Password}
}
