package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	Exports   ExportsConfig
	Backup    BackupConfig
	Clinician ClinicianConfig
	Schedule  ScheduleConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the redis-backed dashboard and report caches.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportsConfig controls where generated documents are archived.
type ExportsConfig struct {
	StorageDir string
	KeepPDFs   bool
}

// BackupConfig drives the caseloadctl backup and restore commands.
type BackupConfig struct {
	Dir        string
	Keep       int
	PgDumpPath string
	PsqlPath   string
}

// ClinicianConfig carries the identity printed on generated notes.
type ClinicianConfig struct {
	Signature string
}

// ScheduleConfig tunes session scheduling defaults.
type ScheduleConfig struct {
	BulkSessionMinutes   int
	SchoolYearStartMonth int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		StorageDir: v.GetString("EXPORTS_STORAGE_DIR"),
		KeepPDFs:   v.GetBool("EXPORTS_KEEP_PDFS"),
	}

	keep := v.GetInt("BACKUP_KEEP")
	if keep <= 0 {
		keep = 10
	}
	cfg.Backup = BackupConfig{
		Dir:        v.GetString("BACKUP_DIR"),
		Keep:       keep,
		PgDumpPath: v.GetString("PG_DUMP_PATH"),
		PsqlPath:   v.GetString("PSQL_PATH"),
	}

	cfg.Clinician = ClinicianConfig{Signature: v.GetString("CLINICIAN_SIGNATURE")}

	cfg.Schedule = ScheduleConfig{
		BulkSessionMinutes:   positiveOr(v.GetInt("BULK_SESSION_MINUTES"), 30),
		SchoolYearStartMonth: v.GetInt("SCHOOL_YEAR_START_MONTH"),
	}
	if cfg.Schedule.SchoolYearStartMonth < 1 || cfg.Schedule.SchoolYearStartMonth > 12 {
		cfg.Schedule.SchoolYearStartMonth = 9
	}

	return cfg, nil
}

// DSN renders the lib/pq connection string for the database settings.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "slp_caseload")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_KEEP_PDFS", false)

	v.SetDefault("BACKUP_DIR", "./backups")
	v.SetDefault("BACKUP_KEEP", 10)
	v.SetDefault("PG_DUMP_PATH", "pg_dump")
	v.SetDefault("PSQL_PATH", "psql")

	v.SetDefault("CLINICIAN_SIGNATURE", "-Sean Hendricks, MA CCC-SLP")
	v.SetDefault("BULK_SESSION_MINUTES", 30)
	v.SetDefault("SCHOOL_YEAR_START_MONTH", 9)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
