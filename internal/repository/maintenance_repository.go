package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CaseloadTables lists the tables reported by status checks, in dependency order.
var CaseloadTables = []string{
	"students", "goals", "objectives", "events", "event_objectives", "trial_logs",
	"soap_notes", "quarterly_reports", "activities", "monthly_quotas",
}

// TableCount is a row count for one table.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// MaintenanceRepository answers operational questions about the database.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository constructs a MaintenanceRepository.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Ping verifies the connection is usable.
func (r *MaintenanceRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// TableCounts returns row counts for every caseload table.
func (r *MaintenanceRepository) TableCounts(ctx context.Context) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(CaseloadTables))
	for _, table := range CaseloadTables {
		var n int64
		if err := r.db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// DatabaseSize returns the on-disk size of the current database in bytes.
func (r *MaintenanceRepository) DatabaseSize(ctx context.Context) (int64, error) {
	var size int64
	if err := r.db.GetContext(ctx, &size, `SELECT pg_database_size(current_database())`); err != nil {
		return 0, fmt.Errorf("database size: %w", err)
	}
	return size, nil
}
