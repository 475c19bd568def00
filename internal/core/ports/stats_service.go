package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// StatsService computes derived statistics from the sale ledger. Every
// method degrades to a zeroed result instead of returning an error: the
// dashboard renders regardless of store health.
type StatsService interface {
	// PackageStats returns one entry per catalog package, including
	// packages with zero sales.
	PackageStats(ctx context.Context) []domain.PackageStat
	Totals(ctx context.Context) domain.Totals
	// MonthlySeries returns exactly months entries in ascending
	// chronological order, ending at the current calendar month.
	MonthlySeries(ctx context.Context, months int) []domain.MonthlyStat
	// Dashboard bundles all three aggregates for a single dashboard call.
	Dashboard(ctx context.Context) *domain.DashboardStats
}

// StatsCache stores the last successful dashboard snapshot so reads can
// degrade to slightly stale data when the primary store is down.
type StatsCache interface {
	GetSnapshot(ctx context.Context) (*domain.DashboardStats, error)
	PutSnapshot(ctx context.Context, stats *domain.DashboardStats) error
}
