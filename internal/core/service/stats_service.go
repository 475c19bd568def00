package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

const defaultWindowMonths = 6

// StatsService computes dashboard aggregates from the sale ledger. Results
// are computed fresh on every call. When the primary store fails, the last
// cached snapshot is served; when that misses too, a fully zeroed result is
// returned. Analytics degrade, they never block the dashboard.
type StatsService struct {
	sales    ports.SaleRepository
	packages ports.PackageRepository
	cache    ports.StatsCache
	log      zerolog.Logger

	// now is overridable in tests.
	now func() time.Time
}

// NewStatsService builds a StatsService. cache may be nil; snapshot reads
// and writes are then skipped.
func NewStatsService(sales ports.SaleRepository, packages ports.PackageRepository, cache ports.StatsCache, log zerolog.Logger) *StatsService {
	return &StatsService{sales: sales, packages: packages, cache: cache, log: log, now: time.Now}
}

// PackageStats returns one entry per catalog package, zero-filled for
// packages without sales.
func (s *StatsService) PackageStats(ctx context.Context) []domain.PackageStat {
	stats, err := s.fetchPackageStats(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("package stats query failed, returning empty result")
		return []domain.PackageStat{}
	}
	return stats
}

// Totals counts and sums the whole ledger. An empty ledger yields zeros.
func (s *StatsService) Totals(ctx context.Context) domain.Totals {
	totals, err := s.sales.Totals(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("totals query failed, returning zeroed result")
		return domain.Totals{}
	}
	return totals
}

// MonthlySeries returns exactly months entries in ascending chronological
// order, ending at the current calendar month.
func (s *StatsService) MonthlySeries(ctx context.Context, months int) []domain.MonthlyStat {
	series, err := s.fetchMonthlySeries(ctx, months)
	if err != nil {
		s.log.Warn().Err(err).Msg("monthly series query failed, returning zeroed series")
		return s.zeroSeries(months)
	}
	return series
}

// Dashboard bundles all aggregates. A fully successful computation refreshes
// the snapshot cache; a failed one falls back to the snapshot before zeroes.
func (s *StatsService) Dashboard(ctx context.Context) *domain.DashboardStats {
	pkgStats, pkgErr := s.fetchPackageStats(ctx)
	totals, totErr := s.sales.Totals(ctx)
	series, serErr := s.fetchMonthlySeries(ctx, defaultWindowMonths)

	if pkgErr == nil && totErr == nil && serErr == nil {
		stats := &domain.DashboardStats{
			PackageStats: pkgStats,
			MonthlyStats: series,
			TotalSales:   totals.TotalSales,
			TotalRevenue: totals.TotalRevenue,
		}
		if s.cache != nil {
			if err := s.cache.PutSnapshot(ctx, stats); err != nil {
				s.log.Debug().Err(err).Msg("failed to refresh stats snapshot")
			}
		}
		return stats
	}

	s.log.Warn().AnErr("package_stats", pkgErr).AnErr("totals", totErr).AnErr("monthly", serErr).
		Msg("dashboard aggregation degraded")

	if s.cache != nil {
		if snap, err := s.cache.GetSnapshot(ctx); err == nil && snap != nil {
			s.log.Info().Msg("serving stats from snapshot cache")
			return snap
		}
	}

	return &domain.DashboardStats{
		PackageStats: []domain.PackageStat{},
		MonthlyStats: s.zeroSeries(defaultWindowMonths),
	}
}

func (s *StatsService) fetchPackageStats(ctx context.Context) ([]domain.PackageStat, error) {
	catalog, err := s.packages.List(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.sales.TotalsByPackage(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]domain.PackageStat, 0, len(catalog))
	for _, pkg := range catalog {
		t := totals[pkg.ID]
		stats = append(stats, domain.PackageStat{
			PackageID:   pkg.ID,
			PackageName: pkg.Name,
			Count:       t.Count,
			Revenue:     t.Revenue,
		})
	}
	return stats, nil
}

// fetchMonthlySeries resolves each month independently; the per-month
// queries run concurrently and are joined before returning, so the result
// order is chronological by construction.
func (s *StatsService) fetchMonthlySeries(ctx context.Context, months int) ([]domain.MonthlyStat, error) {
	if months <= 0 {
		months = defaultWindowMonths
	}

	series := s.zeroSeries(months)
	errs := make([]error, months)
	current := firstOfMonth(s.now().UTC())

	var wg sync.WaitGroup
	for i := 0; i < months; i++ {
		from := current.AddDate(0, -(months - 1 - i), 0)
		to := from.AddDate(0, 1, 0)

		wg.Add(1)
		go func(i int, from, to time.Time) {
			defer wg.Done()
			total, err := s.sales.TotalsBetween(ctx, from, to)
			if err != nil {
				errs[i] = err
				return
			}
			series[i].Count = total.Count
			series[i].Revenue = total.Revenue
		}(i, from, to)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return series, nil
}

// zeroSeries builds the months-long label skeleton ending at the current
// calendar month, all counts and revenue at zero.
func (s *StatsService) zeroSeries(months int) []domain.MonthlyStat {
	if months <= 0 {
		months = defaultWindowMonths
	}
	current := firstOfMonth(s.now().UTC())

	series := make([]domain.MonthlyStat, months)
	for i := 0; i < months; i++ {
		m := current.AddDate(0, -(months - 1 - i), 0)
		series[i] = domain.MonthlyStat{
			Month: domain.MonthLabel(m.Month()),
			Year:  m.Year(),
		}
	}
	return series
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
