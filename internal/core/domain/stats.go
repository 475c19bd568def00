package domain

import "time"

// PackageStat is the per-package aggregate over the sale ledger. Packages
// with no sales are reported with zero count and revenue, never omitted.
type PackageStat struct {
	PackageID   string  `json:"package_id"`
	PackageName string  `json:"package_name"`
	Count       int64   `json:"count"`
	Revenue     float64 `json:"revenue"`
}

// MonthlyStat is one entry in the trailing monthly series.
type MonthlyStat struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Totals holds the grand totals over the whole ledger.
type Totals struct {
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

// DashboardStats bundles everything the sales dashboard renders.
type DashboardStats struct {
	PackageStats []PackageStat `json:"package_stats"`
	MonthlyStats []MonthlyStat `json:"monthly_stats"`
	TotalSales   int64         `json:"total_sales"`
	TotalRevenue float64       `json:"total_revenue"`
}

// monthNames is the fixed calendar table used for series labels, indexed by
// calendar month 1-12. Callers needing localization supply their own labels.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthLabel returns the English label for a calendar month.
func MonthLabel(m time.Month) string {
	return monthNames[m-1]
}
