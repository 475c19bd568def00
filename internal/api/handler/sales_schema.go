package handler

import (
	"time"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

type createSaleRequest struct {
	CustomerID string  `json:"customer_id" validate:"required"`
	PackageID  string  `json:"package_id"  validate:"required"`
	Amount     float64 `json:"amount"      validate:"required,gt=0"`
	// SaleDate is optional (YYYY-MM-DD); defaults to today.
	SaleDate string `json:"sale_date"`
}

type saleResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	PackageID    string    `json:"package_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	PackageName  string    `json:"package_name,omitempty"`
	Amount       float64   `json:"amount"`
	SaleDate     string    `json:"sale_date"`
	CreatedAt    time.Time `json:"created_at"`
}

type packageStatResponse struct {
	PackageID   string  `json:"packageId"`
	PackageName string  `json:"packageName"`
	Count       int64   `json:"count"`
	Revenue     float64 `json:"revenue"`
}

type monthlyStatResponse struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// statsResponse mirrors the dashboard contract of the UI layer.
type statsResponse struct {
	PackageStats []packageStatResponse `json:"packageStats"`
	MonthlyStats []monthlyStatResponse `json:"monthlyStats"`
	TotalSales   int64                 `json:"totalSales"`
	TotalRevenue float64               `json:"totalRevenue"`
}

func toSaleResponse(sale *domain.Sale) *saleResponse {
	return &saleResponse{
		ID:           sale.ID,
		CustomerID:   sale.CustomerID,
		PackageID:    sale.PackageID,
		CustomerName: sale.CustomerName,
		PackageName:  sale.PackageName,
		Amount:       sale.Amount,
		SaleDate:     sale.SaleDate.Format(domain.SaleDateLayout),
		CreatedAt:    sale.CreatedAt,
	}
}

func toStatsResponse(stats *domain.DashboardStats) *statsResponse {
	resp := &statsResponse{
		PackageStats: make([]packageStatResponse, 0, len(stats.PackageStats)),
		MonthlyStats: make([]monthlyStatResponse, 0, len(stats.MonthlyStats)),
		TotalSales:   stats.TotalSales,
		TotalRevenue: stats.TotalRevenue,
	}
	for _, p := range stats.PackageStats {
		resp.PackageStats = append(resp.PackageStats, packageStatResponse{
			PackageID:   p.PackageID,
			PackageName: p.PackageName,
			Count:       p.Count,
			Revenue:     p.Revenue,
		})
	}
	for _, m := range stats.MonthlyStats {
		resp.MonthlyStats = append(resp.MonthlyStats, monthlyStatResponse{
			Month:   m.Month,
			Year:    m.Year,
			Count:   m.Count,
			Revenue: m.Revenue,
		})
	}
	return resp
}
