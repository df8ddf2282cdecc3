package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// SalespersonTotals is the raw aggregate of sales per salesperson
type SalespersonTotals struct {
	Salesperson   string
	TotalValue    decimal.Decimal
	SaleCount     int64
	UniqueClients int64
}

// DashboardTotals is the raw aggregate used by the dashboard
type DashboardTotals struct {
	ClientCount int64
	SaleCount   int64
	Revenue     decimal.Decimal
}

// CRMReportRepository runs the aggregate queries behind the CRM reports
type CRMReportRepository interface {
	// SalesBySalesperson groups every sale by salesperson
	SalesBySalesperson(ctx context.Context) ([]SalespersonTotals, error)

	// DashboardTotals counts clients and sales and sums revenue
	DashboardTotals(ctx context.Context) (*DashboardTotals, error)
}
