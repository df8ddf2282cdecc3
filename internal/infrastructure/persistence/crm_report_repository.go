package persistence

import (
	"context"

	"github.com/lojacrm/backend/internal/domain/report"
	"github.com/lojacrm/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCRMReportRepository implements CRMReportRepository using GORM
type GormCRMReportRepository struct {
	db *gorm.DB
}

// NewGormCRMReportRepository creates a new GormCRMReportRepository
func NewGormCRMReportRepository(db *gorm.DB) *GormCRMReportRepository {
	return &GormCRMReportRepository{db: db}
}

// SalesBySalesperson groups every sale by trimmed salesperson, so blank and
// whitespace-only names land in one group with an empty name.
// Unique clients are counted by the denormalized client name so sales of
// deleted clients still count.
func (r *GormCRMReportRepository) SalesBySalesperson(ctx context.Context) ([]report.SalespersonTotals, error) {
	type salespersonResult struct {
		Salesperson   string
		TotalValue    decimal.Decimal
		SaleCount     int64
		UniqueClients int64
	}

	var results []salespersonResult
	if err := r.db.WithContext(ctx).
		Table("sales").
		Select(`
			TRIM(COALESCE(salesperson, '')) as salesperson,
			COALESCE(SUM(value), 0) as total_value,
			COUNT(*) as sale_count,
			COUNT(DISTINCT client_name) as unique_clients
		`).
		Group("TRIM(COALESCE(salesperson, ''))").
		Scan(&results).Error; err != nil {
		return nil, err
	}

	totals := make([]report.SalespersonTotals, len(results))
	for i, res := range results {
		totals[i] = report.SalespersonTotals{
			Salesperson:   res.Salesperson,
			TotalValue:    res.TotalValue,
			SaleCount:     res.SaleCount,
			UniqueClients: res.UniqueClients,
		}
	}
	return totals, nil
}

// DashboardTotals counts clients and sales and sums revenue
func (r *GormCRMReportRepository) DashboardTotals(ctx context.Context) (*report.DashboardTotals, error) {
	var clientCount int64
	if err := r.db.WithContext(ctx).Model(&models.ClientModel{}).Count(&clientCount).Error; err != nil {
		return nil, err
	}

	type salesResult struct {
		SaleCount int64
		Revenue   decimal.Decimal
	}
	var sales salesResult
	if err := r.db.WithContext(ctx).
		Table("sales").
		Select("COUNT(*) as sale_count, COALESCE(SUM(value), 0) as revenue").
		Scan(&sales).Error; err != nil {
		return nil, err
	}

	return &report.DashboardTotals{
		ClientCount: clientCount,
		SaleCount:   sales.SaleCount,
		Revenue:     sales.Revenue,
	}, nil
}

// Ensure GormCRMReportRepository implements CRMReportRepository
var _ report.CRMReportRepository = (*GormCRMReportRepository)(nil)
