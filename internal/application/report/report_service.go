package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/domain/report"
	"github.com/lojacrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnassignedSalesperson labels sales recorded without a salesperson
const UnassignedSalesperson = "Não informado"

// Birthday windows in days
const (
	BirthdayWindowToday = 0
	BirthdayWindowWeek  = 7
	BirthdayWindowMonth = 30
)

// ReportService provides the CRM reports
type ReportService struct {
	reportRepo report.CRMReportRepository
	clientRepo partner.ClientRepository
	now        func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo report.CRMReportRepository, clientRepo partner.ClientRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		clientRepo: clientRepo,
		now:        time.Now,
	}
}

// SalespersonRankingResponse is one line of the salesperson ranking
type SalespersonRankingResponse struct {
	Rank          int     `json:"rank"`
	Salesperson   string  `json:"salesperson"`
	TotalValue    float64 `json:"total_value"`
	SaleCount     int64   `json:"sale_count"`
	UniqueClients int64   `json:"unique_clients"`
	AverageTicket float64 `json:"average_ticket"`
}

// GetSalespersonRanking ranks salespeople by total sales value
func (s *ReportService) GetSalespersonRanking(ctx context.Context) ([]SalespersonRankingResponse, error) {
	totals, err := s.reportRepo.SalesBySalesperson(ctx)
	if err != nil {
		return nil, err
	}

	// The repository already folds blank names into one group.
	result := make([]SalespersonRankingResponse, 0, len(totals))
	for _, t := range totals {
		name := strings.TrimSpace(t.Salesperson)
		if name == "" {
			name = UnassignedSalesperson
		}
		avg := decimal.Zero
		if t.SaleCount > 0 {
			avg = t.TotalValue.Div(decimal.NewFromInt(t.SaleCount)).Round(2)
		}
		result = append(result, SalespersonRankingResponse{
			Salesperson:   name,
			TotalValue:    toFloat64(t.TotalValue),
			SaleCount:     t.SaleCount,
			UniqueClients: t.UniqueClients,
			AverageTicket: toFloat64(avg),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalValue > result[j].TotalValue
	})
	for i := range result {
		result[i].Rank = i + 1
	}
	return result, nil
}

// BirthdayResponse is a client with an upcoming birthday
type BirthdayResponse struct {
	ClientID     string    `json:"client_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	BirthDate    time.Time `json:"birth_date"`
	NextBirthday time.Time `json:"next_birthday"`
	DaysUntil    int       `json:"days_until"`
	TurningAge   int       `json:"turning_age"`
}

// GetUpcomingBirthdays lists clients whose next birthday is within
// windowDays of today, soonest first.
func (s *ReportService) GetUpcomingBirthdays(ctx context.Context, windowDays int) ([]BirthdayResponse, error) {
	if windowDays < 0 || windowDays > 366 {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Birthday window must be between 0 and 366 days")
	}

	clients, err := s.clientRepo.FindWithBirthDate(ctx)
	if err != nil {
		return nil, err
	}

	today := shared.CalendarDate(s.now())
	result := make([]BirthdayResponse, 0)
	for _, c := range clients {
		if c.BirthDate == nil {
			continue
		}
		next := NextBirthday(*c.BirthDate, today)
		days := int(next.Sub(today).Hours() / 24)
		if days > windowDays {
			continue
		}
		result = append(result, BirthdayResponse{
			ClientID:     c.ID.String(),
			Name:         c.Name,
			Phone:        c.Phone1,
			BirthDate:    *c.BirthDate,
			NextBirthday: next,
			DaysUntil:    days,
			TurningAge:   next.Year() - c.BirthDate.Year(),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DaysUntil != result[j].DaysUntil {
			return result[i].DaysUntil < result[j].DaysUntil
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// NextBirthday returns the first birthday on or after today. Feb 29
// birthdays fall on Mar 1 in common years.
func NextBirthday(birth, today time.Time) time.Time {
	today = shared.CalendarDate(today)
	next := birthdayIn(birth, today.Year())
	if next.Before(today) {
		next = birthdayIn(birth, today.Year()+1)
	}
	return next
}

func birthdayIn(birth time.Time, year int) time.Time {
	// time.Date normalises Feb 29 of a common year to Mar 1.
	return time.Date(year, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
}

// DashboardResponse holds the headline numbers
type DashboardResponse struct {
	ClientCount   int64   `json:"client_count"`
	SaleCount     int64   `json:"sale_count"`
	Revenue       float64 `json:"revenue"`
	AverageTicket float64 `json:"average_ticket"`
}

// GetDashboard returns client and sale counts, revenue and average ticket
func (s *ReportService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	totals, err := s.reportRepo.DashboardTotals(ctx)
	if err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if totals.SaleCount > 0 {
		avg = totals.Revenue.Div(decimal.NewFromInt(totals.SaleCount)).Round(2)
	}

	return &DashboardResponse{
		ClientCount:   totals.ClientCount,
		SaleCount:     totals.SaleCount,
		Revenue:       toFloat64(totals.Revenue),
		AverageTicket: toFloat64(avg),
	}, nil
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
