package importapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SalesMerger turns the lifetime totals a sheet reports for a client into
// at most one new sale holding only the activity not yet recorded.
// Importing the same totals twice inserts nothing the second time.
//
// The read and the insert are separate store calls, so two merges for the
// same client must never run concurrently.
type SalesMerger struct {
	saleRepo trade.SaleRepository
}

// NewSalesMerger creates a new SalesMerger
func NewSalesMerger(saleRepo trade.SaleRepository) *SalesMerger {
	return &SalesMerger{saleRepo: saleRepo}
}

// Merge inserts the positive delta between the reported and the recorded
// totals. It returns nil without error when there is nothing to insert.
func (m *SalesMerger) Merge(
	ctx context.Context,
	clientID uuid.UUID,
	clientName string,
	row ClientRow,
	supportsPurchaseCount bool,
) (*trade.Sale, error) {
	if !row.TotalSpend.IsPositive() || row.PurchaseCount <= 0 || row.LastPurchase == nil {
		return nil, nil
	}

	existing, err := m.saleRepo.FindByClientID(ctx, clientID, supportsPurchaseCount)
	if err != nil {
		return nil, fmt.Errorf("%w: load sales: %w", ErrRowFailed, err)
	}

	recordedValue := decimal.Zero
	recordedPurchases := 0
	for i := range existing {
		recordedValue = recordedValue.Add(existing[i].Value)
		if supportsPurchaseCount {
			recordedPurchases += existing[i].Purchases()
		}
	}

	deltaPurchases := row.PurchaseCount - recordedPurchases
	deltaValue := row.TotalSpend.Sub(recordedValue)
	if deltaPurchases <= 0 || !deltaValue.IsPositive() {
		return nil, nil
	}

	sale, err := trade.NewSale(clientID, clientName, *row.LastPurchase, deltaValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRowFailed, err)
	}
	sale.Salesperson = strings.TrimSpace(row.Salesperson)
	if err := sale.SetPurchaseCount(deltaPurchases); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRowFailed, err)
	}
	if !supportsPurchaseCount {
		sale.PurchaseCount = nil
	}

	if err := m.saleRepo.Create(ctx, sale, supportsPurchaseCount); err != nil {
		return nil, fmt.Errorf("%w: insert sale: %w", ErrRowFailed, err)
	}
	return sale, nil
}
