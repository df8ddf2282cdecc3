package importapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/bulk"
	"github.com/lojacrm/backend/internal/domain/catalog"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindByTaxID(ctx context.Context, taxID string) (*partner.Client, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindByName(ctx context.Context, name string) (*partner.Client, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindWithBirthDate(ctx context.Context) ([]partner.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateSalesperson(ctx context.Context, id uuid.UUID, salesperson string) error {
	args := m.Called(ctx, id, salesperson)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPreferenceRepository is a mock implementation of partner.PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) LinkBrands(ctx context.Context, links []partner.ClientBrandPreference) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *MockPreferenceRepository) LinkSizes(ctx context.Context, links []partner.ClientSizePreference) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *MockPreferenceRepository) BrandIDsForClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPreferenceRepository) ReplaceBrands(ctx context.Context, clientID uuid.UUID, brandIDs []uuid.UUID) error {
	args := m.Called(ctx, clientID, brandIDs)
	return args.Error(0)
}

// MockBrandRepository is a mock implementation of catalog.BrandRepository
type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) UpsertNames(ctx context.Context, names []string) (int64, error) {
	args := m.Called(ctx, names)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBrandRepository) FindByNames(ctx context.Context, names []string) ([]catalog.Brand, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Brand), args.Error(1)
}

// MockSizeRepository is a mock implementation of catalog.SizeRepository
type MockSizeRepository struct {
	mock.Mock
}

func (m *MockSizeRepository) UpsertNames(ctx context.Context, sizeType catalog.SizeType, names []string) (int64, error) {
	args := m.Called(ctx, sizeType, names)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSizeRepository) FindByNames(ctx context.Context, sizeType catalog.SizeType, names []string) ([]catalog.Size, error) {
	args := m.Called(ctx, sizeType, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Size), args.Error(1)
}

// MockSaleRepository is a mock implementation of trade.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, withPurchaseCount bool) ([]trade.Sale, error) {
	args := m.Called(ctx, clientID, withPurchaseCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *trade.Sale, withPurchaseCount bool) error {
	args := m.Called(ctx, sale, withPurchaseCount)
	return args.Error(0)
}

// MockImportHistoryRepository is a mock implementation of bulk.ImportHistoryRepository
type MockImportHistoryRepository struct {
	mock.Mock
}

func (m *MockImportHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistory), args.Error(1)
}

func (m *MockImportHistoryRepository) FindRecent(ctx context.Context, limit int) ([]*bulk.ImportHistory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bulk.ImportHistory), args.Error(1)
}

func (m *MockImportHistoryRepository) Save(ctx context.Context, history *bulk.ImportHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// MockTableTruncater is a mock implementation of TableTruncater
type MockTableTruncater struct {
	mock.Mock
}

func (m *MockTableTruncater) DeleteAll(ctx context.Context, table PurgeTable) (int64, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(int64), args.Error(1)
}

// MockUploadArchive is a mock implementation of UploadArchive
type MockUploadArchive struct {
	mock.Mock
}

func (m *MockUploadArchive) Store(ctx context.Context, runID uuid.UUID, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, runID, fileName, data)
	return args.String(0), args.Error(1)
}
