package importapp

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/domain/bulk"
	"github.com/lojacrm/backend/internal/domain/catalog"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/lojacrm/backend/internal/domain/shared"
	"github.com/lojacrm/backend/internal/domain/trade"
)

// memStore is an in-memory stand-in for the relational store, used to run
// whole imports end to end.
type memStore struct {
	mu          sync.Mutex
	clients     []*partner.Client
	brands      map[string]uuid.UUID
	sizes       map[catalog.SizeType]map[string]uuid.UUID
	brandLinks  map[partner.ClientBrandPreference]struct{}
	sizeLinks   map[partner.ClientSizePreference]struct{}
	sales       []trade.Sale
	histories   map[uuid.UUID]*bulk.ImportHistory
	failCreates map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		brands: make(map[string]uuid.UUID),
		sizes: map[catalog.SizeType]map[string]uuid.UUID{
			catalog.SizeTypeClothing: {},
			catalog.SizeTypeShoe:     {},
		},
		brandLinks:  make(map[partner.ClientBrandPreference]struct{}),
		sizeLinks:   make(map[partner.ClientSizePreference]struct{}),
		histories:   make(map[uuid.UUID]*bulk.ImportHistory),
		failCreates: make(map[string]error),
	}
}

func (s *memStore) service(supportsPurchaseCount bool, opts ...ImportOption) *ClientImportService {
	return NewClientImportService(
		memClients{s}, memPrefs{s}, memBrands{s}, memSizes{s}, memSales{s},
		trade.StaticCapability(supportsPurchaseCount), memHistory{s}, nil, opts...,
	)
}

func (s *memStore) salesFor(name string) []trade.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trade.Sale
	for _, sale := range s.sales {
		if sale.ClientName == name {
			out = append(out, sale)
		}
	}
	return out
}

type memClients struct{ s *memStore }

func (m memClients) FindByID(_ context.Context, id uuid.UUID) (*partner.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.clients {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m memClients) FindByTaxID(_ context.Context, taxID string) (*partner.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.clients {
		if c.TaxID != nil && *c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m memClients) FindByName(_ context.Context, name string) (*partner.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.clients {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m memClients) FindWithBirthDate(context.Context) ([]partner.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []partner.Client
	for _, c := range m.s.clients {
		if c.BirthDate != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m memClients) Create(_ context.Context, client *partner.Client) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.failCreates[client.Name]; err != nil {
		return err
	}
	cp := *client
	m.s.clients = append(m.s.clients, &cp)
	return nil
}

func (m memClients) UpdateSalesperson(_ context.Context, id uuid.UUID, salesperson string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.clients {
		if c.ID == id {
			c.Salesperson = salesperson
			return nil
		}
	}
	return shared.ErrNotFound
}

func (m memClients) Count(context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.clients)), nil
}

type memPrefs struct{ s *memStore }

func (m memPrefs) LinkBrands(_ context.Context, links []partner.ClientBrandPreference) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, l := range links {
		m.s.brandLinks[l] = struct{}{}
	}
	return nil
}

func (m memPrefs) LinkSizes(_ context.Context, links []partner.ClientSizePreference) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, l := range links {
		m.s.sizeLinks[l] = struct{}{}
	}
	return nil
}

func (m memPrefs) BrandIDsForClient(_ context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []uuid.UUID
	for l := range m.s.brandLinks {
		if l.ClientID == clientID {
			ids = append(ids, l.BrandID)
		}
	}
	return ids, nil
}

func (m memPrefs) ReplaceBrands(_ context.Context, clientID uuid.UUID, brandIDs []uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for l := range m.s.brandLinks {
		if l.ClientID == clientID {
			delete(m.s.brandLinks, l)
		}
	}
	for _, id := range brandIDs {
		m.s.brandLinks[partner.ClientBrandPreference{ClientID: clientID, BrandID: id}] = struct{}{}
	}
	return nil
}

type memBrands struct{ s *memStore }

func (m memBrands) UpsertNames(_ context.Context, names []string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var created int64
	for _, n := range names {
		if _, ok := m.s.brands[n]; !ok {
			m.s.brands[n] = uuid.New()
			created++
		}
	}
	return created, nil
}

func (m memBrands) FindByNames(_ context.Context, names []string) ([]catalog.Brand, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []catalog.Brand
	for _, n := range names {
		if id, ok := m.s.brands[n]; ok {
			out = append(out, catalog.Brand{ID: id, Name: n})
		}
	}
	return out, nil
}

type memSizes struct{ s *memStore }

func (m memSizes) UpsertNames(_ context.Context, sizeType catalog.SizeType, names []string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var created int64
	for _, n := range names {
		if _, ok := m.s.sizes[sizeType][n]; !ok {
			m.s.sizes[sizeType][n] = uuid.New()
			created++
		}
	}
	return created, nil
}

func (m memSizes) FindByNames(_ context.Context, sizeType catalog.SizeType, names []string) ([]catalog.Size, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []catalog.Size
	for _, n := range names {
		if id, ok := m.s.sizes[sizeType][n]; ok {
			out = append(out, catalog.Size{ID: id, Name: n, Type: sizeType})
		}
	}
	return out, nil
}

type memSales struct{ s *memStore }

func (m memSales) FindByClientID(_ context.Context, clientID uuid.UUID, withPurchaseCount bool) ([]trade.Sale, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []trade.Sale
	for _, sale := range m.s.sales {
		if sale.ClientID != nil && *sale.ClientID == clientID {
			if !withPurchaseCount {
				sale.PurchaseCount = nil
			}
			out = append(out, sale)
		}
	}
	return out, nil
}

func (m memSales) Create(_ context.Context, sale *trade.Sale, withPurchaseCount bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *sale
	if !withPurchaseCount {
		cp.PurchaseCount = nil
	}
	m.s.sales = append(m.s.sales, cp)
	return nil
}

type memHistory struct{ s *memStore }

func (m memHistory) FindByID(_ context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if h, ok := m.s.histories[id]; ok {
		return h, nil
	}
	return nil, shared.ErrNotFound
}

func (m memHistory) FindRecent(context.Context, int) ([]*bulk.ImportHistory, error) {
	return nil, nil
}

func (m memHistory) Save(_ context.Context, history *bulk.ImportHistory) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *history
	m.s.histories[history.ID] = &cp
	return nil
}
