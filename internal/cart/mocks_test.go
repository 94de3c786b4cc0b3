package cart

import (
	"context"
	"sync"

	"github.com/emiliohtp1/tienda-backend/internal/cache"
	"github.com/emiliohtp1/tienda-backend/internal/catalog"
	"github.com/emiliohtp1/tienda-backend/internal/domain"
	"github.com/emiliohtp1/tienda-backend/internal/events"
)

type mockRepository struct {
	m         sync.RWMutex
	cart      *domain.Cart // nil means no cart is persisted
	err       error
	deleteErr error
	saves     int
}

func (m *mockRepository) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCartNotFound
	}
	copied := *m.cart
	copied.Lines = append([]domain.CartLine(nil), m.cart.Lines...)
	return &copied, nil
}

func (m *mockRepository) Save(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	copied := *c
	copied.Lines = append([]domain.CartLine(nil), c.Lines...)
	m.cart = &copied
	return nil
}

func (m *mockRepository) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.cart == nil {
		return ErrCartNotFound
	}
	m.cart = nil
	return nil
}

func (m *mockRepository) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

// mockCatalog implements catalog.Store in memory with the same decrement
// semantics as the MongoDB store: decrement while stock stays positive,
// delete the product once a decrement would exhaust it.
type mockCatalog struct {
	m        sync.Mutex
	products map[string]*domain.Product
	getErr   error
	decErr   error
}

func newMockCatalog(products ...*domain.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[string]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) Get(_ context.Context, productID string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockCatalog) List(context.Context) ([]*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockCatalog) Create(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *mockCatalog) DecrementStock(_ context.Context, productID string, qty int) (*catalog.StockResult, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.decErr != nil {
		return nil, m.decErr
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	if p.Stock > qty {
		p.Stock -= qty
		return &catalog.StockResult{ProductID: productID, Outcome: catalog.StockUpdated, NewStock: p.Stock}, nil
	}
	delete(m.products, productID)
	return &catalog.StockResult{ProductID: productID, Outcome: catalog.StockDeleted}, nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = c
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.CheckoutEvent
	err    error
}

func (m *mockPublisher) PublishCheckout(_ context.Context, e events.CheckoutEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published() []events.CheckoutEvent {
	m.m.Lock()
	defer m.m.Unlock()
	return m.events
}
