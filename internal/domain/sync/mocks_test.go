package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/stretchr/testify/mock"

	"skusync/internal/domain/catalog"
	"skusync/internal/domain/item"
)

// MockItemRepository is a mock implementation of item.Repository for testing
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) ListWithoutLegacyID(ctx context.Context) ([]item.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]item.Item), args.Error(1)
}

func (m *MockItemRepository) FindByLegacyID(ctx context.Context, legacyID string) (*item.Item, error) {
	args := m.Called(ctx, legacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemRepository) SetLegacyID(ctx context.Context, id, legacyID string) error {
	args := m.Called(ctx, id, legacyID)
	return args.Error(0)
}

// MockCatalog is a mock implementation of Catalog for testing
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

// MockAuthenticator is a mock implementation of Authenticator for testing
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Token(ctx context.Context) (catalog.Credential, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalog.Credential), args.Error(1)
}

// MockRunRepository is a mock implementation of RunRepository for testing
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) SaveRun(ctx context.Context, summary *Summary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockRunRepository) ListRuns(ctx context.Context, limit int) ([]Summary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Summary), args.Error(1)
}

// memoryStore keeps items in memory and enforces legacy id uniqueness like the real stores
type memoryStore struct {
	mu    gosync.Mutex
	items []item.Item
}

func newMemoryStore(items ...item.Item) *memoryStore {
	return &memoryStore{items: items}
}

func (s *memoryStore) ListWithoutLegacyID(_ context.Context) ([]item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []item.Item
	for _, it := range s.items {
		if !it.HasLegacyID() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *memoryStore) FindByLegacyID(_ context.Context, legacyID string) (*item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.HasLegacyID() && *it.LegacyID == legacyID {
			found := it
			return &found, nil
		}
	}
	return nil, item.ErrNotFound
}

func (s *memoryStore) SetLegacyID(_ context.Context, id, legacyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.HasLegacyID() && *it.LegacyID == legacyID {
			return item.ErrLegacyIDTaken
		}
	}
	for i := range s.items {
		if s.items[i].ID == id && !s.items[i].HasLegacyID() {
			v := legacyID
			s.items[i].LegacyID = &v
			return nil
		}
	}
	return item.ErrNotFound
}

func (s *memoryStore) legacyID(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == id && it.LegacyID != nil {
			return *it.LegacyID
		}
	}
	return ""
}

// fakeCatalog answers from a fixed sku -> item id table and records every lookup
type fakeCatalog struct {
	mu     gosync.Mutex
	items  map[string]string
	calls  []string
	onCall func(sku string)
}

func newFakeCatalog(items map[string]string) *fakeCatalog {
	return &fakeCatalog{items: items}
}

func (c *fakeCatalog) FindBySKU(_ context.Context, sku string) (*catalog.Item, error) {
	c.mu.Lock()
	c.calls = append(c.calls, sku)
	onCall := c.onCall
	c.mu.Unlock()

	if onCall != nil {
		onCall(sku)
	}

	id, ok := c.items[sku]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &catalog.Item{ItemID: id, SKU: sku, Name: "remote " + sku}, nil
}

func (c *fakeCatalog) lookups() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type staticAuth struct {
	err error
}

func (a staticAuth) Token(_ context.Context) (catalog.Credential, error) {
	if a.err != nil {
		return catalog.Credential{}, a.err
	}
	return catalog.Credential{Token: "token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func newItem(id, sku string, created time.Time) item.Item {
	return item.Item{ID: id, SKU: sku, Name: "item " + sku, CreatedAt: created}
}

func ptr(s string) *string {
	return &s
}
