package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"shopwise-web/internal/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
)

// MockProductStore is a mock implementation of ProductStore.
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) ListProductIDs(ctx context.Context, owner string) (map[string]struct{}, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockProductStore) InsertProduct(ctx context.Context, owner string, p *models.Product) error {
	args := m.Called(ctx, owner, p)
	return args.Error(0)
}

func (m *MockProductStore) UpdateProduct(ctx context.Context, owner, productID string, p *models.Product) error {
	args := m.Called(ctx, owner, productID, p)
	return args.Error(0)
}

var errDuplicateKey = errors.New("duplicate key value violates unique constraint")

// memoryStore keeps products per owner keyed by product id and rejects a
// second insert of the same id, like the unique index does.
type memoryStore struct {
	mu       sync.Mutex
	products map[string]map[string]models.Product
	inserts  int
	updates  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{products: make(map[string]map[string]models.Product)}
}

func (s *memoryStore) ListProductIDs(_ context.Context, owner string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]struct{})
	for id := range s.products[owner] {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *memoryStore) InsertProduct(_ context.Context, owner string, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.products[owner] == nil {
		s.products[owner] = make(map[string]models.Product)
	}
	if _, ok := s.products[owner][p.ProductID]; ok {
		return errDuplicateKey
	}
	s.products[owner][p.ProductID] = *p
	s.inserts++
	return nil
}

func (s *memoryStore) UpdateProduct(_ context.Context, owner, productID string, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[owner][productID]
	if !ok {
		return errors.New("product not found")
	}
	updated := *p
	updated.Status = existing.Status
	updated.Anomaly = existing.Anomaly
	updated.DeadStock = existing.DeadStock
	s.products[owner][productID] = updated
	s.updates++
	return nil
}

func (s *memoryStore) get(owner, productID string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[owner][productID]
	return p, ok
}

func (s *memoryStore) all(owner string) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products[owner]))
	for _, p := range s.products[owner] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (s *memoryStore) FindAll(_ context.Context, owner string) ([]models.Product, error) {
	return s.all(owner), nil
}

// MockJobStore is a mock implementation of ImportJobStore.
type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) Create(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobStore) GetByCode(ctx context.Context, code string) (*models.ImportJob, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportJob), args.Error(1)
}

func (m *MockJobStore) List(ctx context.Context, owner string, limit, offset int) ([]models.ImportJob, int64, error) {
	args := m.Called(ctx, owner, limit, offset)
	return args.Get(0).([]models.ImportJob), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobStore) UpdateStatus(ctx context.Context, code, status, errorMessage string) error {
	args := m.Called(ctx, code, status, errorMessage)
	return args.Error(0)
}

func (m *MockJobStore) Complete(ctx context.Context, code string, totalRows int, outcome *models.ImportOutcome) error {
	args := m.Called(ctx, code, totalRows, outcome)
	return args.Error(0)
}

// MockEnqueuer is a mock implementation of TaskEnqueuer.
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// recordingInvalidator counts dashboard invalidations per owner.
type recordingInvalidator struct {
	mu    sync.Mutex
	calls map[string]int
}

func newRecordingInvalidator() *recordingInvalidator {
	return &recordingInvalidator{calls: make(map[string]int)}
}

func (r *recordingInvalidator) Invalidate(_ context.Context, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[owner]++
}

func (r *recordingInvalidator) count(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[owner]
}

// memoryCache is a map backed Cache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}
