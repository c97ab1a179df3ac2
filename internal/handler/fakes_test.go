package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"shopwise-web/internal/models"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"
)

// memoryCatalog is an in-memory service.ProductCatalog.
type memoryCatalog struct {
	mu       sync.Mutex
	seq      int
	products map[string]*models.Product
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{products: make(map[string]*models.Product)}
}

func (m *memoryCatalog) byProductID(owner, productID string) *models.Product {
	for _, p := range m.products {
		if p.UserID == owner && p.ProductID == productID {
			return p
		}
	}
	return nil
}

func (m *memoryCatalog) ListProductIDs(_ context.Context, owner string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]struct{})
	for _, p := range m.products {
		if p.UserID == owner {
			ids[p.ProductID] = struct{}{}
		}
	}
	return ids, nil
}

func (m *memoryCatalog) InsertProduct(_ context.Context, owner string, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byProductID(owner, p.ProductID) != nil {
		return repository.ErrDuplicateProduct
	}
	m.seq++
	p.ID = fmt.Sprintf("row-%d", m.seq)
	p.UserID = owner
	p.CreatedAt = time.Now()
	stored := *p
	m.products[p.ID] = &stored
	return nil
}

func (m *memoryCatalog) UpdateProduct(_ context.Context, owner, productID string, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := m.byProductID(owner, productID)
	if existing == nil {
		return repository.ErrNotFound
	}
	updated := *p
	updated.ID = existing.ID
	updated.Status = existing.Status
	updated.Anomaly = existing.Anomaly
	updated.DeadStock = existing.DeadStock
	m.products[existing.ID] = &updated
	return nil
}

func (m *memoryCatalog) FindByID(_ context.Context, owner, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.UserID != owner {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memoryCatalog) FindAll(_ context.Context, owner string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if p.UserID == owner {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (m *memoryCatalog) List(ctx context.Context, owner string, filter models.ProductFilter) ([]models.Product, int64, error) {
	all, _ := m.FindAll(ctx, owner)
	out := []models.Product{}
	for _, p := range all {
		if filter.Status != "" && service.Status(p) != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memoryCatalog) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *p
	m.products[p.ID] = &stored
	return nil
}

func (m *memoryCatalog) Delete(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.UserID != owner {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memoryCatalog) Categories(ctx context.Context, owner string) ([]string, error) {
	all, _ := m.FindAll(ctx, owner)
	seen := map[string]bool{}
	out := []string{}
	for _, p := range all {
		if name := p.CategoryName(); name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// memoryUsers is an in-memory service.UserStore.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) FindByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) EmailExists(email string) (bool, error) {
	_, err := m.FindByEmail(email)
	return err == nil, nil
}

// memoryReports is an in-memory service.ReportStore.
type memoryReports struct {
	mu      sync.Mutex
	reports []*models.Report
}

func (m *memoryReports) Create(_ context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.ID = fmt.Sprintf("report-%d", len(m.reports)+1)
	m.reports = append(m.reports, report)
	return nil
}

func (m *memoryReports) FindByID(_ context.Context, owner, id string) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.UserID == owner && r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryReports) List(_ context.Context, owner string, limit, offset int) ([]models.Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Report{}
	for _, r := range m.reports {
		if r.UserID == owner {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryReports) Delete(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.reports {
		if r.UserID == owner && r.ID == id {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
