package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"shopwise-web/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const topStockSize = 4

// ProductLister loads every product of an owner.
type ProductLister interface {
	FindAll(ctx context.Context, owner string) ([]models.Product, error)
}

type DashboardService struct {
	products   ProductLister
	classifier *Classifier
	cache      Cache
	ttl        time.Duration
	logger     *logrus.Logger
}

func NewDashboardService(products ProductLister, classifier *Classifier, cache Cache, ttl time.Duration, logger *logrus.Logger) *DashboardService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &DashboardService{
		products:   products,
		classifier: classifier,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

func dashboardKey(owner string) string {
	return fmt.Sprintf("dashboard:stats:%s", owner)
}

// Stats returns the owner's KPI widgets, from cache when possible. Cache
// failures are logged and the stats are computed from storage.
func (s *DashboardService) Stats(ctx context.Context, owner string) (*models.DashboardStats, error) {
	key := dashboardKey(owner)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.WithFields(logrus.Fields{"owner": owner, "error": err}).Warn("Dashboard cache read failed")
	} else if ok {
		var stats models.DashboardStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	products, err := s.products.FindAll(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	stats := s.Compute(products)

	if data, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.WithFields(logrus.Fields{"owner": owner, "error": err}).Warn("Dashboard cache write failed")
		}
	}

	return stats, nil
}

// Compute derives the stats of a product set.
func (s *DashboardService) Compute(products []models.Product) *models.DashboardStats {
	stats := &models.DashboardStats{
		TotalProducts:  len(products),
		InventoryValue: decimal.Zero,
		InventoryCost:  decimal.Zero,
		Categories:     []models.CategoryCount{},
		TopStock:       []models.StockEntry{},
	}

	categories := make(map[string]int)
	for _, p := range products {
		switch Status(p) {
		case models.StatusHealthy:
			stats.HealthyProducts++
		case models.StatusLowStock:
			stats.LowStockProducts++
		}
		if s.classifier.Classify(p).HasAnomaly() {
			stats.AlertProducts++
		}

		stock := decimal.NewFromInt(int64(p.CurrentStock))
		stats.InventoryValue = stats.InventoryValue.Add(stock.Mul(decimal.NewFromFloat(p.UnitPrice)))
		if p.CostPrice != nil {
			stats.InventoryCost = stats.InventoryCost.Add(stock.Mul(decimal.NewFromFloat(*p.CostPrice)))
		}

		category := p.CategoryName()
		if category == "" {
			category = "Uncategorized"
		}
		categories[category]++
	}
	stats.InventoryValue = stats.InventoryValue.Round(2)
	stats.InventoryCost = stats.InventoryCost.Round(2)

	for name, count := range categories {
		stats.Categories = append(stats.Categories, models.CategoryCount{Category: name, Count: count})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		if stats.Categories[i].Count != stats.Categories[j].Count {
			return stats.Categories[i].Count > stats.Categories[j].Count
		}
		return stats.Categories[i].Category < stats.Categories[j].Category
	})

	byStock := make([]models.Product, len(products))
	copy(byStock, products)
	sort.SliceStable(byStock, func(i, j int) bool {
		if byStock[i].CurrentStock != byStock[j].CurrentStock {
			return byStock[i].CurrentStock > byStock[j].CurrentStock
		}
		return byStock[i].Name < byStock[j].Name
	})
	for i := 0; i < len(byStock) && i < topStockSize; i++ {
		stats.TopStock = append(stats.TopStock, models.StockEntry{Name: byStock[i].Name, Stock: byStock[i].CurrentStock})
	}

	return stats
}

// Invalidate drops the cached stats of owner.
func (s *DashboardService) Invalidate(ctx context.Context, owner string) {
	if err := s.cache.Delete(ctx, dashboardKey(owner)); err != nil {
		s.logger.WithFields(logrus.Fields{"owner": owner, "error": err}).Warn("Dashboard cache invalidation failed")
	}
}
