package service

import (
	"sync"
	"testing"

	"shopwise-web/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func fixedTurnover(rate float64) TurnoverSource {
	return TurnoverFunc(func(models.Product) float64 { return rate })
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		want    string
	}{
		{"stock equal to min is low", models.Product{CurrentStock: 10, MinStockLevel: intPtr(10)}, models.StatusLowStock},
		{"stock below min is low", models.Product{CurrentStock: 3, MinStockLevel: intPtr(10)}, models.StatusLowStock},
		{"stock equal to max is overstock", models.Product{CurrentStock: 50, MinStockLevel: intPtr(10), MaxStockLevel: intPtr(50)}, models.StatusOverstock},
		{"between thresholds is healthy", models.Product{CurrentStock: 20, MinStockLevel: intPtr(10), MaxStockLevel: intPtr(50)}, models.StatusHealthy},
		{"no thresholds is healthy", models.Product{CurrentStock: 0}, models.StatusHealthy},
		{"unset max is unbounded", models.Product{CurrentStock: 1000000, MinStockLevel: intPtr(1)}, models.StatusHealthy},
		{"min wins when both fire", models.Product{CurrentStock: 5, MinStockLevel: intPtr(5), MaxStockLevel: intPtr(5)}, models.StatusLowStock},
		{"explicit status wins over thresholds", models.Product{CurrentStock: 0, MinStockLevel: intPtr(10), Status: strPtr(models.StatusDeadStock)}, models.StatusDeadStock},
		{"explicit status is used verbatim", models.Product{Status: strPtr("seasonal")}, "seasonal"},
		{"empty explicit status is ignored", models.Product{CurrentStock: 1, MinStockLevel: intPtr(2), Status: strPtr("")}, models.StatusLowStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.product))
		})
	}
}

func TestClassifyReorderBoundary(t *testing.T) {
	c := NewClassifier(fixedTurnover(2))

	atMin := c.Classify(models.Product{Name: "Rice", CurrentStock: 10, MinStockLevel: intPtr(10)})
	assert.Equal(t, models.StatusLowStock, atMin.Status)
	assert.Empty(t, atMin.Reorder)

	belowMin := c.Classify(models.Product{Name: "Rice", CurrentStock: 9, MinStockLevel: intPtr(10)})
	assert.Equal(t, []string{"Rice: Current stock 9, reorder recommended (min: 10)"}, belowMin.Reorder)
}

func TestClassifyAdvisories(t *testing.T) {
	c := NewClassifier(fixedTurnover(3.456))

	t.Run("demand spike status", func(t *testing.T) {
		got := c.Classify(models.Product{Name: "Milk", Status: strPtr(models.StatusDemandSpike)})
		assert.Equal(t, models.StatusDemandSpike, got.Status)
		assert.Equal(t, []string{"Milk: Demand spike detected!"}, got.Anomalies)
		assert.True(t, got.HasAnomaly())
	})

	t.Run("anomaly flag without status", func(t *testing.T) {
		got := c.Classify(models.Product{Name: "Milk", CurrentStock: 20, Anomaly: true})
		assert.Equal(t, models.StatusHealthy, got.Status)
		assert.Equal(t, []string{"Milk: Demand spike detected!"}, got.Anomalies)
	})

	t.Run("dead stock by status or flag", func(t *testing.T) {
		byStatus := c.Classify(models.Product{Name: "Soap", Status: strPtr(models.StatusDeadStock)})
		byFlag := c.Classify(models.Product{Name: "Soap", DeadStock: true})
		assert.Equal(t, []string{"Soap: Dead stock detected"}, byStatus.DeadStock)
		assert.Equal(t, []string{"Soap: Dead stock detected"}, byFlag.DeadStock)
		assert.Equal(t, models.StatusHealthy, byFlag.Status)
	})

	t.Run("reorder with explicit status", func(t *testing.T) {
		got := c.Classify(models.Product{Name: "Tea", CurrentStock: 1, MinStockLevel: intPtr(4), Status: strPtr(models.StatusDemandSpike)})
		assert.Equal(t, models.StatusDemandSpike, got.Status)
		assert.Len(t, got.Reorder, 1)
		assert.Len(t, got.Anomalies, 1)
	})

	t.Run("turnover line for every product", func(t *testing.T) {
		got := c.Classify(models.Product{Name: "Tea"})
		assert.Equal(t, []string{"Tea: Turnover rate 3.46"}, got.Turnover)
	})
}

func TestClassifyEmptyRecord(t *testing.T) {
	got := NewClassifier(fixedTurnover(1)).Classify(models.Product{Name: "Empty", CurrentStock: 0})

	assert.Equal(t, models.StatusHealthy, got.Status)
	assert.Empty(t, got.Anomalies)
	assert.Empty(t, got.Reorder)
	assert.Empty(t, got.DeadStock)
}

func TestRandomTurnoverRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		rate := RandomTurnover.TurnoverRate(models.Product{})
		assert.GreaterOrEqual(t, rate, 1.0)
		assert.Less(t, rate, 6.0)
	}
}

func TestClassifyAllKeepsOrder(t *testing.T) {
	c := NewClassifier(nil)
	products := []models.Product{
		{ProductID: "P1", Name: "Rice", CurrentStock: 5, MinStockLevel: intPtr(10)},
		{ProductID: "P2", Name: "Milk", CurrentStock: 50, MaxStockLevel: intPtr(40)},
	}

	got := c.ClassifyAll(products)

	assert.Len(t, got, 2)
	assert.Equal(t, "P1", got[0].ProductID)
	assert.Equal(t, models.StatusLowStock, got[0].Classification.Status)
	assert.Equal(t, models.StatusOverstock, got[1].Classification.Status)
}

func TestClassifierConcurrentUse(t *testing.T) {
	c := NewClassifier(nil)
	p := models.Product{Name: "Rice", CurrentStock: 5, MinStockLevel: intPtr(10)}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, models.StatusLowStock, c.Classify(p).Status)
		}()
	}
	wg.Wait()
}
