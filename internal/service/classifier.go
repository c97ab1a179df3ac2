package service

import (
	"fmt"
	"math/rand"

	"shopwise-web/internal/models"
)

// TurnoverSource supplies the turnover rate shown for a product.
type TurnoverSource interface {
	TurnoverRate(p models.Product) float64
}

// TurnoverFunc adapts a function to TurnoverSource.
type TurnoverFunc func(p models.Product) float64

func (f TurnoverFunc) TurnoverRate(p models.Product) float64 { return f(p) }

// RandomTurnover is a placeholder in [1, 6). There is no sales history to compute a real rate from.
var RandomTurnover = TurnoverFunc(func(models.Product) float64 {
	return rand.Float64()*5 + 1
})

// Classifier derives the display status and advisories of a product.
// It holds no state besides the turnover source and is safe for concurrent use.
type Classifier struct {
	turnover TurnoverSource
}

// NewClassifier returns a classifier. A nil source uses RandomTurnover.
func NewClassifier(turnover TurnoverSource) *Classifier {
	if turnover == nil {
		turnover = RandomTurnover
	}
	return &Classifier{turnover: turnover}
}

// Classify maps one product to its status and advisory messages.
func (c *Classifier) Classify(p models.Product) models.Classification {
	result := models.Classification{
		Status:    Status(p),
		Anomalies: []string{},
		Reorder:   []string{},
		DeadStock: []string{},
	}

	explicit := explicitStatus(p)

	if explicit == models.StatusDemandSpike || p.Anomaly {
		result.Anomalies = append(result.Anomalies, fmt.Sprintf("%s: Demand spike detected!", p.Name))
	}

	// Strict here while Status uses <=: at stock == min the product is low_stock without a reorder line.
	if p.MinStockLevel != nil && p.CurrentStock < *p.MinStockLevel {
		result.Reorder = append(result.Reorder, fmt.Sprintf("%s: Current stock %d, reorder recommended (min: %d)",
			p.Name, p.CurrentStock, *p.MinStockLevel))
	}

	if explicit == models.StatusDeadStock || p.DeadStock {
		result.DeadStock = append(result.DeadStock, fmt.Sprintf("%s: Dead stock detected", p.Name))
	}

	result.Turnover = []string{fmt.Sprintf("%s: Turnover rate %.2f", p.Name, c.turnover.TurnoverRate(p))}

	return result
}

// ClassifyAll classifies products in order.
func (c *Classifier) ClassifyAll(products []models.Product) []models.ClassifiedProduct {
	out := make([]models.ClassifiedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, models.ClassifiedProduct{Product: p, Classification: c.Classify(p)})
	}
	return out
}

// Status returns the display status only. An explicit status wins, then the
// min threshold, then the max threshold.
func Status(p models.Product) string {
	if s := explicitStatus(p); s != "" {
		return s
	}
	if p.MinStockLevel != nil && p.CurrentStock <= *p.MinStockLevel {
		return models.StatusLowStock
	}
	if p.MaxStockLevel != nil && p.CurrentStock >= *p.MaxStockLevel {
		return models.StatusOverstock
	}
	return models.StatusHealthy
}

func explicitStatus(p models.Product) string {
	if p.Status == nil {
		return ""
	}
	return *p.Status
}
