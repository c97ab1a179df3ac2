package models

import "time"

// Display statuses.
const (
	StatusHealthy     = "healthy"
	StatusLowStock    = "low_stock"
	StatusOverstock   = "overstock"
	StatusDeadStock   = "dead_stock"
	StatusDemandSpike = "demand_spike"
	StatusUnknown     = "unknown"
)

// KnownStatuses lists every status a product can be filtered by.
var KnownStatuses = []string{
	StatusHealthy, StatusLowStock, StatusOverstock, StatusDeadStock, StatusDemandSpike, StatusUnknown,
}

// Product is one inventory item owned by a single user. ProductID is the business
// key and is unique per owner; ID is the storage identity.
type Product struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	ProductID     string    `db:"product_id" json:"product_id"`
	Name          string    `db:"name" json:"name"`
	Category      *string   `db:"category" json:"category"`
	CurrentStock  int       `db:"current_stock" json:"current_stock"`
	MinStockLevel *int      `db:"min_stock_level" json:"min_stock_level"`
	MaxStockLevel *int      `db:"max_stock_level" json:"max_stock_level"`
	UnitPrice     float64   `db:"unit_price" json:"unit_price"`
	CostPrice     *float64  `db:"cost_price" json:"cost_price"`
	Status        *string   `db:"status" json:"status"`
	Anomaly       bool      `db:"anomaly" json:"anomaly"`
	DeadStock     bool      `db:"dead_stock" json:"dead_stock"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryName returns the category or an empty string when unset.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}

// ProductRequest is the manual add/edit form.
type ProductRequest struct {
	ProductID     string   `json:"product_id" validate:"required,max=100"`
	Name          string   `json:"name" validate:"required,max=200"`
	Category      string   `json:"category" validate:"required,max=100"`
	CurrentStock  *int     `json:"current_stock" validate:"required,gte=0"`
	UnitPrice     *float64 `json:"unit_price" validate:"required,gte=0"`
	CostPrice     *float64 `json:"cost_price" validate:"omitempty,gte=0"`
	MinStockLevel *int     `json:"min_stock_level" validate:"omitempty,gte=0"`
	MaxStockLevel *int     `json:"max_stock_level" validate:"omitempty,gte=0"`
	Status        *string  `json:"status" validate:"omitempty,oneof=healthy low_stock overstock dead_stock demand_spike unknown"`
	Anomaly       bool     `json:"anomaly"`
	DeadStock     bool     `json:"dead_stock"`
}

// ToProduct builds the record stored for owner.
func (r ProductRequest) ToProduct(owner string) *Product {
	p := &Product{
		UserID:        owner,
		ProductID:     r.ProductID,
		Name:          r.Name,
		MinStockLevel: r.MinStockLevel,
		MaxStockLevel: r.MaxStockLevel,
		CostPrice:     r.CostPrice,
		Anomaly:       r.Anomaly,
		DeadStock:     r.DeadStock,
	}
	if r.Category != "" {
		category := r.Category
		p.Category = &category
	}
	if r.CurrentStock != nil {
		p.CurrentStock = *r.CurrentStock
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
	if r.Status != nil && *r.Status != "" {
		status := *r.Status
		p.Status = &status
	}
	return p
}

// Classification is the derived display status plus advisory messages.
type Classification struct {
	Status    string   `json:"status"`
	Anomalies []string `json:"anomalies"`
	Reorder   []string `json:"reorder"`
	DeadStock []string `json:"dead_stock"`
	Turnover  []string `json:"turnover"`
}

// HasAnomaly reports whether an anomaly advisory was raised.
func (c Classification) HasAnomaly() bool {
	return len(c.Anomalies) > 0
}

// ClassifiedProduct pairs a product with its classification for listing.
type ClassifiedProduct struct {
	Product
	Classification Classification `json:"classification"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search   string
	Category string
	Status   string
	Limit    int
	Offset   int
}
