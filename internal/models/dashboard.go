package models

import "github.com/shopspring/decimal"

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StockEntry is one bar of the top stock chart.
type StockEntry struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// DashboardStats are the KPI widgets of the dashboard.
type DashboardStats struct {
	TotalProducts    int             `json:"total_products"`
	HealthyProducts  int             `json:"healthy_products"`
	AlertProducts    int             `json:"alert_products"`
	LowStockProducts int             `json:"low_stock_products"`
	InventoryValue   decimal.Decimal `json:"inventory_value"`
	InventoryCost    decimal.Decimal `json:"inventory_cost"`
	Categories       []CategoryCount `json:"categories"`
	TopStock         []StockEntry    `json:"top_stock"`
}
