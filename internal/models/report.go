package models

import (
	"encoding/json"
	"time"
)

// ReportTypeInventory is the only report type generated from real data.
const ReportTypeInventory = "inventory"

// Report is a saved report. ReportData holds the JSON encoded InventoryReport.
type Report struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"user_id"`
	ReportName     string          `db:"report_name" json:"report_name"`
	ReportType     string          `db:"report_type" json:"report_type"`
	ReportData     json.RawMessage `db:"report_data" json:"report_data"`
	DateRangeStart time.Time       `db:"date_range_start" json:"date_range_start"`
	DateRangeEnd   time.Time       `db:"date_range_end" json:"date_range_end"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// ReportRequest creates a report.
type ReportRequest struct {
	ReportName string `json:"report_name" validate:"required,max=200"`
	ReportType string `json:"report_type" validate:"required"`
}

// StockLevel is one line of the stock levels section.
type StockLevel struct {
	Product string `json:"product"`
	Stock   int    `json:"stock"`
	Status  string `json:"status"`
}

// InventoryReport is the content of an inventory report.
type InventoryReport struct {
	StockLevels            []StockLevel `json:"stock_levels"`
	AnomalyDetection       []string     `json:"anomaly_detection"`
	ReorderRecommendations []string     `json:"reorder_recommendations"`
	DeadStockAnalysis      []string     `json:"dead_stock_analysis"`
	TurnoverRates          []string     `json:"turnover_rates"`
}
