package models

import (
	"fmt"
	"time"
)

// Accepted upload columns, in template order.
var ImportColumns = []string{
	"product_id", "name", "category", "unit_price", "cost_price",
	"current_stock", "min_stock_level", "max_stock_level",
}

// ImportRow is one data line of an uploaded file keyed by normalized header name.
type ImportRow map[string]string

// Get returns the raw cell for column, or "" when the column is missing.
func (r ImportRow) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// ImportOutcome is the aggregate result of one import run.
type ImportOutcome struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// NewImportOutcome returns an empty outcome with a non-nil error list.
func NewImportOutcome() *ImportOutcome {
	return &ImportOutcome{Errors: []string{}}
}

// Fail records a failed row. index is the 0-based data row; the message uses the
// file row number, which accounts for the header.
func (o *ImportOutcome) Fail(index int, format string, args ...interface{}) {
	o.Failed++
	o.Errors = append(o.Errors, fmt.Sprintf("Row %d: ", index+2)+fmt.Sprintf(format, args...))
}

// Processed is the number of rows that reached a terminal state.
func (o *ImportOutcome) Processed() int {
	return o.Created + o.Updated + o.Failed
}

// ImportResponse is returned by the import endpoint.
type ImportResponse struct {
	*ImportOutcome
	TotalRows   int       `json:"total_rows"`
	ErrorReport string    `json:"error_report,omitempty"`
	ImportTime  time.Time `json:"import_time"`
}

// ImportProgress is the polling view of an async import.
type ImportProgress struct {
	JobCode  string         `json:"job_code"`
	Status   string         `json:"status"`
	Progress float64        `json:"progress"`
	Outcome  *ImportOutcome `json:"outcome,omitempty"`
}
