package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"shopwise-web/internal/models"

	"github.com/sirupsen/logrus"
)

// ProductStore is the persistence the importer needs.
type ProductStore interface {
	ListProductIDs(ctx context.Context, owner string) (map[string]struct{}, error)
	InsertProduct(ctx context.Context, owner string, p *models.Product) error
	UpdateProduct(ctx context.Context, owner, productID string, p *models.Product) error
}

// ProgressFunc receives the completed fraction after every row.
type ProgressFunc func(fraction float64)

// ImportEngine reconciles uploaded rows into inserts and updates for one owner.
type ImportEngine struct {
	store  ProductStore
	logger *logrus.Logger
}

func NewImportEngine(store ProductStore, logger *logrus.Logger) *ImportEngine {
	return &ImportEngine{
		store:  store,
		logger: logger,
	}
}

// Import processes rows in file order. A bad row is recorded in the outcome and
// never stops the run. The only errors returned are a failure to load the
// owner's existing product ids (no outcome) and context cancellation (the
// outcome so far is returned with ctx.Err()).
func (e *ImportEngine) Import(ctx context.Context, owner string, rows []models.ImportRow, progress ProgressFunc) (*models.ImportOutcome, error) {
	known, err := e.store.ListProductIDs(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing products: %w", err)
	}
	if known == nil {
		known = make(map[string]struct{})
	}

	log := e.logger.WithFields(logrus.Fields{
		"owner": owner,
		"rows":  len(rows),
	})
	log.Info("Import started")

	outcome := models.NewImportOutcome()
	total := len(rows)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			log.WithFields(logrus.Fields{
				"processed": i,
				"created":   outcome.Created,
				"updated":   outcome.Updated,
				"failed":    outcome.Failed,
			}).Warn("Import cancelled")
			return outcome, err
		}

		e.importRow(ctx, owner, i, row, known, outcome)

		if progress != nil {
			progress(float64(i+1) / float64(total))
		}
	}

	log.WithFields(logrus.Fields{
		"created": outcome.Created,
		"updated": outcome.Updated,
		"failed":  outcome.Failed,
	}).Info("Import finished")

	return outcome, nil
}

func (e *ImportEngine) importRow(ctx context.Context, owner string, i int, row models.ImportRow, known map[string]struct{}, outcome *models.ImportOutcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{"owner": owner, "row": i + 2, "panic": r}).Error("Import row panicked")
			outcome.Fail(i, "Unexpected error - %v", r)
		}
	}()

	productID := strings.TrimSpace(row.Get("product_id"))
	name := strings.TrimSpace(row.Get("name"))
	if productID == "" || name == "" {
		outcome.Fail(i, "Missing required fields.")
		return
	}

	product, invalid := productFromRow(owner, productID, name, row)
	if len(invalid) > 0 {
		e.logger.WithFields(logrus.Fields{
			"owner":      owner,
			"row":        i + 2,
			"product_id": productID,
			"columns":    invalid,
		}).Debug("Invalid numeric cells replaced with defaults")
	}

	if _, exists := known[productID]; exists {
		if err := e.store.UpdateProduct(ctx, owner, productID, product); err != nil {
			outcome.Fail(i, "Update failed: %s", err.Error())
			return
		}
		outcome.Updated++
		return
	}

	if err := e.store.InsertProduct(ctx, owner, product); err != nil {
		outcome.Fail(i, "Insert failed: %s", err.Error())
		return
	}
	known[productID] = struct{}{}
	outcome.Created++
}

// productFromRow applies the import coercions: prices, stock and min default
// to 0, max stays unset unless it holds a usable integer. It also returns the
// columns whose content was invalid.
func productFromRow(owner, productID, name string, row models.ImportRow) (*models.Product, []string) {
	var invalid []string
	floatCell := func(column string) models.OptionalFloat {
		v := ParseFloatCell(row.Get(column))
		if v.State == models.FieldInvalid {
			invalid = append(invalid, column)
		}
		return v
	}
	intCell := func(column string) models.OptionalInt {
		v := ParseIntCell(row.Get(column))
		if v.State == models.FieldInvalid {
			invalid = append(invalid, column)
		}
		return v
	}

	unitPrice := floatCell("unit_price").OrDefault(0)
	costPrice := floatCell("cost_price").OrDefault(0)
	currentStock := intCell("current_stock").OrDefault(0)
	minStock := intCell("min_stock_level").OrDefault(0)
	maxStock := intCell("max_stock_level")

	p := &models.Product{
		UserID:        owner,
		ProductID:     productID,
		Name:          name,
		UnitPrice:     unitPrice,
		CostPrice:     &costPrice,
		CurrentStock:  currentStock,
		MinStockLevel: &minStock,
		MaxStockLevel: maxStock.Ptr(),
	}
	if category := strings.TrimSpace(row.Get("category")); category != "" {
		p.Category = &category
	}

	return p, invalid
}

// ParseFloatCell reads a non-negative decimal. Thousands separators are ignored
// and a lone "-" counts as blank.
func ParseFloatCell(raw string) models.OptionalFloat {
	s, ok := normalizeNumber(raw)
	if !ok {
		return models.OptionalFloat{State: models.FieldInvalid}
	}
	if s == "" {
		return models.OptionalFloat{State: models.FieldAbsent}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return models.OptionalFloat{State: models.FieldInvalid}
	}
	return models.OptionalFloat{State: models.FieldPresent, Value: v}
}

// ParseIntCell reads a non-negative integer that fits the INT columns.
// Decimal input is truncated, so "5.7" is 5.
func ParseIntCell(raw string) models.OptionalInt {
	s, ok := normalizeNumber(raw)
	if !ok {
		return models.OptionalInt{State: models.FieldInvalid}
	}
	if s == "" {
		return models.OptionalInt{State: models.FieldAbsent}
	}

	if v, err := strconv.Atoi(s); err == nil {
		if v < 0 || v > math.MaxInt32 {
			return models.OptionalInt{State: models.FieldInvalid}
		}
		return models.OptionalInt{State: models.FieldPresent, Value: v}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return models.OptionalInt{State: models.FieldInvalid}
	}
	return models.OptionalInt{State: models.FieldPresent, Value: int(f)}
}

// thousandsGrouped matches numbers such as 1,200 or 12,345.67.
var thousandsGrouped = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

// normalizeNumber trims the cell and drops thousands separators. It is false
// for commas that are not thousands grouping, such as the decimal comma in "1,5".
func normalizeNumber(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "-" {
		return "", true
	}
	if !strings.Contains(s, ",") {
		return s, true
	}
	if !thousandsGrouped.MatchString(s) {
		return "", false
	}
	return strings.ReplaceAll(s, ",", ""), true
}

// ProductFromRow builds the record an import would store for row without
// touching storage.
func ProductFromRow(owner string, row models.ImportRow) (*models.Product, error) {
	productID := strings.TrimSpace(row.Get("product_id"))
	name := strings.TrimSpace(row.Get("name"))
	if productID == "" || name == "" {
		return nil, ErrMissingRequiredFields
	}
	p, _ := productFromRow(owner, productID, name, row)
	return p, nil
}
