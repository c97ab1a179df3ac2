package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"shopwise-web/internal/models"

	"github.com/sirupsen/logrus"
)

// ReportStore persists generated reports.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, owner, id string) (*models.Report, error)
	List(ctx context.Context, owner string, limit, offset int) ([]models.Report, int64, error)
	Delete(ctx context.Context, owner, id string) error
}

type ReportService struct {
	reports    ReportStore
	products   ProductLister
	classifier *Classifier
	tabular    *TabularService
	logger     *logrus.Logger
}

func NewReportService(reports ReportStore, products ProductLister, classifier *Classifier, tabular *TabularService, logger *logrus.Logger) *ReportService {
	return &ReportService{
		reports:    reports,
		products:   products,
		classifier: classifier,
		tabular:    tabular,
		logger:     logger,
	}
}

// Generate builds a report from the owner's current products and saves it.
func (s *ReportService) Generate(ctx context.Context, owner string, req models.ReportRequest) (*models.Report, error) {
	if req.ReportType != models.ReportTypeInventory {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedReportType, req.ReportType)
	}

	products, err := s.products.FindAll(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	data, err := json.Marshal(s.BuildInventoryReport(products))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	report := &models.Report{
		UserID:         owner,
		ReportName:     req.ReportName,
		ReportType:     req.ReportType,
		ReportData:     data,
		DateRangeStart: today,
		DateRangeEnd:   today,
		CreatedAt:      now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"owner":     owner,
		"report_id": report.ID,
		"products":  len(products),
	}).Info("Inventory report generated")

	return report, nil
}

// BuildInventoryReport collects the classifier output of every product into
// report sections, in product order.
func (s *ReportService) BuildInventoryReport(products []models.Product) *models.InventoryReport {
	report := &models.InventoryReport{
		StockLevels:            make([]models.StockLevel, 0, len(products)),
		AnomalyDetection:       []string{},
		ReorderRecommendations: []string{},
		DeadStockAnalysis:      []string{},
		TurnoverRates:          []string{},
	}

	for _, item := range s.classifier.ClassifyAll(products) {
		report.StockLevels = append(report.StockLevels, models.StockLevel{
			Product: item.Name,
			Stock:   item.CurrentStock,
			Status:  item.Classification.Status,
		})
		report.AnomalyDetection = append(report.AnomalyDetection, item.Classification.Anomalies...)
		report.ReorderRecommendations = append(report.ReorderRecommendations, item.Classification.Reorder...)
		report.DeadStockAnalysis = append(report.DeadStockAnalysis, item.Classification.DeadStock...)
		report.TurnoverRates = append(report.TurnoverRates, item.Classification.Turnover...)
	}

	return report
}

func (s *ReportService) Get(ctx context.Context, owner, id string) (*models.Report, error) {
	return s.reports.FindByID(ctx, owner, id)
}

func (s *ReportService) List(ctx context.Context, owner string, limit, offset int) ([]models.Report, int64, error) {
	return s.reports.List(ctx, owner, limit, offset)
}

func (s *ReportService) Delete(ctx context.Context, owner, id string) error {
	return s.reports.Delete(ctx, owner, id)
}

// Export writes a saved report as csv or xlsx.
func (s *ReportService) Export(ctx context.Context, owner, id, format string, w io.Writer) error {
	report, err := s.reports.FindByID(ctx, owner, id)
	if err != nil {
		return err
	}
	if report.ReportType != models.ReportTypeInventory {
		return fmt.Errorf("%w: %s", ErrUnsupportedReportType, report.ReportType)
	}

	var content models.InventoryReport
	if err := json.Unmarshal(report.ReportData, &content); err != nil {
		return fmt.Errorf("failed to decode report data: %w", err)
	}

	switch format {
	case "xlsx":
		return s.tabular.WriteInventoryReportXLSX(&content, w)
	case "csv", "":
		return s.tabular.WriteInventoryReportCSV(&content, w)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
