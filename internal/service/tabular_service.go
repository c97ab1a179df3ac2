package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"shopwise-web/internal/models"
)

// TabularService turns uploaded CSV and XLSX files into import rows and
// renders the downloadable files (templates, error reports, report exports).
type TabularService struct {
	maxRows int
}

// NewTabularService returns a parser that rejects files with more than maxRows
// data rows. maxRows <= 0 means no limit.
func NewTabularService(maxRows int) *TabularService {
	return &TabularService{maxRows: maxRows}
}

// SupportedExtension reports whether filename can be parsed.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// ParseFile parses by file extension.
func (s *TabularService) ParseFile(filename string, r io.Reader) ([]models.ImportRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return s.ParseCSV(r)
	case ".xlsx":
		return s.ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q, use .csv or .xlsx", ErrParseFailed, filepath.Ext(filename))
	}
}

// ParseCSV reads a CSV whose first line is the header. Blank lines are skipped.
func (s *TabularService) ParseCSV(r io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	return s.rowsFromRecords(records)
}

// rowsFromRecords keys every data record by its normalized header. Records
// with no content are dropped and cells beyond the header are ignored.
func (s *TabularService) rowsFromRecords(records [][]string) ([]models.ImportRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrParseFailed)
	}

	header := make([]string, len(records[0]))
	hasColumn := false
	for i, name := range records[0] {
		header[i] = normalizeHeader(name, i == 0)
		if header[i] != "" {
			hasColumn = true
		}
	}
	if !hasColumn {
		return nil, fmt.Errorf("%w: header row is empty", ErrParseFailed)
	}

	rows := make([]models.ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}

		row := make(models.ImportRow, len(header))
		for i, column := range header {
			if column == "" || i >= len(record) {
				continue
			}
			row[column] = record[i]
		}
		rows = append(rows, row)

		if s.maxRows > 0 && len(rows) > s.maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, s.maxRows)
		}
	}

	return rows, nil
}

// WriteTemplateCSV writes the header only upload template.
func (s *TabularService) WriteTemplateCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.ImportColumns); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteInventoryReportCSV writes the report as titled sections, each followed
// by a blank line. Advisory sections without lines are left out.
func (s *TabularService) WriteInventoryReportCSV(report *models.InventoryReport, w io.Writer) error {
	writer := csv.NewWriter(w)

	records := [][]string{
		{"Stock Levels"},
		{"Product", "Stock", "Status"},
	}
	for _, level := range report.StockLevels {
		records = append(records, []string{level.Product, fmt.Sprintf("%d", level.Stock), level.Status})
	}
	records = append(records, []string{""})

	for _, section := range reportSections(report) {
		if len(section.lines) == 0 {
			continue
		}
		records = append(records, []string{section.title})
		for _, line := range section.lines {
			records = append(records, []string{line})
		}
		records = append(records, []string{""})
	}

	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

type reportSection struct {
	title string
	lines []string
}

func reportSections(report *models.InventoryReport) []reportSection {
	return []reportSection{
		{"Anomaly Detection", report.AnomalyDetection},
		{"Reorder Recommendations", report.ReorderRecommendations},
		{"Dead Stock Analysis", report.DeadStockAnalysis},
		{"Turnover Rates", report.TurnoverRates},
	}
}

func normalizeHeader(name string, first bool) string {
	if first {
		name = strings.TrimPrefix(name, "\ufeff")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "_")
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// IsParseError reports whether err means the whole file was rejected.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParseFailed) || errors.Is(err, ErrTooManyRows)
}
