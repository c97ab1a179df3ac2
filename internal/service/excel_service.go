package service

import (
	"fmt"
	"io"

	"shopwise-web/internal/models"

	"github.com/xuri/excelize/v2"
)

const productSheet = "Products"

// ParseXLSX reads the "Products" sheet, or the first sheet when there is none,
// with the same header and blank line rules as ParseCSV.
func (s *TabularService) ParseXLSX(r io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", ErrParseFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found in Excel file", ErrParseFailed)
	}

	sheetName := sheets[0]
	for _, name := range sheets {
		if name == productSheet {
			sheetName = name
			break
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %v", ErrParseFailed, err)
	}

	return s.rowsFromRecords(rows)
}

// WriteTemplateXLSX writes the header only upload template plus an instructions sheet.
func (s *TabularService) WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(productSheet)
	if err != nil {
		return err
	}

	for i, header := range models.ImportColumns {
		f.SetCellValue(productSheet, fmt.Sprintf("%s1", getColumnName(i)), header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(productSheet, "A1", fmt.Sprintf("%s1", getColumnName(len(models.ImportColumns)-1)), headerStyle)
	f.SetColWidth(productSheet, "A", getColumnName(len(models.ImportColumns)-1), 18)

	instructionsSheet := "Instructions"
	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return err
	}
	instructions := []string{
		"Instructions:",
		"1. product_id: Your product code, unique per account. Re-uploading an existing code updates it.",
		"2. name: Product name (required)",
		"3. category: Optional category",
		"4. unit_price, cost_price: Prices, 0 when empty",
		"5. current_stock, min_stock_level: Whole numbers, 0 when empty",
		"6. max_stock_level: Whole number, leave empty for no upper limit",
		"",
		"Note: Do not modify the header row. Fill data starting from row 2 of the Products sheet.",
	}
	for i, line := range instructions {
		f.SetCellValue(instructionsSheet, fmt.Sprintf("A%d", i+1), line)
	}
	f.SetColWidth(instructionsSheet, "A", "A", 90)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_, err = f.WriteTo(w)
	return err
}

// GenerateImportErrorReport writes the failed rows of an import and a summary block.
func (s *TabularService) GenerateImportErrorReport(outcome *models.ImportOutcome, totalRows int, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Errors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"No", "Message"}
	for i, header := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", getColumnName(i)), header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", "B1", headerStyle)

	errorStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFFFCC"}, Pattern: 1},
	})
	for i, message := range outcome.Errors {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), message)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), errorStyle)
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 80)

	summaryStartRow := len(outcome.Errors) + 4
	summary := []struct {
		label string
		value interface{}
	}{
		{"Total Rows Processed:", totalRows},
		{"Created:", outcome.Created},
		{"Updated:", outcome.Updated},
		{"Failed:", outcome.Failed},
		{"Success Rate:", successRate(outcome, totalRows)},
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow), "Import Summary")
	for i, line := range summary {
		row := summaryStartRow + 1 + i
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.value)
	}

	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryStartRow), fmt.Sprintf("A%d", summaryStartRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// WriteInventoryReportXLSX writes one sheet per report section.
func (s *TabularService) WriteInventoryReportXLSX(report *models.InventoryReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	stockSheet := "Stock Levels"
	index, err := f.NewSheet(stockSheet)
	if err != nil {
		return err
	}
	for i, header := range []string{"Product", "Stock", "Status"} {
		f.SetCellValue(stockSheet, fmt.Sprintf("%s1", getColumnName(i)), header)
	}
	f.SetCellStyle(stockSheet, "A1", "C1", headerStyle)
	for i, level := range report.StockLevels {
		row := i + 2
		f.SetCellValue(stockSheet, fmt.Sprintf("A%d", row), level.Product)
		f.SetCellValue(stockSheet, fmt.Sprintf("B%d", row), level.Stock)
		f.SetCellValue(stockSheet, fmt.Sprintf("C%d", row), level.Status)
	}
	f.SetColWidth(stockSheet, "A", "A", 30)
	f.SetColWidth(stockSheet, "B", "C", 15)

	for _, section := range reportSections(report) {
		if len(section.lines) == 0 {
			continue
		}
		if _, err := f.NewSheet(section.title); err != nil {
			return err
		}
		f.SetCellValue(section.title, "A1", section.title)
		f.SetCellStyle(section.title, "A1", "A1", headerStyle)
		for i, line := range section.lines {
			f.SetCellValue(section.title, fmt.Sprintf("A%d", i+2), line)
		}
		f.SetColWidth(section.title, "A", "A", 80)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_, err = f.WriteTo(w)
	return err
}

func successRate(outcome *models.ImportOutcome, totalRows int) string {
	if totalRows == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(outcome.Created+outcome.Updated)/float64(totalRows)*100)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
