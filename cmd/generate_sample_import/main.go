package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"shopwise-web/internal/models"

	"github.com/xuri/excelize/v2"
)

// Rows cover new products, a duplicate product id, a missing name and
// unparseable numbers so every import path can be tried by hand.
var sampleRows = [][]interface{}{
	{"SKU-001", "Basmati Rice 5kg", "Grains", 12.5, 9.8, 4, 10, 80},
	{"SKU-002", "Whole Milk 1L", "Dairy", 1.1, 0.8, 40, 10, 60},
	{"SKU-003", "Rolled Oats", "Grains", 3.2, 2.1, 95, 20, 90},
	{"SKU-004", "Sea Salt", "", 0.5, "", 25, "", ""},
	{"SKU-005", "Olive Oil 500ml", "Pantry", 7.9, 5.5, 10, 10, 50},
	{"SKU-002", "Whole Milk 1L (restock)", "Dairy", 1.1, 0.8, 55, 10, 60},
	{"SKU-006", "", "Dairy", 2.4, 1.9, 12, 5, 30},
	{"SKU-007", "Green Tea", "Beverages", "n/a", "-", "lots", 5, 0},
}

func main() {
	outputDir := filepath.Join("storage", "uploads")
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Printf("Error creating %s: %v\n", outputDir, err)
		os.Exit(1)
	}

	xlsxPath := filepath.Join(outputDir, "sample_products.xlsx")
	if err := writeXLSX(xlsxPath); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Sample file created: %s\n", xlsxPath)

	csvPath := filepath.Join(outputDir, "sample_products.csv")
	if err := writeCSV(csvPath); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Sample file created: %s\n", csvPath)
	fmt.Printf("  Total rows: %d\n", len(sampleRows))
}

func writeXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(models.ImportColumns))
	for i, column := range models.ImportColumns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	last, _ := excelize.ColumnNumberToName(len(models.ImportColumns))
	f.SetCellStyle(sheetName, "A1", last+"1", headerStyle)

	for i, row := range sampleRows {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "H", 16)

	instructionsSheet := "Instructions"
	f.NewSheet(instructionsSheet)
	f.SetCellValue(instructionsSheet, "A1", "SAMPLE IMPORT")
	f.SetCellValue(instructionsSheet, "A3", "Expected outcome on an empty account:")
	f.SetCellValue(instructionsSheet, "A4", "- created: 6 (SKU-001..005, SKU-007)")
	f.SetCellValue(instructionsSheet, "A5", "- updated: 1 (second SKU-002 row)")
	f.SetCellValue(instructionsSheet, "A6", "- failed: 1 (Row 8, missing name)")
	f.SetCellValue(instructionsSheet, "A7", "SKU-007 numbers cannot be parsed and fall back to 0.")

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(path)
}

func writeCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(models.ImportColumns); err != nil {
		return err
	}
	for _, row := range sampleRows {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = fmt.Sprint(value)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
