package service

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"shopwise-web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	input := "\ufeffProduct_ID, Name ,Category,current stock,extra\n" +
		"P1,Rice,Grains,5,x\n" +
		"\n" +
		" , , , \n" +
		"P2,\"Milk, whole\"\n"

	rows, err := NewTabularService(0).ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.ImportRow{
		"product_id":    "P1",
		"name":          "Rice",
		"category":      "Grains",
		"current_stock": "5",
		"extra":         "x",
	}, rows[0])
	assert.Equal(t, models.ImportRow{"product_id": "P2", "name": "Milk, whole"}, rows[1])
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"blank header", " , \nP1,Rice\n"},
		{"bare quote", "product_id,name\nP1,Ri\"ce\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := NewTabularService(0).ParseCSV(strings.NewReader(tt.input))
			assert.Nil(t, rows)
			assert.ErrorIs(t, err, ErrParseFailed)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	rows, err := NewTabularService(0).ParseCSV(strings.NewReader("product_id,name\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseCSVRowLimit(t *testing.T) {
	input := "product_id,name\nA,a\nB,b\nC,c\n"

	_, err := NewTabularService(2).ParseCSV(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrTooManyRows)

	rows, err := NewTabularService(3).ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestParseXLSXPrefersProductsSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ignored"})
	_, err := f.NewSheet("Products")
	require.NoError(t, err)
	f.SetSheetRow("Products", "A1", &[]interface{}{"product_id", "name", "unit_price", "max_stock_level"})
	f.SetSheetRow("Products", "A2", &[]interface{}{"P1", "Rice", 12.5, 40})
	f.SetSheetRow("Products", "A4", &[]interface{}{"P2", "Milk"})

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	rows, err := NewTabularService(0).ParseXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Rice", rows[0]["name"])
	assert.Equal(t, "12.5", rows[0]["unit_price"])
	assert.Equal(t, "40", rows[0]["max_stock_level"])
	assert.Equal(t, "P2", rows[1]["product_id"])
}

func TestParseXLSXRejectsGarbage(t *testing.T) {
	_, err := NewTabularService(0).ParseXLSX(strings.NewReader("not a zip"))
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestParseFileDispatch(t *testing.T) {
	svc := NewTabularService(0)

	rows, err := svc.ParseFile("Upload.CSV", strings.NewReader("product_id,name\nP1,Rice\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.ParseFile("upload.xls", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrParseFailed)

	assert.True(t, SupportedExtension("a.xlsx"))
	assert.False(t, SupportedExtension("a.json"))
}

func TestTemplatesRoundTrip(t *testing.T) {
	svc := NewTabularService(0)

	var csvBuf bytes.Buffer
	require.NoError(t, svc.WriteTemplateCSV(&csvBuf))
	assert.Equal(t, strings.Join(models.ImportColumns, ",")+"\n", csvBuf.String())

	var xlsxBuf bytes.Buffer
	require.NoError(t, svc.WriteTemplateXLSX(&xlsxBuf))
	rows, err := svc.ParseXLSX(&xlsxBuf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteInventoryReportCSV(t *testing.T) {
	report := &models.InventoryReport{
		StockLevels: []models.StockLevel{
			{Product: "Rice", Stock: 5, Status: models.StatusLowStock},
			{Product: "Milk", Stock: 20, Status: models.StatusHealthy},
		},
		AnomalyDetection:       []string{},
		ReorderRecommendations: []string{"Rice: Current stock 5, reorder recommended (min: 10)"},
		DeadStockAnalysis:      nil,
		TurnoverRates:          []string{"Rice: Turnover rate 2.00", "Milk: Turnover rate 3.00"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewTabularService(0).WriteInventoryReportCSV(report, &buf))

	want := "Stock Levels\n" +
		"Product,Stock,Status\n" +
		"Rice,5,low_stock\n" +
		"Milk,20,healthy\n" +
		"\n" +
		"Reorder Recommendations\n" +
		"\"Rice: Current stock 5, reorder recommended (min: 10)\"\n" +
		"\n" +
		"Turnover Rates\n" +
		"Rice: Turnover rate 2.00\n" +
		"Milk: Turnover rate 3.00\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteInventoryReportXLSX(t *testing.T) {
	report := &models.InventoryReport{
		StockLevels:      []models.StockLevel{{Product: "Rice", Stock: 5, Status: models.StatusLowStock}},
		AnomalyDetection: []string{"Rice: Demand spike detected!"},
		TurnoverRates:    []string{"Rice: Turnover rate 2.00"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewTabularService(0).WriteInventoryReportXLSX(report, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Stock Levels", "Anomaly Detection", "Turnover Rates"}, f.GetSheetList())
	value, err := f.GetCellValue("Anomaly Detection", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Rice: Demand spike detected!", value)
}

func TestGenerateImportErrorReport(t *testing.T) {
	outcome := &models.ImportOutcome{
		Created: 3,
		Updated: 1,
		Failed:  1,
		Errors:  []string{"Row 4: Missing required fields."},
	}
	path := filepath.Join(t.TempDir(), "errors.xlsx")

	require.NoError(t, NewTabularService(0).GenerateImportErrorReport(outcome, 5, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	message, err := f.GetCellValue("Import Errors", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Row 4: Missing required fields.", message)

	rate, err := f.GetCellValue("Import Errors", "B10")
	require.NoError(t, err)
	assert.Equal(t, "80.0%", rate)
}
