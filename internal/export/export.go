// Package export renders dashboard data as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"restodash/internal/dashboard"
	"restodash/internal/models"
)

const (
	summarySheet = "summary"
	dailySheet   = "daily"
)

// SalesWorkbook renders a sales view as an XLSX workbook with a summary
// sheet and one row per day.
func SalesWorkbook(view *dashboard.View) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, errors.Wrap(err, "failed to name summary sheet")
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, errors.Wrap(err, "failed to add daily sheet")
	}

	_ = f.SetCellValue(summarySheet, "A1", "Sales Overview")
	_ = f.SetCellValue(summarySheet, "A3", "Range")
	_ = f.SetCellValue(summarySheet, "B3", string(view.Range))
	_ = f.SetCellValue(summarySheet, "A4", "From")
	_ = f.SetCellValue(summarySheet, "B4", view.Start)
	_ = f.SetCellValue(summarySheet, "A5", "To")
	_ = f.SetCellValue(summarySheet, "B5", view.End)
	_ = f.SetCellValue(summarySheet, "A6", "Total Orders")
	_ = f.SetCellValue(summarySheet, "B6", view.Summary.TotalOrders)
	_ = f.SetCellValue(summarySheet, "A7", "Total Revenue")
	_ = f.SetCellValue(summarySheet, "B7", view.Summary.TotalRevenue.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A8", "Average Order Value")
	_ = f.SetCellValue(summarySheet, "B8", view.Summary.AverageOrderValue.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A9", "Peak Hour")
	_ = f.SetCellValue(summarySheet, "B9", view.Summary.PeakHour)
	_ = f.SetCellValue(summarySheet, "A10", "Loaded At")
	_ = f.SetCellValue(summarySheet, "B10", view.LoadedAt.Format(time.RFC3339))

	_ = f.SetCellValue(dailySheet, "A1", "Date")
	_ = f.SetCellValue(dailySheet, "B1", "Items Sold")
	_ = f.SetCellValue(dailySheet, "C1", "Revenue")
	_ = f.SetCellValue(dailySheet, "D1", "Orders")
	for i, day := range view.Daily {
		row := i + 2
		_ = f.SetCellValue(dailySheet, fmt.Sprintf("A%d", row), day.Date)
		_ = f.SetCellValue(dailySheet, fmt.Sprintf("B%d", row), day.Sales)
		_ = f.SetCellValue(dailySheet, fmt.Sprintf("C%d", row), day.Revenue.InexactFloat64())
		_ = f.SetCellValue(dailySheet, fmt.Sprintf("D%d", row), day.Orders)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write sales workbook")
	}
	return buf.Bytes(), nil
}

// WasteReport renders waste analytics as a one-page PDF
func WasteReport(analytics *models.WasteAnalytics, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Food Waste Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generated.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Waste Cost: %s", analytics.TotalWasteCost.StringFixed(2)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Quantity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Cost", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, c := range analytics.WasteByCategoryData {
		pdf.CellFormat(60, 6, string(c.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", c.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, c.Cost.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Top Wasted Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Quantity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Cost", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, item := range analytics.TopWastedItems {
		pdf.CellFormat(60, 6, item.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.TotalQuantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, item.TotalCost.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Cost", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, day := range analytics.WasteOverTime {
		pdf.CellFormat(60, 6, day.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, day.Cost.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write waste report")
	}
	return buf.Bytes(), nil
}
