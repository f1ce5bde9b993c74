package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	billing "dominion-bridge/internal/billing/domain"
)

// BuildBillingPeriodPDF renders a billing-period usage report as a PDF.
func BuildBillingPeriodPDF(stats BillingPeriodStats, bill billing.BillSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Billing Period Usage Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Account: %s", bill.AccountNumber))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period Start: %s", stats.StartDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Next Meter Read: %s", bill.NextMeterReadDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Days With Data: %d", stats.DaysInPeriod))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Energy (kWh): %.3f", stats.TotalEnergyKWh))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Daily Average (kWh): %.3f", stats.DailyAverageKWh))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Peak Power (kW): %.3f at %s", stats.Peak.ValueKW, stats.Peak.Timestamp.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Current Charges: %.2f", bill.CurrentCharges))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Energy (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Peak Power (kW)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, day := range stats.DailyUsages {
		pdf.CellFormat(40, 6, day.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.3f", day.TotalEnergyKWh), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.3f", day.PeakPowerKW), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildBillingPeriodXLSX renders a billing-period usage report as an XLSX
// workbook with a summary sheet and a per-day sheet.
func BuildBillingPeriodXLSX(stats BillingPeriodStats, bill billing.BillSummary) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	daysSheet := "days"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(daysSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Billing Period Usage Report")
	_ = f.SetCellValue(summarySheet, "A3", "Account")
	_ = f.SetCellValue(summarySheet, "B3", bill.AccountNumber)
	_ = f.SetCellValue(summarySheet, "A4", "Period Start")
	_ = f.SetCellValue(summarySheet, "B4", stats.StartDate.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A5", "Next Meter Read")
	_ = f.SetCellValue(summarySheet, "B5", bill.NextMeterReadDate.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A6", "Days With Data")
	_ = f.SetCellValue(summarySheet, "B6", stats.DaysInPeriod)
	_ = f.SetCellValue(summarySheet, "A7", "Total Energy (kWh)")
	_ = f.SetCellValue(summarySheet, "B7", stats.TotalEnergyKWh)
	_ = f.SetCellValue(summarySheet, "A8", "Daily Average (kWh)")
	_ = f.SetCellValue(summarySheet, "B8", stats.DailyAverageKWh)
	_ = f.SetCellValue(summarySheet, "A9", "Peak Power (kW)")
	_ = f.SetCellValue(summarySheet, "B9", stats.Peak.ValueKW)
	_ = f.SetCellValue(summarySheet, "A10", "Current Charges")
	_ = f.SetCellValue(summarySheet, "B10", bill.CurrentCharges)

	_ = f.SetCellValue(daysSheet, "A1", "Day")
	_ = f.SetCellValue(daysSheet, "B1", "Energy (kWh)")
	_ = f.SetCellValue(daysSheet, "C1", "Avg Power (kW)")
	_ = f.SetCellValue(daysSheet, "D1", "Peak Power (kW)")
	for i, day := range stats.DailyUsages {
		row := i + 2
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("A%d", row), day.Date.Format("2006-01-02"))
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("B%d", row), day.TotalEnergyKWh)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("C%d", row), day.AvgPowerKW)
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("D%d", row), day.PeakPowerKW)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
