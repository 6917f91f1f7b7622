package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// ExportVendorStatementExcel renders the vendor statement as a workbook for
// download.
func ExportVendorStatementExcel(ctx context.Context, vendorId int, fromDate time.Time, toDate time.Time) (*excelize.File, error) {

	report, err := GetVendorStatementReport(ctx, vendorId, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetCellValue(exportSheet, "A1", fmt.Sprintf("Vendor Statement - %s", report.VendorName))
	f.SetCellValue(exportSheet, "A2", fmt.Sprintf("From %s to %s",
		report.FromDate.Format("2006-01-02"), report.ToDate.Format("2006-01-02")))

	f.SetCellValue(exportSheet, "A4", "Date")
	f.SetCellValue(exportSheet, "B4", "Description")
	f.SetCellValue(exportSheet, "C4", "Debit")
	f.SetCellValue(exportSheet, "D4", "Credit")
	f.SetCellValue(exportSheet, "E4", "Balance")

	f.SetCellValue(exportSheet, "B5", "Opening Balance")
	f.SetCellValue(exportSheet, "E5", report.OpeningBalance.StringFixed(2))

	for i, row := range report.Rows {
		r := fmt.Sprint(i + 6)
		f.SetCellValue(exportSheet, "A"+r, row.Date.Format("2006-01-02"))
		f.SetCellValue(exportSheet, "B"+r, row.Description)
		f.SetCellValue(exportSheet, "C"+r, row.Debit.StringFixed(2))
		f.SetCellValue(exportSheet, "D"+r, row.Credit.StringFixed(2))
		f.SetCellValue(exportSheet, "E"+r, row.Balance.StringFixed(2))
	}

	closingRow := fmt.Sprint(len(report.Rows) + 6)
	f.SetCellValue(exportSheet, "B"+closingRow, "Closing Balance")
	f.SetCellValue(exportSheet, "E"+closingRow, report.ClosingBalance.StringFixed(2))

	if err := f.SetColWidth(exportSheet, "A", "E", 18); err != nil {
		return nil, err
	}
	return f, nil
}

// ExportBalanceSheetExcel renders the balance sheet as a workbook.
func ExportBalanceSheetExcel(ctx context.Context, asOf time.Time) (*excelize.File, error) {

	report, err := GetBalanceSheetReport(ctx, asOf)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetCellValue(exportSheet, "A1", "Balance Sheet")
	f.SetCellValue(exportSheet, "A2", fmt.Sprintf("As of %s", report.AsOf.Format("2006-01-02")))

	rowNo := 4
	for _, group := range report.Groups {
		f.SetCellValue(exportSheet, "A"+fmt.Sprint(rowNo), string(group.AccountMainType))
		rowNo++
		for _, acc := range group.Accounts {
			f.SetCellValue(exportSheet, "A"+fmt.Sprint(rowNo), acc.Code)
			f.SetCellValue(exportSheet, "B"+fmt.Sprint(rowNo), acc.AccountName)
			f.SetCellValue(exportSheet, "C"+fmt.Sprint(rowNo), acc.Balance.StringFixed(2))
			rowNo++
		}
		f.SetCellValue(exportSheet, "B"+fmt.Sprint(rowNo), fmt.Sprintf("Total %s", group.AccountMainType))
		f.SetCellValue(exportSheet, "C"+fmt.Sprint(rowNo), group.Total.StringFixed(2))
		rowNo += 2
	}

	f.SetCellValue(exportSheet, "B"+fmt.Sprint(rowNo), "Total Assets")
	f.SetCellValue(exportSheet, "C"+fmt.Sprint(rowNo), report.TotalAssets.StringFixed(2))
	rowNo++
	f.SetCellValue(exportSheet, "B"+fmt.Sprint(rowNo), "Total Liabilities and Equity")
	f.SetCellValue(exportSheet, "C"+fmt.Sprint(rowNo), report.TotalLiabilitiesAndEquity.StringFixed(2))

	if err := f.SetColWidth(exportSheet, "A", "C", 22); err != nil {
		return nil, err
	}
	return f, nil
}
