package reports

import (
	"context"
	"errors"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
)

type VendorStatementRow struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

type VendorStatementResponse struct {
	VendorId       int                  `json:"vendor_id"`
	VendorName     string               `json:"vendor_name"`
	FromDate       time.Time            `json:"from_date"`
	ToDate         time.Time            `json:"to_date"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	Rows           []VendorStatementRow `json:"rows"`
	ClosingBalance decimal.Decimal      `json:"closing_balance"`
}

// GetVendorStatementReport walks the vendor subledger in posting order and
// accumulates a running balance. Credits (purchases) grow the amount owed,
// debits (payments) reduce it; the opening balance covers everything before
// the period.
func GetVendorStatementReport(ctx context.Context, vendorId int, fromDate time.Time, toDate time.Time) (*VendorStatementResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	vendor, err := models.GetVendor(ctx, vendorId)
	if err != nil {
		return nil, errors.New("vendor not found")
	}

	db := config.GetDB()
	openingQuery := `
        SELECT
            COALESCE(SUM(credit_amount), 0) - COALESCE(SUM(debit_amount), 0)
        FROM
            vendor_transactions
        WHERE
            business_id = ? AND vendor_id = ? AND transaction_date < ?;
    `
	var opening decimal.Decimal
	if err := db.WithContext(ctx).Raw(openingQuery, businessId, vendorId, fromDate).Scan(&opening).Error; err != nil {
		return nil, err
	}

	entries, err := models.GetVendorTransactions(ctx, vendorId, &fromDate, &toDate)
	if err != nil {
		return nil, err
	}

	response := VendorStatementResponse{
		VendorId:       vendorId,
		VendorName:     vendor.Name,
		FromDate:       fromDate,
		ToDate:         toDate,
		OpeningBalance: opening,
	}
	balance := opening
	for _, entry := range entries {
		balance = balance.Add(entry.CreditAmount).Sub(entry.DebitAmount)
		response.Rows = append(response.Rows, VendorStatementRow{
			Date:        entry.TransactionDate,
			Description: entry.Description,
			Debit:       entry.DebitAmount,
			Credit:      entry.CreditAmount,
			Balance:     balance,
		})
	}
	response.ClosingBalance = balance
	return &response, nil
}
