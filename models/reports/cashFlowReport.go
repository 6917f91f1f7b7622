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

type CashFlowSourceRow struct {
	Source  models.TransactionSource `json:"source"`
	Inflow  decimal.Decimal          `json:"inflow"`
	Outflow decimal.Decimal          `json:"outflow"`
	Net     decimal.Decimal          `json:"net"`
}

type CashFlowResponse struct {
	FromDate       time.Time           `json:"from_date"`
	ToDate         time.Time           `json:"to_date"`
	OpeningBalance decimal.Decimal     `json:"opening_balance"`
	Sources        []CashFlowSourceRow `json:"sources"`
	TotalInflow    decimal.Decimal     `json:"total_inflow"`
	TotalOutflow   decimal.Decimal     `json:"total_outflow"`
	ClosingBalance decimal.Decimal     `json:"closing_balance"`
}

// GetCashFlowReport sums the period's movements on cash and bank accounts,
// grouped by the booking source. Debits on a cash account are inflows,
// credits are outflows; closing equals opening plus the net of the period.
func GetCashFlowReport(ctx context.Context, fromDate time.Time, toDate time.Time) (*CashFlowResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if toDate.Before(fromDate) {
		return nil, errors.New("to date must not be before from date")
	}

	db := config.GetDB()

	openingQuery := `
        SELECT
            COALESCE(SUM(tbl.dr_amount), 0) - COALESCE(SUM(tbl.cr_amount), 0)
        FROM
            transaction_booking_lines AS tbl
        INNER JOIN
            chart_accounts AS acc ON acc.id = tbl.account_id
        WHERE
            tbl.business_id = ?
            AND acc.account_type IN ('cash', 'bank_transfer')
            AND tbl.transaction_date < ?;
    `
	var opening decimal.Decimal
	if err := db.WithContext(ctx).Raw(openingQuery, businessId, fromDate).Scan(&opening).Error; err != nil {
		return nil, err
	}

	periodQuery := `
        SELECT
            tb.source,
            COALESCE(SUM(tbl.dr_amount), 0) AS inflow,
            COALESCE(SUM(tbl.cr_amount), 0) AS outflow
        FROM
            transaction_booking_lines AS tbl
        INNER JOIN
            chart_accounts AS acc ON acc.id = tbl.account_id
        INNER JOIN
            transaction_bookings AS tb ON tb.id = tbl.booking_id
        WHERE
            tbl.business_id = ?
            AND acc.account_type IN ('cash', 'bank_transfer')
            AND tbl.transaction_date BETWEEN ? AND ?
        GROUP BY
            tb.source
        ORDER BY
            tb.source;
    `
	var rows []CashFlowSourceRow
	if err := db.WithContext(ctx).Raw(periodQuery, businessId, fromDate, toDate).Scan(&rows).Error; err != nil {
		return nil, err
	}

	response := CashFlowResponse{
		FromDate:       fromDate,
		ToDate:         toDate,
		OpeningBalance: opening,
	}
	for i := range rows {
		rows[i].Net = rows[i].Inflow.Sub(rows[i].Outflow)
		response.TotalInflow = response.TotalInflow.Add(rows[i].Inflow)
		response.TotalOutflow = response.TotalOutflow.Add(rows[i].Outflow)
	}
	response.Sources = rows
	response.ClosingBalance = opening.Add(response.TotalInflow).Sub(response.TotalOutflow)
	return &response, nil
}
