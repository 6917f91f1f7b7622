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

type BalanceSheetAccount struct {
	AccountId       int                    `json:"account_id"`
	Code            string                 `json:"code"`
	AccountName     string                 `gorm:"column:account_name" json:"account_name"`
	AccountMainType models.AccountMainType `gorm:"column:account_main_type" json:"account_main_type"`
	Balance         decimal.Decimal        `json:"balance"`
}

type BalanceSheetGroup struct {
	AccountMainType models.AccountMainType `json:"account_main_type"`
	Accounts        []BalanceSheetAccount  `json:"accounts"`
	Total           decimal.Decimal        `json:"total"`
}

type BalanceSheetResponse struct {
	AsOf                      time.Time           `json:"as_of"`
	Groups                    []BalanceSheetGroup `json:"groups"`
	TotalAssets               decimal.Decimal     `json:"total_assets"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"total_liabilities_and_equity"`
}

// GetBalanceSheetReport derives every account's balance from its booking
// lines up to asOf and groups by main type. Credit-natured balances are
// flipped to their natural sign, so assets and liabilities both read
// positive when healthy; TotalAssets equals TotalLiabilitiesAndEquity when
// the ledger balances.
func GetBalanceSheetReport(ctx context.Context, asOf time.Time) (*BalanceSheetResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	base, err := models.GetBaseCurrency(ctx, businessId)
	if err != nil {
		return nil, err
	}
	decimalPlaces := base.DecimalPlaces

	query := `
        SELECT
            acc.id AS account_id,
            acc.code,
            acc.name AS account_name,
            acc.main_type AS account_main_type,
            COALESCE(SUM(tbl.dr_amount), 0) - COALESCE(SUM(tbl.cr_amount), 0) AS balance
        FROM
            chart_accounts AS acc
        LEFT JOIN
            transaction_booking_lines AS tbl ON tbl.account_id = acc.id
            AND tbl.transaction_date <= ?
        WHERE
            acc.business_id = ?
            AND acc.main_type IN ('Asset', 'Liability', 'Equity')
        GROUP BY
            acc.id, acc.code, acc.name, acc.main_type
        ORDER BY
            acc.main_type, acc.code, acc.name;
    `

	db := config.GetDB()
	var rows []BalanceSheetAccount
	if err := db.WithContext(ctx).Raw(query, asOf, businessId).Scan(&rows).Error; err != nil {
		return nil, err
	}

	response := BalanceSheetResponse{AsOf: asOf}
	for _, row := range rows {
		row.Balance = models.NaturalBalance(row.AccountMainType, row.Balance, decimalPlaces)

		n := len(response.Groups)
		if n == 0 || response.Groups[n-1].AccountMainType != row.AccountMainType {
			response.Groups = append(response.Groups, BalanceSheetGroup{AccountMainType: row.AccountMainType})
			n++
		}
		group := &response.Groups[n-1]
		group.Accounts = append(group.Accounts, row)
		group.Total = group.Total.Add(row.Balance)

		if row.AccountMainType == models.AccountMainTypeAsset {
			response.TotalAssets = response.TotalAssets.Add(row.Balance)
		} else {
			response.TotalLiabilitiesAndEquity = response.TotalLiabilitiesAndEquity.Add(row.Balance)
		}
	}
	return &response, nil
}
