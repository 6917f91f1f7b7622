package models

import (
	"context"
	"errors"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChartAccount struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id"`
	Code            string          `gorm:"index;size:100" json:"code"`
	Name            string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	MainType        AccountMainType `gorm:"type:enum('Asset','Liability','Equity','Income','Expense');default:'Expense';index;size:10;not null" json:"main_type" binding:"required"`
	AccountType     AccountType     `gorm:"type:enum('cash','bank_transfer','receivable','payable','inventory','commission','owners_equity','income','expense','COGS');default:'expense';index;size:20;not null" json:"account_type" binding:"required"`
	CurrencyId      int             `gorm:"index;not null" json:"currency_id"`
	Description     string          `gorm:"type:text" json:"description"`
	IsActive        *bool           `gorm:"not null;default:true" json:"is_active"`
	IsSystemDefault *bool           `gorm:"not null;default:false" json:"is_system_default"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewChartAccount struct {
	Code        string          `json:"code"`
	Name        string          `json:"name" binding:"required"`
	MainType    AccountMainType `json:"main_type" binding:"required"`
	AccountType AccountType     `json:"account_type" binding:"required"`
	CurrencyId  int             `json:"currency_id"`
	Description string          `json:"description"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewChartAccount) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[ChartAccount](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[ChartAccount](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if input.Code != "" {
		if err := utils.ValidateUnique[ChartAccount](ctx, businessId, "code", input.Code, id); err != nil {
			return err
		}
	}
	if input.CurrencyId > 0 {
		if err := utils.ValidateResourceId[Currency](ctx, businessId, input.CurrencyId); err != nil {
			return errors.New("currency not found")
		}
	}
	return nil
}

func CreateChartAccount(ctx context.Context, input *NewChartAccount) (*ChartAccount, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	account := ChartAccount{
		BusinessId:      businessId,
		Code:            input.Code,
		Name:            input.Name,
		MainType:        input.MainType,
		AccountType:     input.AccountType,
		CurrencyId:      input.CurrencyId,
		Description:     input.Description,
		IsActive:        utils.NewTrue(),
		IsSystemDefault: utils.NewFalse(),
	}

	if account.CurrencyId == 0 {
		base, err := GetBaseCurrency(ctx, businessId)
		if err != nil {
			return nil, err
		}
		account.CurrencyId = base.ID
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Create(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func UpdateChartAccount(ctx context.Context, id int, input *NewChartAccount) (*ChartAccount, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	account, err := utils.FetchModel[ChartAccount](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if input.CurrencyId > 0 && input.CurrencyId != account.CurrencyId {
		var count int64
		if err := db.WithContext(ctx).Model(&TransactionBookingLine{}).Where("account_id = ?", account.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("not allowed to change account currency when booking lines exist")
		}
	}

	updates := map[string]interface{}{
		"Name":        input.Name,
		"Code":        input.Code,
		"Description": input.Description,
	}
	if !*account.IsSystemDefault {
		updates["MainType"] = input.MainType
		updates["AccountType"] = input.AccountType
		if input.CurrencyId > 0 {
			updates["CurrencyId"] = input.CurrencyId
		}
	}

	err = db.WithContext(ctx).Model(&account).Updates(updates).Error
	if err != nil {
		return nil, err
	}

	return account, nil
}

func DeleteChartAccount(ctx context.Context, id int) (*ChartAccount, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()

	result, err := utils.FetchModel[ChartAccount](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	if result.IsSystemDefault != nil && *result.IsSystemDefault {
		return nil, errors.New("cannot delete system-default account")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&TransactionBookingLine{}).
		Where("account_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this account has booking lines")
	}

	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func GetChartAccount(ctx context.Context, id int) (*ChartAccount, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[ChartAccount](ctx, businessId, id)
}

func GetChartAccounts(ctx context.Context, name *string, accountType *AccountType) ([]*ChartAccount, error) {

	db := config.GetDB()
	var results []*ChartAccount

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if accountType != nil && len(*accountType) > 0 {
		dbCtx = dbCtx.Where("account_type = ?", *accountType)
	}
	err := dbCtx.Order("code, name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AccountBalance derives the running balance from the booking lines,
// never from a stored total, so it is always consistent with the line set:
// SUM(dr_amount) - SUM(cr_amount) for all lines up to asOf (inclusive).
// A nil asOf means "all lines".
func AccountBalance(tx *gorm.DB, ctx context.Context, businessId string, accountId int, asOf *time.Time) (decimal.Decimal, error) {

	sql := `
		SELECT COALESCE(SUM(dr_amount), 0) - COALESCE(SUM(cr_amount), 0)
		FROM transaction_booking_lines
		WHERE business_id = ? AND account_id = ?
	`
	args := []interface{}{businessId, accountId}
	if asOf != nil {
		sql += " AND transaction_date <= ?"
		args = append(args, *asOf)
	}

	var balance decimal.Decimal
	if err := tx.WithContext(ctx).Raw(sql, args...).Scan(&balance).Error; err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// NaturalBalance flips the sign for credit-natured accounts so reports show
// positive amounts for healthy balances. Rounding happens here, at the final
// output step only.
func NaturalBalance(mainType AccountMainType, balance decimal.Decimal, decimalPlaces int32) decimal.Decimal {
	if mainType.IsCreditNatured() {
		balance = balance.Neg()
	}
	return utils.MoneyRound(balance, decimalPlaces)
}

// Codes of the system-default accounts seeded for every business.
const (
	SystemAccountCash      = "1000"
	SystemAccountBank      = "1100"
	SystemAccountInventory = "1200"
	SystemAccountPayable   = "2000"
	SystemAccountOwnersEq  = "3000"
)

// GetSystemAccounts returns the business's default account ids keyed by code,
// cached in redis.
func GetSystemAccounts(businessId string) (map[string]int, error) {
	var sysAccounts map[string]int

	exists, err := config.GetRedisObject("SystemAccounts:"+businessId, &sysAccounts)
	if err != nil {
		return nil, err
	}
	if !exists {
		db := config.GetDB()
		var accounts []*ChartAccount
		if err := db.Select("id", "code").Where("business_id = ?", businessId).
			Where("is_system_default = ?", true).Find(&accounts).Error; err != nil {
			return nil, err
		}
		sysAccounts = make(map[string]int)
		for _, acc := range accounts {
			sysAccounts[acc.Code] = acc.ID
		}
		if err := config.SetRedisObject("SystemAccounts:"+businessId, &sysAccounts, 0); err != nil {
			return nil, err
		}
	}
	return sysAccounts, nil
}
