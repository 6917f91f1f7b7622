package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
)

type Currency struct {
	ID            int       `gorm:"primary_key" json:"id"`
	BusinessId    string    `gorm:"index;not null" json:"business_id"`
	Name          string    `gorm:"size:10;not null" json:"name" binding:"required"`
	Symbol        string    `gorm:"size:10" json:"symbol"`
	DecimalPlaces int32     `gorm:"not null;default:2" json:"decimal_places"`
	IsBase        *bool     `gorm:"not null;default:false" json:"is_base"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CurrencyExchange holds one effective rate row. Rows with an empty
// business_id are global defaults; business-scoped rows win over them.
type CurrencyExchange struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index" json:"business_id"`
	CurrencyId int             `gorm:"index;not null" json:"currency_id" binding:"required"`
	RateDate   time.Time       `gorm:"index;not null" json:"rate_date" binding:"required"`
	Rate       decimal.Decimal `gorm:"type:decimal(20,6);default:0" json:"rate"`
	Notes      string          `gorm:"size:255" json:"notes"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCurrencyExchange struct {
	CurrencyId int             `json:"currency_id" binding:"required"`
	RateDate   time.Time       `json:"rate_date" binding:"required"`
	Rate       decimal.Decimal `json:"rate" binding:"required"`
	Notes      string          `json:"notes"`
}

func GetBaseCurrency(ctx context.Context, businessId string) (*Currency, error) {
	db := config.GetDB()
	var result Currency
	err := db.WithContext(ctx).
		Where("business_id = ? AND is_base = ?", businessId, true).
		First(&result).Error
	if err != nil {
		return nil, errors.New("base currency is not configured")
	}
	return &result, nil
}

func GetCurrency(ctx context.Context, id int) (*Currency, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Currency](ctx, businessId, id)
}

func CreateCurrencyExchange(ctx context.Context, input *NewCurrencyExchange) (*CurrencyExchange, error) {

	db := config.GetDB()
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Currency](ctx, businessId, input.CurrencyId); err != nil {
		return nil, errors.New("currency not found")
	}
	if !input.Rate.IsPositive() {
		return nil, errors.New("exchange rate must be positive")
	}

	exchange := CurrencyExchange{
		BusinessId: businessId,
		CurrencyId: input.CurrencyId,
		RateDate:   input.RateDate,
		Rate:       input.Rate,
		Notes:      input.Notes,
	}

	if err := db.WithContext(ctx).Create(&exchange).Error; err != nil {
		return nil, err
	}
	// the effective-rate cache is date-keyed, drop the whole namespace lazily
	_ = config.DeleteRedisKey(fxRateCacheKey(businessId, input.CurrencyId, input.RateDate))
	return &exchange, nil
}

func fxRateCacheKey(businessId string, currencyId int, date time.Time) string {
	return fmt.Sprintf("fxRate:%s:%d:%s", businessId, currencyId, date.Format("2006-01-02"))
}

// GetEffectiveRate resolves the exchange rate for a document date. The base
// currency is always 1; otherwise the newest rate row dated on/before the
// document date wins, business-scoped rows before global ones. A missing
// rate is a hard validation error, never a silent 0.
func GetEffectiveRate(ctx context.Context, businessId string, currencyId int, date time.Time) (decimal.Decimal, error) {

	db := config.GetDB()

	var currency Currency
	if err := db.WithContext(ctx).Where("business_id = ? AND id = ?", businessId, currencyId).
		First(&currency).Error; err != nil {
		return decimal.Zero, errors.New("currency not found")
	}
	if currency.IsBase != nil && *currency.IsBase {
		return decimal.NewFromInt(1), nil
	}

	cacheKey := fxRateCacheKey(businessId, currencyId, date)
	var cached decimal.Decimal
	if ok, err := config.GetRedisObject(cacheKey, &cached); err == nil && ok && cached.IsPositive() {
		return cached, nil
	}

	var row CurrencyExchange
	err := db.WithContext(ctx).
		Where("currency_id = ? AND rate_date <= ?", currencyId, date).
		Where("business_id = ? OR business_id = ''", businessId).
		Order("business_id DESC, rate_date DESC").
		First(&row).Error
	if err != nil || row.Rate.IsZero() {
		return decimal.Zero, fmt.Errorf("missing exchange rate for %s on/before %s", currency.Name, date.Format("2006-01-02"))
	}

	_ = config.SetRedisObject(cacheKey, row.Rate, 12*time.Hour)
	return row.Rate, nil
}
