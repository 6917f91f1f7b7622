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

// CommissionBulkPayment spreads one cash amount across an employee's open
// commissions, oldest first. Confirmed records are immutable; undoing one
// means deleting it, which reverses every payment it created.
type CommissionBulkPayment struct {
	ID            int              `gorm:"primary_key" json:"id"`
	BusinessId    string           `gorm:"index;not null" json:"business_id"`
	Name          string           `gorm:"index;size:50" json:"name"`
	EmployeeId    int              `gorm:"index;not null" json:"employee_id" binding:"required"`
	AmountToPay   decimal.Decimal  `gorm:"type:decimal(20,5);default:0" json:"amount_to_pay"`
	CashAccountId int              `gorm:"index;not null" json:"cash_account_id" binding:"required"`
	Date          time.Time        `gorm:"index;not null" json:"date"`
	State         BulkPaymentState `gorm:"type:enum('draft','confirmed');default:'draft';size:10;index" json:"state"`
	CurrencyId    int              `gorm:"index" json:"currency_id"`
	Rate          decimal.Decimal  `gorm:"type:decimal(20,6);default:0" json:"rate"`

	Lines []CommissionBulkPaymentLine `gorm:"foreignKey:BulkPaymentId" json:"lines"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type CommissionBulkPaymentLine struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	BusinessId          string          `gorm:"index;not null" json:"business_id"`
	BulkPaymentId       int             `gorm:"index;not null" json:"bulk_payment_id"`
	CommissionId        int             `gorm:"index;not null" json:"commission_id"`
	CommissionDate      time.Time       `json:"commission_date"`
	CommissionAmount    decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"commission_amount"`
	CommissionPaid      decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"commission_paid"`
	CommissionRemaining decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"commission_remaining"`
	PaidAmount          decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"paid_amount"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Confirmed bulk payments cannot be edited; delete and recreate instead.
func (b *CommissionBulkPayment) BeforeUpdate(tx *gorm.DB) error {
	if b.State != BulkPaymentStateConfirmed {
		return nil
	}
	if tx == nil || tx.Statement == nil || tx.Statement.Schema == nil {
		return nil
	}
	// the confirming update itself only touches State/UpdatedAt
	allowed := map[string]bool{"State": true, "UpdatedAt": true}
	for _, f := range tx.Statement.Schema.Fields {
		if tx.Statement.Changed(f.Name) && !allowed[f.Name] {
			return errors.New("this record is confirmed and cannot be modified; delete and create a new bulk payment")
		}
	}
	return nil
}

func GetBulkPayment(ctx context.Context, id int) (*CommissionBulkPayment, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[CommissionBulkPayment](ctx, businessId, id, "Lines")
}

func GetBulkPayments(ctx context.Context, employeeId *int) ([]*CommissionBulkPayment, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Lines").Where("business_id = ?", businessId)
	if employeeId != nil && *employeeId > 0 {
		dbCtx = dbCtx.Where("employee_id = ?", *employeeId)
	}
	var results []*CommissionBulkPayment
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
