package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// statusEpsilon absorbs currency-precision noise when deriving the payment
// status from paid vs total.
var statusEpsilon = decimal.New(1, -5) // 0.00001

// Commission is one liability owed to an employee for a manufacturing order.
// Paid/remaining/status are derived from the payment children and recomputed
// after every mutating operation, never maintained incrementally.
type Commission struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	BusinessId           string          `gorm:"index;not null" json:"business_id"`
	Name                 string          `gorm:"index;size:50" json:"name"`
	EmployeeId           int             `gorm:"index;not null" json:"employee_id" binding:"required"`
	ManufacturingOrderId int             `gorm:"index" json:"manufacturing_order_id"`
	CurrencyId           int             `gorm:"index" json:"currency_id"`
	Rate                 decimal.Decimal `gorm:"type:decimal(20,6);default:0" json:"rate"`
	CommissionAmount     decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"commission_amount"`
	CommissionPaid       decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"commission_paid"`
	CommissionRemaining  decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"commission_remaining"`
	PaymentStatus        PaymentStatus   `gorm:"type:enum('pending','partial_paid','paid');default:'pending';size:20;index" json:"payment_status"`
	Date                 time.Time       `gorm:"index;not null" json:"date"`
	DueDate              time.Time       `gorm:"index" json:"due_date"`

	Payments []CommissionPayment `gorm:"foreignKey:CommissionId" json:"payments"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type CommissionPayment struct {
	ID                int             `gorm:"primary_key" json:"id"`
	BusinessId        string          `gorm:"index;not null" json:"business_id"`
	CommissionId      int             `gorm:"index;not null" json:"commission_id"`
	EmployeeId        int             `gorm:"index;not null" json:"employee_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"amount"`
	Date              time.Time       `gorm:"not null" json:"date"`
	Rate              decimal.Decimal `gorm:"type:decimal(20,6);default:0" json:"rate"`
	IsAllocation      *bool           `gorm:"not null;default:false" json:"is_allocation"`
	AllocationRef     string          `gorm:"size:100" json:"allocation_ref"`
	BookingId         int             `gorm:"index" json:"booking_id"`
	BulkPaymentLineId int             `gorm:"index;default:0" json:"bulk_payment_line_id"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCommission struct {
	EmployeeId           int             `json:"employee_id" binding:"required"`
	ManufacturingOrderId int             `json:"manufacturing_order_id"`
	CurrencyId           int             `json:"currency_id"`
	CommissionAmount     decimal.Decimal `json:"commission_amount" binding:"required"`
	Date                 time.Time       `json:"date" binding:"required"`
}

// NextCommissionDueDate computes when a commission becomes payable.
// Daily schedule: same day. Monthly schedule: the configured payment day
// (clamped into 1..31) in the transaction month when the transaction day is
// strictly before it, otherwise in the following month; a day the month does
// not have clamps to that month's last day (day 31 in February pays on the
// 28th/29th).
func NextCommissionDueDate(txDate time.Time, schedule PaymentSchedule, paymentDay int) time.Time {
	if schedule == PaymentScheduleDaily {
		return txDate
	}

	if paymentDay < 1 {
		paymentDay = 1
	}
	if paymentDay > 31 {
		paymentDay = 31
	}

	year, month, day := txDate.Date()
	if day >= paymentDay {
		// roll into the following month
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	dueDay := paymentDay
	if last := utils.LastDayOfMonth(year, month); dueDay > last {
		dueDay = last
	}
	return time.Date(year, month, dueDay, 0, 0, 0, 0, txDate.Location())
}

// IsCommissionPayable reports whether the commission is due: not fully paid
// and due on or before today.
func IsCommissionPayable(status PaymentStatus, dueDate time.Time, today time.Time) bool {
	if status == PaymentStatusPaid {
		return false
	}
	return !dueDate.After(today)
}

// DerivePaymentStatus compares paid against total within tolerance.
func DerivePaymentStatus(paid decimal.Decimal, total decimal.Decimal) PaymentStatus {
	if paid.GreaterThanOrEqual(total.Sub(statusEpsilon)) && total.IsPositive() {
		return PaymentStatusPaid
	}
	if paid.GreaterThan(statusEpsilon) {
		return PaymentStatusPartialPaid
	}
	return PaymentStatusPending
}

func CreateCommission(ctx context.Context, input *NewCommission) (*Commission, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if !input.CommissionAmount.IsPositive() {
		return nil, errors.New("commission amount must be positive")
	}

	employee, err := utils.FetchModel[Employee](ctx, businessId, input.EmployeeId)
	if err != nil {
		return nil, errors.New("employee not found")
	}

	db := config.GetDB()

	commission := Commission{
		BusinessId:           businessId,
		EmployeeId:           input.EmployeeId,
		ManufacturingOrderId: input.ManufacturingOrderId,
		CurrencyId:           input.CurrencyId,
		CommissionAmount:     input.CommissionAmount,
		CommissionRemaining:  input.CommissionAmount,
		PaymentStatus:        PaymentStatusPending,
		Date:                 input.Date,
		DueDate:              NextCommissionDueDate(input.Date, employee.CommissionPaymentSchedule, employee.CommissionPaymentDay),
	}
	if commission.CurrencyId > 0 {
		rate, err := GetEffectiveRate(ctx, businessId, commission.CurrencyId, commission.Date)
		if err != nil {
			return nil, err
		}
		commission.Rate = rate
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&commission).Error; err != nil {
			return err
		}
		return tx.Model(&commission).Update("Name", fmt.Sprintf("COM/%06d", commission.ID)).Error
	})
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

// RecomputeCommissionStatus re-derives paid/remaining/status from the payment
// children inside the caller's transaction. Idempotent: running it twice in a
// row yields identical values.
func RecomputeCommissionStatus(tx *gorm.DB, commissionId int) error {

	var commission Commission
	if err := tx.First(&commission, commissionId).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	var paid decimal.Decimal
	err := tx.Model(&CommissionPayment{}).
		Where("commission_id = ?", commissionId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error
	if err != nil {
		return err
	}

	return tx.Model(&commission).Updates(map[string]interface{}{
		"CommissionPaid":      paid,
		"CommissionRemaining": commission.CommissionAmount.Sub(paid),
		"PaymentStatus":       DerivePaymentStatus(paid, commission.CommissionAmount),
	}).Error
}

func GetCommission(ctx context.Context, id int) (*Commission, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Commission](ctx, businessId, id, "Payments")
}

// GetOpenCommissions lists unpaid commissions of an employee, oldest first
// by creation id. Bulk payments allocate in this order.
func GetOpenCommissions(tx *gorm.DB, ctx context.Context, businessId string, employeeId int) ([]*Commission, error) {
	var results []*Commission
	err := tx.WithContext(ctx).
		Where("business_id = ? AND employee_id = ? AND payment_status <> ?", businessId, employeeId, PaymentStatusPaid).
		Order("id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetPayableCommissions lists commissions due on or before today.
func GetPayableCommissions(ctx context.Context, employeeId *int) ([]*Commission, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Where("business_id = ? AND payment_status IN ? AND due_date <= ?",
			businessId, []PaymentStatus{PaymentStatusPending, PaymentStatusPartialPaid}, time.Now())
	if employeeId != nil && *employeeId > 0 {
		dbCtx = dbCtx.Where("employee_id = ?", *employeeId)
	}
	var results []*Commission
	if err := dbCtx.Order("due_date, id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteCommission is blocked while payments or a manufacturing order link
// exist.
func DeleteCommission(ctx context.Context, id int) (*Commission, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	commission, err := utils.FetchModel[Commission](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if commission.ManufacturingOrderId > 0 {
		return nil, errors.New("cannot delete a commission linked to a manufacturing order")
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&CommissionPayment{}).
		Where("commission_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete a commission with payments")
	}

	if err := db.WithContext(ctx).Delete(&commission).Error; err != nil {
		return nil, err
	}
	return commission, nil
}
