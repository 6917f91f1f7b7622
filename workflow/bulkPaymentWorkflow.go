package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Allocation is one slice of a bulk amount assigned to a commission.
type Allocation struct {
	CommissionId        int             `json:"commission_id"`
	CommissionDate      time.Time       `json:"commission_date"`
	CommissionAmount    decimal.Decimal `json:"commission_amount"`
	CommissionPaid      decimal.Decimal `json:"commission_paid"`
	CommissionRemaining decimal.Decimal `json:"commission_remaining"`
	Amount              decimal.Decimal `json:"amount"`
}

// AllocatePayment spreads amount across the commissions greedily in the
// given order (callers pass them oldest first): each commission takes
// min(what is left of the payment, its own remaining). Commissions with
// nothing remaining are skipped. The whole amount must fit; an amount larger
// than the total outstanding is rejected rather than partially applied.
func AllocatePayment(amount decimal.Decimal, commissions []*models.Commission) ([]Allocation, error) {

	if !amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}

	totalRemaining := decimal.Zero
	for _, c := range commissions {
		totalRemaining = totalRemaining.Add(c.CommissionRemaining)
	}
	if amount.GreaterThan(totalRemaining) {
		return nil, fmt.Errorf("amount %s exceeds the total outstanding %s",
			amount.String(), totalRemaining.String())
	}

	var allocations []Allocation
	left := amount
	for _, c := range commissions {
		if !left.IsPositive() {
			break
		}
		if !c.CommissionRemaining.IsPositive() {
			continue
		}
		payable := decimal.Min(left, c.CommissionRemaining)
		allocations = append(allocations, Allocation{
			CommissionId:        c.ID,
			CommissionDate:      c.Date,
			CommissionAmount:    c.CommissionAmount,
			CommissionPaid:      c.CommissionPaid,
			CommissionRemaining: c.CommissionRemaining,
			Amount:              payable,
		})
		left = left.Sub(payable)
	}
	return allocations, nil
}

type BulkPaymentInput struct {
	EmployeeId    int             `json:"employee_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CashAccountId int             `json:"cash_account_id" binding:"required"`
	Date          time.Time       `json:"date"`
	CurrencyId    int             `json:"currency_id"`
}

// PreviewBulkPayment computes the allocation without persisting anything, so
// the caller can show how the amount would spread before confirming.
func PreviewBulkPayment(ctx context.Context, employeeId int, amount decimal.Decimal) ([]Allocation, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	commissions, err := models.GetOpenCommissions(db, ctx, businessId, employeeId)
	if err != nil {
		return nil, err
	}
	return AllocatePayment(amount, commissions)
}

// ConfirmBulkPayment allocates the amount over the employee's open
// commissions and posts everything atomically: the bulk payment record with
// one line per touched commission (carrying a snapshot of the commission
// figures at confirmation time), a commission payment per line, and one
// balanced booking moving the cash.
func ConfirmBulkPayment(ctx context.Context, logger *logrus.Logger, input *BulkPaymentInput) (*models.CommissionBulkPayment, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	employee, err := models.GetEmployee(ctx, input.EmployeeId)
	if err != nil {
		return nil, errors.New("employee not found")
	}
	cashAccount, err := models.GetChartAccount(ctx, input.CashAccountId)
	if err != nil {
		return nil, errors.New("paying account not found")
	}
	if !cashAccount.AccountType.IsCashOrBank() {
		return nil, errors.New("paying account must be a cash or bank account")
	}

	var rate decimal.Decimal
	if input.CurrencyId > 0 {
		rate, err = models.GetEffectiveRate(ctx, businessId, input.CurrencyId, input.Date)
		if err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	var bulkPayment models.CommissionBulkPayment

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := acquireLedgerLock(tx, businessId); err != nil {
			config.LogError(logger, "bulkPaymentWorkflow.go", "ConfirmBulkPayment", "acquireLedgerLock", businessId, err)
			return err
		}
		defer releaseLedgerLock(tx, businessId)

		cashBalance, err := models.AccountBalance(tx, ctx, businessId, input.CashAccountId, nil)
		if err != nil {
			config.LogError(logger, "bulkPaymentWorkflow.go", "ConfirmBulkPayment", "AccountBalance", input.CashAccountId, err)
			return err
		}
		if cashBalance.LessThan(input.Amount) {
			return fmt.Errorf("insufficient balance in %s: have %s, need %s",
				cashAccount.Name, cashBalance.String(), input.Amount.String())
		}

		commissions, err := models.GetOpenCommissions(tx, ctx, businessId, input.EmployeeId)
		if err != nil {
			config.LogError(logger, "bulkPaymentWorkflow.go", "ConfirmBulkPayment", "GetOpenCommissions", input.EmployeeId, err)
			return err
		}
		allocations, err := AllocatePayment(input.Amount, commissions)
		if err != nil {
			return err
		}

		bulkPayment = models.CommissionBulkPayment{
			BusinessId:    businessId,
			EmployeeId:    input.EmployeeId,
			AmountToPay:   input.Amount,
			CashAccountId: input.CashAccountId,
			Date:          input.Date,
			State:         models.BulkPaymentStateDraft,
			CurrencyId:    input.CurrencyId,
			Rate:          rate,
		}
		if err := tx.Create(&bulkPayment).Error; err != nil {
			config.LogError(logger, "bulkPaymentWorkflow.go", "ConfirmBulkPayment", "CreateBulkPayment", bulkPayment, err)
			return err
		}

		number, err := models.NextTransactionNumber(tx, businessId)
		if err != nil {
			return err
		}
		booking := models.TransactionBooking{
			BusinessId:        businessId,
			TransactionNumber: fmt.Sprintf("%d", number),
			ReferenceNumber:   fmt.Sprintf("BLK/%06d", bulkPayment.ID),
			EmployeeId:        input.EmployeeId,
			Source:            models.TransactionSourceBulkPayment,
			PaymentStatus:     models.PaymentStatusPaid,
			TransactionDate:   input.Date,
			Amount:            input.Amount,
			Rate:              rate,
			CurrencyId:        input.CurrencyId,
		}
		description := fmt.Sprintf("Bulk commission payment BLK/%06d - %s", bulkPayment.ID, employee.Name)
		bookingLines := []*models.TransactionBookingLine{
			{
				AccountId:       employee.AccountId,
				Description:     description,
				TransactionType: models.TransactionTypeDebit,
				DrAmount:        input.Amount,
				TransactionDate: input.Date,
			},
			{
				AccountId:       input.CashAccountId,
				Description:     description,
				TransactionType: models.TransactionTypeCredit,
				CrAmount:        input.Amount,
				TransactionDate: input.Date,
			},
		}
		if err := models.CreateBookingWithLines(tx, &booking, bookingLines); err != nil {
			config.LogError(logger, "bulkPaymentWorkflow.go", "ConfirmBulkPayment", "CreateBookingWithLines", booking, err)
			return err
		}

		for _, alloc := range allocations {
			line := models.CommissionBulkPaymentLine{
				BusinessId:          businessId,
				BulkPaymentId:       bulkPayment.ID,
				CommissionId:        alloc.CommissionId,
				CommissionDate:      alloc.CommissionDate,
				CommissionAmount:    alloc.CommissionAmount,
				CommissionPaid:      alloc.CommissionPaid,
				CommissionRemaining: alloc.CommissionRemaining,
				PaidAmount:          alloc.Amount,
			}
			if err := tx.Create(&line).Error; err != nil {
				config.LogError(logger, "bulkPaymentWorkflow.go", "ConfirmBulkPayment", "CreateBulkPaymentLine", line, err)
				return err
			}
			payment := models.CommissionPayment{
				BusinessId:        businessId,
				CommissionId:      alloc.CommissionId,
				EmployeeId:        input.EmployeeId,
				Amount:            alloc.Amount,
				Date:              input.Date,
				Rate:              rate,
				IsAllocation:      utils.NewFalse(),
				BookingId:         booking.ID,
				BulkPaymentLineId: line.ID,
			}
			if err := tx.Create(&payment).Error; err != nil {
				config.LogError(logger, "bulkPaymentWorkflow.go", "ConfirmBulkPayment", "CreateCommissionPayment", payment, err)
				return err
			}
			if err := models.RecomputeCommissionStatus(tx, alloc.CommissionId); err != nil {
				return err
			}
		}

		return tx.Model(&bulkPayment).Updates(map[string]interface{}{
			"Name":  fmt.Sprintf("BLK/%06d", bulkPayment.ID),
			"State": models.BulkPaymentStateConfirmed,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return models.GetBulkPayment(ctx, bulkPayment.ID)
}

// DeleteBulkPayment undoes a confirmed bulk payment: removes the commission
// payments it created, re-derives every touched commission, and deletes the
// booking and the record itself. Reconciled booking lines block the
// deletion; unmatch them first.
func DeleteBulkPayment(ctx context.Context, logger *logrus.Logger, id int) error {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	bulkPayment, err := models.GetBulkPayment(ctx, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := acquireLedgerLock(tx, businessId); err != nil {
			return err
		}
		defer releaseLedgerLock(tx, businessId)

		var bookingId int
		for _, line := range bulkPayment.Lines {
			var payment models.CommissionPayment
			err := tx.Where("bulk_payment_line_id = ?", line.ID).First(&payment).Error
			if err == nil {
				bookingId = payment.BookingId
				if err := tx.Delete(&payment).Error; err != nil {
					config.LogError(logger, "bulkPaymentWorkflow.go", "DeleteBulkPayment", "DeleteCommissionPayment", payment.ID, err)
					return err
				}
			}
			if err := models.RecomputeCommissionStatus(tx, line.CommissionId); err != nil {
				return err
			}
			if err := tx.Delete(&models.CommissionBulkPaymentLine{}, line.ID).Error; err != nil {
				return err
			}
		}

		if bookingId > 0 {
			var bookingLines []*models.TransactionBookingLine
			if err := tx.Where("booking_id = ?", bookingId).Find(&bookingLines).Error; err != nil {
				return err
			}
			for _, bl := range bookingLines {
				if err := tx.Delete(bl).Error; err != nil {
					config.LogError(logger, "bulkPaymentWorkflow.go", "DeleteBulkPayment", "DeleteBookingLine", bl.ID, err)
					return err
				}
			}
			if err := tx.Delete(&models.TransactionBooking{}, bookingId).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.CommissionBulkPayment{}, bulkPayment.ID).Error
	})
}
