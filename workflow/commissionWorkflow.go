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

type PayCommissionInput struct {
	CommissionId  int             `json:"commission_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CashAccountId int             `json:"cash_account_id" binding:"required"`
	Date          time.Time       `json:"date"`
}

// PayCommission settles part or all of one commission from a cash or bank
// account. The payment record and the two booking lines (debit the
// employee's liability account, credit the paying account) are written in
// one transaction; a failure anywhere leaves no partial payment behind.
//
// Rejected up front: paying more than the remaining liability, and paying
// from an account whose derived balance cannot cover the amount.
func PayCommission(ctx context.Context, logger *logrus.Logger, input *PayCommissionInput) (*models.CommissionPayment, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, errors.New("payment amount must be positive")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	commission, err := models.GetCommission(ctx, input.CommissionId)
	if err != nil {
		config.LogError(logger, "commissionWorkflow.go", "PayCommission", "GetCommission", input.CommissionId, err)
		return nil, errors.New("commission not found")
	}
	if commission.PaymentStatus == models.PaymentStatusPaid {
		return nil, errors.New("commission is already fully paid")
	}
	if input.Amount.GreaterThan(commission.CommissionRemaining) {
		return nil, fmt.Errorf("payment %s exceeds the remaining commission %s",
			input.Amount.String(), commission.CommissionRemaining.String())
	}

	cashAccount, err := models.GetChartAccount(ctx, input.CashAccountId)
	if err != nil {
		config.LogError(logger, "commissionWorkflow.go", "PayCommission", "GetChartAccount", input.CashAccountId, err)
		return nil, errors.New("paying account not found")
	}
	if !cashAccount.AccountType.IsCashOrBank() {
		return nil, errors.New("paying account must be a cash or bank account")
	}

	employee, err := models.GetEmployee(ctx, commission.EmployeeId)
	if err != nil {
		config.LogError(logger, "commissionWorkflow.go", "PayCommission", "GetEmployee", commission.EmployeeId, err)
		return nil, errors.New("employee not found")
	}

	db := config.GetDB()
	var payment models.CommissionPayment

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := acquireLedgerLock(tx, businessId); err != nil {
			config.LogError(logger, "commissionWorkflow.go", "PayCommission", "acquireLedgerLock", businessId, err)
			return err
		}
		defer releaseLedgerLock(tx, businessId)

		cashBalance, err := models.AccountBalance(tx, ctx, businessId, input.CashAccountId, nil)
		if err != nil {
			config.LogError(logger, "commissionWorkflow.go", "PayCommission", "AccountBalance", input.CashAccountId, err)
			return err
		}
		if cashBalance.LessThan(input.Amount) {
			return fmt.Errorf("insufficient balance in %s: have %s, need %s",
				cashAccount.Name, cashBalance.String(), input.Amount.String())
		}

		number, err := models.NextTransactionNumber(tx, businessId)
		if err != nil {
			config.LogError(logger, "commissionWorkflow.go", "PayCommission", "NextTransactionNumber", businessId, err)
			return err
		}

		booking := models.TransactionBooking{
			BusinessId:        businessId,
			TransactionNumber: fmt.Sprintf("%d", number),
			ReferenceNumber:   commission.Name,
			EmployeeId:        commission.EmployeeId,
			Source:            models.TransactionSourceCommissionPayment,
			PaymentStatus:     models.PaymentStatusPaid,
			TransactionDate:   input.Date,
			Amount:            input.Amount,
			Rate:              commission.Rate,
			CurrencyId:        commission.CurrencyId,
		}
		description := fmt.Sprintf("Commission payment %s - %s", commission.Name, employee.Name)
		lines := []*models.TransactionBookingLine{
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
		if err := models.CreateBookingWithLines(tx, &booking, lines); err != nil {
			config.LogError(logger, "commissionWorkflow.go", "PayCommission", "CreateBookingWithLines", booking, err)
			return err
		}

		payment = models.CommissionPayment{
			BusinessId:   businessId,
			CommissionId: commission.ID,
			EmployeeId:   commission.EmployeeId,
			Amount:       input.Amount,
			Date:         input.Date,
			Rate:         commission.Rate,
			IsAllocation: utils.NewFalse(),
			BookingId:    booking.ID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			config.LogError(logger, "commissionWorkflow.go", "PayCommission", "CreateCommissionPayment", payment, err)
			return err
		}

		return models.RecomputeCommissionStatus(tx, commission.ID)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

type ApplyBalanceInput struct {
	SalesPersonId int             `json:"sales_person_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date"`
}

// ApplyCommissionBalance draws the sales person's commission wallet down and
// settles the linked employee's open commissions with it, oldest first. No
// cash moves; each settlement is an allocation payment referencing the
// wallet.
func ApplyCommissionBalance(ctx context.Context, logger *logrus.Logger, input *ApplyBalanceInput) ([]*models.CommissionPayment, error) {

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

	salesPerson, err := models.GetSalesPerson(ctx, input.SalesPersonId)
	if err != nil {
		return nil, errors.New("sales person not found")
	}
	if salesPerson.EmployeeId == 0 {
		return nil, errors.New("sales person is not linked to an employee")
	}
	if input.Amount.GreaterThan(salesPerson.CommissionBalance) {
		return nil, fmt.Errorf("amount %s exceeds the commission balance %s",
			input.Amount.String(), salesPerson.CommissionBalance.String())
	}

	db := config.GetDB()
	var payments []*models.CommissionPayment

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		commissions, err := models.GetOpenCommissions(tx, ctx, businessId, salesPerson.EmployeeId)
		if err != nil {
			config.LogError(logger, "commissionWorkflow.go", "ApplyCommissionBalance", "GetOpenCommissions", salesPerson.EmployeeId, err)
			return err
		}

		allocations, err := AllocatePayment(input.Amount, commissions)
		if err != nil {
			return err
		}

		if err := models.AddCommissionBalance(tx, salesPerson.ID, input.Amount.Neg()); err != nil {
			config.LogError(logger, "commissionWorkflow.go", "ApplyCommissionBalance", "AddCommissionBalance", salesPerson.ID, err)
			return err
		}

		ref := fmt.Sprintf("WALLET/%d/%s", salesPerson.ID, input.Date.Format("2006-01-02"))
		for _, alloc := range allocations {
			payment := models.CommissionPayment{
				BusinessId:    businessId,
				CommissionId:  alloc.CommissionId,
				EmployeeId:    salesPerson.EmployeeId,
				Amount:        alloc.Amount,
				Date:          input.Date,
				IsAllocation:  utils.NewTrue(),
				AllocationRef: ref,
			}
			if err := tx.Create(&payment).Error; err != nil {
				config.LogError(logger, "commissionWorkflow.go", "ApplyCommissionBalance", "CreateCommissionPayment", payment, err)
				return err
			}
			if err := models.RecomputeCommissionStatus(tx, alloc.CommissionId); err != nil {
				return err
			}
			payments = append(payments, &payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}
