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

type VendorPaymentInput struct {
	VendorId      int             `json:"vendor_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CashAccountId int             `json:"cash_account_id" binding:"required"`
	Date          time.Time       `json:"date"`
	Reference     string          `json:"reference"`
}

// ReceivePurchase receives a draft purchase order: every line revalues its
// item's moving-average cost and bumps stock, the total is posted as debit
// inventory / credit accounts payable, and the vendor subledger gets a
// credit entry. All of it, plus flipping the order to received, happens in
// one transaction.
func ReceivePurchase(ctx context.Context, logger *logrus.Logger, purchaseId int) (*models.PurchaseOrder, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	purchase, err := models.GetPurchaseOrder(ctx, purchaseId)
	if err != nil {
		return nil, errors.New("purchase order not found")
	}
	if purchase.Status == models.PurchaseStatusReceived {
		return nil, errors.New("purchase order is already received")
	}
	if len(purchase.Lines) == 0 {
		return nil, errors.New("purchase order has no lines")
	}

	vendor, err := models.GetVendor(ctx, purchase.VendorId)
	if err != nil {
		return nil, errors.New("vendor not found")
	}

	systemAccounts, err := models.GetSystemAccounts(businessId)
	if err != nil {
		config.LogError(logger, "stockWorkflow.go", "ReceivePurchase", "GetSystemAccounts", businessId, err)
		return nil, err
	}
	inventoryAccountId := systemAccounts[models.SystemAccountInventory]
	payableAccountId := systemAccounts[models.SystemAccountPayable]
	if inventoryAccountId == 0 || payableAccountId == 0 {
		return nil, errors.New("inventory or payable system account is not configured")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := acquireLedgerLock(tx, businessId); err != nil {
			config.LogError(logger, "stockWorkflow.go", "ReceivePurchase", "acquireLedgerLock", businessId, err)
			return err
		}
		defer releaseLedgerLock(tx, businessId)

		for _, line := range purchase.Lines {
			_, err := models.ReceiveItemStock(tx, line.ItemId, purchase.ID, line.Qty, line.UnitCost, purchase.Date)
			if err != nil {
				config.LogError(logger, "stockWorkflow.go", "ReceivePurchase", "ReceiveItemStock", line.ItemId, err)
				return err
			}
		}

		number, err := models.NextTransactionNumber(tx, businessId)
		if err != nil {
			return err
		}
		booking := models.TransactionBooking{
			BusinessId:        businessId,
			TransactionNumber: fmt.Sprintf("%d", number),
			ReferenceNumber:   purchase.Name,
			VendorId:          purchase.VendorId,
			Source:            models.TransactionSourcePurchase,
			PaymentStatus:     models.PaymentStatusPending,
			TransactionDate:   purchase.Date,
			Amount:            purchase.Total,
			Rate:              purchase.Rate,
			CurrencyId:        purchase.CurrencyId,
		}
		description := fmt.Sprintf("Purchase %s - %s", purchase.Name, vendor.Name)
		bookingLines := []*models.TransactionBookingLine{
			{
				AccountId:       inventoryAccountId,
				Description:     description,
				TransactionType: models.TransactionTypeDebit,
				DrAmount:        purchase.Total,
				TransactionDate: purchase.Date,
			},
			{
				AccountId:       payableAccountId,
				Description:     description,
				TransactionType: models.TransactionTypeCredit,
				CrAmount:        purchase.Total,
				TransactionDate: purchase.Date,
			},
		}
		if err := models.CreateBookingWithLines(tx, &booking, bookingLines); err != nil {
			config.LogError(logger, "stockWorkflow.go", "ReceivePurchase", "CreateBookingWithLines", booking, err)
			return err
		}

		vendorEntry := models.VendorTransaction{
			BusinessId:      businessId,
			VendorId:        purchase.VendorId,
			BookingId:       booking.ID,
			Description:     description,
			CreditAmount:    purchase.Total,
			TransactionDate: purchase.Date,
		}
		if err := models.CreateVendorTransaction(tx, &vendorEntry); err != nil {
			config.LogError(logger, "stockWorkflow.go", "ReceivePurchase", "CreateVendorTransaction", vendorEntry, err)
			return err
		}

		return tx.Model(&models.PurchaseOrder{}).Where("id = ?", purchase.ID).
			Updates(map[string]interface{}{
				"Status":    models.PurchaseStatusReceived,
				"BookingId": booking.ID,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return models.GetPurchaseOrder(ctx, purchaseId)
}

// PayVendor settles part of the payable to a vendor from a cash or bank
// account: debit accounts payable, credit cash, debit entry in the vendor
// subledger.
func PayVendor(ctx context.Context, logger *logrus.Logger, input *VendorPaymentInput) (*models.TransactionBooking, error) {

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

	vendor, err := models.GetVendor(ctx, input.VendorId)
	if err != nil {
		return nil, errors.New("vendor not found")
	}
	cashAccount, err := models.GetChartAccount(ctx, input.CashAccountId)
	if err != nil {
		return nil, errors.New("paying account not found")
	}
	if !cashAccount.AccountType.IsCashOrBank() {
		return nil, errors.New("paying account must be a cash or bank account")
	}

	systemAccounts, err := models.GetSystemAccounts(businessId)
	if err != nil {
		return nil, err
	}
	payableAccountId := systemAccounts[models.SystemAccountPayable]
	if payableAccountId == 0 {
		return nil, errors.New("payable system account is not configured")
	}

	db := config.GetDB()
	var booking models.TransactionBooking

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := acquireLedgerLock(tx, businessId); err != nil {
			return err
		}
		defer releaseLedgerLock(tx, businessId)

		cashBalance, err := models.AccountBalance(tx, ctx, businessId, input.CashAccountId, nil)
		if err != nil {
			return err
		}
		if cashBalance.LessThan(input.Amount) {
			return fmt.Errorf("insufficient balance in %s: have %s, need %s",
				cashAccount.Name, cashBalance.String(), input.Amount.String())
		}

		number, err := models.NextTransactionNumber(tx, businessId)
		if err != nil {
			return err
		}
		booking = models.TransactionBooking{
			BusinessId:        businessId,
			TransactionNumber: fmt.Sprintf("%d", number),
			ReferenceNumber:   input.Reference,
			VendorId:          input.VendorId,
			Source:            models.TransactionSourcePurchase,
			PaymentStatus:     models.PaymentStatusPaid,
			TransactionDate:   input.Date,
			Amount:            input.Amount,
		}
		description := fmt.Sprintf("Vendor payment - %s", vendor.Name)
		lines := []*models.TransactionBookingLine{
			{
				AccountId:       payableAccountId,
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
			config.LogError(logger, "stockWorkflow.go", "PayVendor", "CreateBookingWithLines", booking, err)
			return err
		}

		vendorEntry := models.VendorTransaction{
			BusinessId:      businessId,
			VendorId:        input.VendorId,
			BookingId:       booking.ID,
			Description:     description,
			DebitAmount:     input.Amount,
			TransactionDate: input.Date,
		}
		return models.CreateVendorTransaction(tx, &vendorEntry)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
