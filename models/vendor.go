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

type Vendor struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Phone      string    `gorm:"size:30" json:"phone"`
	Email      string    `gorm:"size:100" json:"email"`
	Address    string    `gorm:"size:255" json:"address"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// VendorTransaction is the vendor-side subledger entry behind each purchase
// or payment, feeding the vendor statement report.
type VendorTransaction struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id"`
	VendorId        int             `gorm:"index;not null" json:"vendor_id"`
	BookingId       int             `gorm:"index" json:"booking_id"`
	Description     string          `gorm:"size:255" json:"description"`
	DebitAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit_amount"`
	CreditAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_amount"`
	TransactionDate time.Time       `gorm:"index;not null" json:"transaction_date"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVendor struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (input *NewVendor) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Vendor](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Vendor](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

func CreateVendor(ctx context.Context, input *NewVendor) (*Vendor, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	vendor := Vendor{
		BusinessId: businessId,
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		Address:    input.Address,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func UpdateVendor(ctx context.Context, id int, input *NewVendor) (*Vendor, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	vendor, err := utils.FetchModel[Vendor](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&vendor).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Phone":   input.Phone,
		"Email":   input.Email,
		"Address": input.Address,
	}).Error
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

// DeleteVendor is blocked while purchase orders or vendor transactions
// reference the vendor.
func DeleteVendor(ctx context.Context, id int) (*Vendor, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	vendor, err := utils.FetchModel[Vendor](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[PurchaseOrder](ctx, businessId, "vendor_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete a vendor with purchase orders")
	}
	count, err = utils.ResourceCountWhere[VendorTransaction](ctx, businessId, "vendor_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete a vendor with transactions")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// CreateVendorTransaction appends a subledger entry inside the caller's
// posting transaction.
func CreateVendorTransaction(tx *gorm.DB, entry *VendorTransaction) error {
	if entry.VendorId == 0 {
		return errors.New("vendor is required")
	}
	if entry.DebitAmount.IsNegative() || entry.CreditAmount.IsNegative() {
		return errors.New("vendor transaction amounts cannot be negative")
	}
	return tx.Create(entry).Error
}

// GetVendorTransactions lists the vendor's subledger entries in posting
// order, the order the statement report accumulates its running balance in.
func GetVendorTransactions(ctx context.Context, vendorId int, fromDate *time.Time, toDate *time.Time) ([]*VendorTransaction, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Where("business_id = ? AND vendor_id = ?", businessId, vendorId)
	if fromDate != nil {
		dbCtx = dbCtx.Where("transaction_date >= ?", *fromDate)
	}
	if toDate != nil {
		dbCtx = dbCtx.Where("transaction_date <= ?", *toDate)
	}
	var results []*VendorTransaction
	if err := dbCtx.Order("transaction_date ASC, id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func GetVendor(ctx context.Context, id int) (*Vendor, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Vendor](ctx, businessId, id)
}

func GetVendors(ctx context.Context) ([]*Vendor, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Vendor](ctx, businessId)
}
