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

// SalesPerson carries a commission wallet: CommissionBalance accumulates
// earned commission and is drawn down when balance is applied against open
// liabilities.
type SalesPerson struct {
	ID                int             `gorm:"primary_key" json:"id"`
	BusinessId        string          `gorm:"index;not null" json:"business_id"`
	Name              string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Phone             string          `gorm:"size:30" json:"phone"`
	Email             string          `gorm:"size:100" json:"email"`
	EmployeeId        int             `gorm:"index" json:"employee_id"`
	CommissionBalance decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"commission_balance"`
	IsActive          *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSalesPerson struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	EmployeeId int    `json:"employee_id"`
}

func (input *NewSalesPerson) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[SalesPerson](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[SalesPerson](ctx, businessId, "name", input.Name, id); err != nil {
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
	if input.EmployeeId > 0 {
		if err := utils.ValidateResourceId[Employee](ctx, businessId, input.EmployeeId); err != nil {
			return errors.New("employee not found")
		}
	}
	return nil
}

func CreateSalesPerson(ctx context.Context, input *NewSalesPerson) (*SalesPerson, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	salesPerson := SalesPerson{
		BusinessId: businessId,
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		EmployeeId: input.EmployeeId,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&salesPerson).Error; err != nil {
		return nil, err
	}
	return &salesPerson, nil
}

func UpdateSalesPerson(ctx context.Context, id int, input *NewSalesPerson) (*SalesPerson, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	salesPerson, err := utils.FetchModel[SalesPerson](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&salesPerson).Updates(map[string]interface{}{
		"Name":       input.Name,
		"Phone":      input.Phone,
		"Email":      input.Email,
		"EmployeeId": input.EmployeeId,
	}).Error
	if err != nil {
		return nil, err
	}
	return salesPerson, nil
}

// AddCommissionBalance credits the wallet inside the caller's transaction.
// A negative amount draws the wallet down; the balance can never go below
// zero.
func AddCommissionBalance(tx *gorm.DB, salesPersonId int, amount decimal.Decimal) error {

	var salesPerson SalesPerson
	if err := tx.First(&salesPerson, salesPersonId).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	newBalance := salesPerson.CommissionBalance.Add(amount)
	if newBalance.IsNegative() {
		return errors.New("insufficient commission balance")
	}
	return tx.Model(&salesPerson).Update("CommissionBalance", newBalance).Error
}

func GetSalesPerson(ctx context.Context, id int) (*SalesPerson, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[SalesPerson](ctx, businessId, id)
}

func GetSalesPersons(ctx context.Context) ([]*SalesPerson, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[SalesPerson](ctx, businessId)
}
