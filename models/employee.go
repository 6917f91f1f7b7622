package models

import (
	"context"
	"errors"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
)

// Employee earns manufacturing commissions. AccountId is the commission
// liability account the payments debit.
type Employee struct {
	ID                        int             `gorm:"primary_key" json:"id"`
	BusinessId                string          `gorm:"index;not null" json:"business_id"`
	Name                      string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Phone                     string          `gorm:"size:30" json:"phone"`
	Email                     string          `gorm:"size:100" json:"email"`
	AccountId                 int             `gorm:"index;not null" json:"account_id"`
	CommissionPaymentSchedule PaymentSchedule `gorm:"type:enum('daily','monthly');default:'monthly';size:10;not null" json:"commission_payment_schedule"`
	CommissionPaymentDay      int             `gorm:"not null;default:1" json:"commission_payment_day"`
	IsActive                  *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt                 time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEmployee struct {
	Name                      string          `json:"name" binding:"required"`
	Phone                     string          `json:"phone"`
	Email                     string          `json:"email"`
	AccountId                 int             `json:"account_id" binding:"required"`
	CommissionPaymentSchedule PaymentSchedule `json:"commission_payment_schedule"`
	CommissionPaymentDay      int             `json:"commission_payment_day"`
}

func (input *NewEmployee) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Employee](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Employee](ctx, businessId, "name", input.Name, id); err != nil {
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
	if err := utils.ValidateResourceId[ChartAccount](ctx, businessId, input.AccountId); err != nil {
		return errors.New("commission account not found")
	}
	if input.CommissionPaymentSchedule == PaymentScheduleMonthly {
		if input.CommissionPaymentDay < 1 || input.CommissionPaymentDay > 31 {
			return errors.New("payment day must be between 1 and 31")
		}
	}
	return nil
}

func CreateEmployee(ctx context.Context, input *NewEmployee) (*Employee, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if input.CommissionPaymentSchedule == "" {
		input.CommissionPaymentSchedule = PaymentScheduleMonthly
	}
	if input.CommissionPaymentDay == 0 {
		input.CommissionPaymentDay = 1
	}
	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	employee := Employee{
		BusinessId:                businessId,
		Name:                      input.Name,
		Phone:                     input.Phone,
		Email:                     input.Email,
		AccountId:                 input.AccountId,
		CommissionPaymentSchedule: input.CommissionPaymentSchedule,
		CommissionPaymentDay:      input.CommissionPaymentDay,
		IsActive:                  utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func UpdateEmployee(ctx context.Context, id int, input *NewEmployee) (*Employee, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	employee, err := utils.FetchModel[Employee](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&employee).Updates(map[string]interface{}{
		"Name":                      input.Name,
		"Phone":                     input.Phone,
		"Email":                     input.Email,
		"AccountId":                 input.AccountId,
		"CommissionPaymentSchedule": input.CommissionPaymentSchedule,
		"CommissionPaymentDay":      input.CommissionPaymentDay,
	}).Error
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func GetEmployee(ctx context.Context, id int) (*Employee, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Employee](ctx, businessId, id)
}

func GetEmployees(ctx context.Context) ([]*Employee, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Employee](ctx, businessId)
}
