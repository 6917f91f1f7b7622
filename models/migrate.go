package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the module.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Currency{},
		&CurrencyExchange{},
		&ChartAccount{},
		&TransactionBooking{},
		&TransactionBookingLine{},
		&Employee{},
		&SalesPerson{},
		&Commission{},
		&CommissionPayment{},
		&CommissionBulkPayment{},
		&CommissionBulkPaymentLine{},
		&BankStatement{},
		&BankStatementLine{},
		&ReconciliationMatch{},
		&Vendor{},
		&VendorTransaction{},
		&Item{},
		&ItemCostHistory{},
		&PurchaseOrder{},
		&PurchaseOrderLine{},
	)
}
