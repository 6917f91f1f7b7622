// seed-chart-of-accounts seeds the system-default chart of accounts and the
// base currency for one business.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/seed-chart-of-accounts -business <business-id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/utils"
	"gorm.io/gorm"
)

type seedAccount struct {
	Code        string
	Name        string
	MainType    models.AccountMainType
	AccountType models.AccountType
}

var defaultAccounts = []seedAccount{
	{models.SystemAccountCash, "Cash on Hand", models.AccountMainTypeAsset, models.AccountTypeCash},
	{models.SystemAccountBank, "Bank", models.AccountMainTypeAsset, models.AccountTypeBankTransfer},
	{models.SystemAccountInventory, "Inventory", models.AccountMainTypeAsset, models.AccountTypeInventory},
	{models.SystemAccountPayable, "Accounts Payable", models.AccountMainTypeLiability, models.AccountTypePayable},
	{"2100", "Commission Payable", models.AccountMainTypeLiability, models.AccountTypeCommission},
	{models.SystemAccountOwnersEq, "Owner's Equity", models.AccountMainTypeEquity, models.AccountTypeOwnersEquity},
	{"4000", "Sales Income", models.AccountMainTypeIncome, models.AccountTypeIncome},
	{"5000", "Cost of Goods Sold", models.AccountMainTypeExpense, models.AccountTypeCOGS},
	{"6000", "General Expenses", models.AccountMainTypeExpense, models.AccountTypeExpense},
}

func main() {
	businessId := flag.String("business", "", "business id to seed")
	flag.Parse()
	if *businessId == "" {
		fmt.Fprintln(os.Stderr, "usage: seed-chart-of-accounts -business <business-id>")
		os.Exit(2)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	var base models.Currency
	err := db.WithContext(ctx).
		Where("business_id = ? AND is_base = ?", *businessId, true).
		First(&base).Error
	if err == gorm.ErrRecordNotFound {
		base = models.Currency{
			BusinessId:    *businessId,
			Name:          "USD",
			Symbol:        "$",
			DecimalPlaces: 2,
			IsBase:        utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&base).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create base currency: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Created base currency USD")
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to lookup base currency: %v\n", err)
		os.Exit(1)
	}

	created := 0
	for _, seed := range defaultAccounts {
		var existing models.ChartAccount
		err := db.WithContext(ctx).
			Where("business_id = ? AND code = ?", *businessId, seed.Code).
			First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup account %s: %v\n", seed.Code, err)
			os.Exit(1)
		}
		account := models.ChartAccount{
			BusinessId:      *businessId,
			Code:            seed.Code,
			Name:            seed.Name,
			MainType:        seed.MainType,
			AccountType:     seed.AccountType,
			CurrencyId:      base.ID,
			IsActive:        utils.NewTrue(),
			IsSystemDefault: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&account).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create account %s: %v\n", seed.Code, err)
			os.Exit(1)
		}
		created++
	}

	_ = config.DeleteRedisKey("SystemAccounts:" + *businessId)
	fmt.Printf("Seeded %d accounts for business %s\n", created, *businessId)
}
