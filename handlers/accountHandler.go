package handlers

import (
	"net/http"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateChartAccount(c *gin.Context) {
	var input models.NewChartAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	account, err := models.CreateChartAccount(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func UpdateChartAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewChartAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	account, err := models.UpdateChartAccount(c.Request.Context(), id, &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func DeleteChartAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, err := models.DeleteChartAccount(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func GetChartAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, err := models.GetChartAccount(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func GetChartAccounts(c *gin.Context) {
	var name *string
	if v := c.Query("name"); v != "" {
		name = &v
	}
	var accountType *models.AccountType
	if v := c.Query("account_type"); v != "" {
		t := models.AccountType(v)
		accountType = &t
	}
	accounts, err := models.GetChartAccounts(c.Request.Context(), name, accountType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// GetAccountBalance returns the derived balance, optionally as of a date,
// both raw and in the account's natural sign.
func GetAccountBalance(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	asOf, ok := dateQuery(c, "as_of")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	businessId, _ := utils.GetBusinessIdFromContext(ctx)

	account, err := models.GetChartAccount(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	base, err := models.GetBaseCurrency(ctx, businessId)
	if err != nil {
		fail(c, err)
		return
	}

	db := config.GetDB()
	balance, err := models.AccountBalance(db, ctx, businessId, id, asOf)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account_id":      id,
		"balance":         balance,
		"natural_balance": models.NaturalBalance(account.MainType, balance, base.DecimalPlaces),
	})
}
