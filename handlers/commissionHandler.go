package handlers

import (
	"net/http"
	"strconv"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func optionalIntQuery(c *gin.Context, name string) *int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}

func CreateEmployee(c *gin.Context) {
	var input models.NewEmployee
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	employee, err := models.CreateEmployee(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func UpdateEmployee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewEmployee
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	employee, err := models.UpdateEmployee(c.Request.Context(), id, &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func GetEmployees(c *gin.Context) {
	employees, err := models.GetEmployees(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func CreateCommission(c *gin.Context) {
	var input models.NewCommission
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	commission, err := models.CreateCommission(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, commission)
}

func GetCommission(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	commission, err := models.GetCommission(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, commission)
}

func GetPayableCommissions(c *gin.Context) {
	commissions, err := models.GetPayableCommissions(c.Request.Context(), optionalIntQuery(c, "employee_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, commissions)
}

func DeleteCommission(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	commission, err := models.DeleteCommission(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, commission)
}

func PayCommission(c *gin.Context) {
	var input workflow.PayCommissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	payment, err := workflow.PayCommission(c.Request.Context(), config.GetLogger(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func PreviewBulkPayment(c *gin.Context) {
	var input struct {
		EmployeeId int             `json:"employee_id" binding:"required"`
		Amount     decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	allocations, err := workflow.PreviewBulkPayment(c.Request.Context(), input.EmployeeId, input.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, allocations)
}

func ConfirmBulkPayment(c *gin.Context) {
	var input workflow.BulkPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	bulkPayment, err := workflow.ConfirmBulkPayment(c.Request.Context(), config.GetLogger(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bulkPayment)
}

func GetBulkPayments(c *gin.Context) {
	results, err := models.GetBulkPayments(c.Request.Context(), optionalIntQuery(c, "employee_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func DeleteBulkPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteBulkPayment(c.Request.Context(), config.GetLogger(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func CreateSalesPerson(c *gin.Context) {
	var input models.NewSalesPerson
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	salesPerson, err := models.CreateSalesPerson(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, salesPerson)
}

func GetSalesPersons(c *gin.Context) {
	results, err := models.GetSalesPersons(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func ApplyCommissionBalance(c *gin.Context) {
	var input workflow.ApplyBalanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	payments, err := workflow.ApplyCommissionBalance(c.Request.Context(), config.GetLogger(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, payments)
}
