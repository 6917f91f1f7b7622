package handlers

import (
	"net/http"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func GetBalanceSheet(c *gin.Context) {
	asOf, ok := dateQuery(c, "as_of")
	if !ok {
		return
	}
	if asOf == nil {
		now := time.Now()
		asOf = &now
	}
	report, err := reports.GetBalanceSheetReport(c.Request.Context(), *asOf)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func GetCashFlow(c *gin.Context) {
	fromDate, ok := requireDateQuery(c, "from_date")
	if !ok {
		return
	}
	toDate, ok := requireDateQuery(c, "to_date")
	if !ok {
		return
	}
	report, err := reports.GetCashFlowReport(c.Request.Context(), fromDate, toDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func GetVendorStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	fromDate, ok := requireDateQuery(c, "from_date")
	if !ok {
		return
	}
	toDate, ok := requireDateQuery(c, "to_date")
	if !ok {
		return
	}
	report, err := reports.GetVendorStatementReport(c.Request.Context(), id, fromDate, toDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func ExportVendorStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	fromDate, ok := requireDateQuery(c, "from_date")
	if !ok {
		return
	}
	toDate, ok := requireDateQuery(c, "to_date")
	if !ok {
		return
	}
	f, err := reports.ExportVendorStatementExcel(c.Request.Context(), id, fromDate, toDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=vendor_statement.xlsx")
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "reportHandler.go", "ExportVendorStatement", "Write", id, err)
	}
}

func ExportBalanceSheet(c *gin.Context) {
	asOf, ok := dateQuery(c, "as_of")
	if !ok {
		return
	}
	if asOf == nil {
		now := time.Now()
		asOf = &now
	}
	f, err := reports.ExportBalanceSheetExcel(c.Request.Context(), *asOf)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=balance_sheet.xlsx")
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "reportHandler.go", "ExportBalanceSheet", "Write", nil, err)
	}
}

func GetBookings(c *gin.Context) {
	fromDate, ok := dateQuery(c, "from_date")
	if !ok {
		return
	}
	toDate, ok := dateQuery(c, "to_date")
	if !ok {
		return
	}
	bookings, err := models.GetBookings(c.Request.Context(), fromDate, toDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func GetBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	booking, err := models.GetBooking(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func CreateCurrencyExchange(c *gin.Context) {
	var input models.NewCurrencyExchange
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	exchange, err := models.CreateCurrencyExchange(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, exchange)
}
