package handlers

import (
	"net/http"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateVendor(c *gin.Context) {
	var input models.NewVendor
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	vendor, err := models.CreateVendor(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func UpdateVendor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewVendor
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	vendor, err := models.UpdateVendor(c.Request.Context(), id, &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func DeleteVendor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	vendor, err := models.DeleteVendor(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func GetVendors(c *gin.Context) {
	vendors, err := models.GetVendors(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func CreateItem(c *gin.Context) {
	var input models.NewItem
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	item, err := models.CreateItem(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func UpdateItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewItem
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	item, err := models.UpdateItem(c.Request.Context(), id, &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func GetItems(c *gin.Context) {
	items, err := models.GetItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func GetItemCostHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	history, err := models.GetItemCostHistory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func CreatePurchaseOrder(c *gin.Context) {
	var input models.NewPurchaseOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	purchase, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func GetPurchaseOrders(c *gin.Context) {
	purchases, err := models.GetPurchaseOrders(c.Request.Context(), optionalIntQuery(c, "vendor_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func DeletePurchaseOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	purchase, err := models.DeletePurchaseOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func ReceivePurchase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	purchase, err := workflow.ReceivePurchase(c.Request.Context(), config.GetLogger(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func PayVendor(c *gin.Context) {
	var input workflow.VendorPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	booking, err := workflow.PayVendor(c.Request.Context(), config.GetLogger(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}
