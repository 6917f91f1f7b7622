package handlers

import (
	"net/http"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateBankStatement(c *gin.Context) {
	var input models.NewBankStatement
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	statement, err := models.CreateBankStatement(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, statement)
}

func GetBankStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	statement, err := models.GetBankStatement(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

func AddStatementLine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewBankStatementLine
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	line, err := models.AddStatementLine(c.Request.Context(), id, &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

// ImportStatementLines accepts a template-shaped xlsx upload.
func ImportStatementLines(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	result, err := workflow.ImportStatementLines(c.Request.Context(), config.GetLogger(), id, file)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DownloadStatementTemplate(c *gin.Context) {
	f, err := workflow.GenerateStatementTemplate()
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=statement_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "statementHandler.go", "DownloadStatementTemplate", "Write", nil, err)
	}
}

func AutoMatchStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	statement, err := workflow.AutoMatchStatement(c.Request.Context(), config.GetLogger(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

func ManualMatch(c *gin.Context) {
	var input struct {
		StatementLineId int `json:"statement_line_id" binding:"required"`
		BookingLineId   int `json:"booking_line_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	err := workflow.ManualMatch(c.Request.Context(), config.GetLogger(), input.StatementLineId, input.BookingLineId)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"matched": true})
}

func DeleteMatch(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := models.DeleteMatch(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func ValidateBankStatement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	statement, err := models.ValidateBankStatement(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}
