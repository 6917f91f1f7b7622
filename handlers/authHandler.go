package handlers

import (
	"net/http"

	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/gin-gonic/gin"
)

func Register(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, err := models.RegisterUser(c.Request.Context(), &input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.Login(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
