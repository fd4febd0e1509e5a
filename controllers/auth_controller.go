package controllers

import (
	"net/http"
	"os"

	"github.com/ryanlai666/Meat-Cut/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login issues an admin JWT. Credentials come from the environment:
// ADMIN_USER and a bcrypt ADMIN_PASSWORD_HASH.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	adminUser := os.Getenv("ADMIN_USER")
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminUser == "" || passwordHash == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: admin credentials not set"})
		return
	}

	if req.Username != adminUser ||
		bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
