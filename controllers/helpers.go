package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mesutdemirok/FlatmateConnect-sub000/config"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/middleware"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/models"
)

// currentUser resolves the authenticated caller to their database record.
// On failure it writes the error response and returns ok=false; handlers
// should just return in that case.
func currentUser(c *gin.Context) (models.User, bool) {
	// Extract Auth0 user ID from JWT token
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return models.User{}, false
	}

	// Find the user in the database
	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return models.User{}, false
	}

	return user, true
}
