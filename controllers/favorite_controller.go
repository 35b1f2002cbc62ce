package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Mesutdemirok/FlatmateConnect-sub000/config"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/models"
)

// AddFavorite handles POST /api/v1/listings/:id/favorite - saves a listing
func AddFavorite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var listing models.Listing
	if err := db.First(&listing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LISTING_NOT_FOUND",
				"message": "Listing not found",
			},
		})
		return
	}

	favorite := models.Favorite{
		UserID:    user.ID,
		ListingID: listing.ID,
	}
	if err := db.Create(&favorite).Error; err != nil {
		// The composite unique index rejects double-favoriting
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ALREADY_FAVORITED",
					"message": "You have already saved this listing",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save listing",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    favorite,
	})
}

// RemoveFavorite handles DELETE /api/v1/listings/:id/favorite - unsaves a listing
func RemoveFavorite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	result := db.Where("user_id = ? AND listing_id = ?", user.ID, c.Param("id")).Delete(&models.Favorite{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to remove favorite",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FAVORITE_NOT_FOUND",
				"message": "This listing is not in your favorites",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Favorite removed",
	})
}

// ListFavorites handles GET /api/v1/favorites - the caller's saved listings
func ListFavorites(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	favorites := make([]models.Favorite, 0)
	if err := db.Where("user_id = ?", user.ID).
		Preload("Listing").
		Preload("Listing.User").
		Preload("Listing.Images").
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch favorites",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    favorites,
	})
}
