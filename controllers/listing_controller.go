package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mesutdemirok/FlatmateConnect-sub000/config"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/models"
)

// CreateListingRequest represents the request body for creating a listing
type CreateListingRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description" binding:"required"`
	City          string     `json:"city" binding:"required"`
	District      string     `json:"district" binding:"omitempty"`
	RentMonthly   int        `json:"rent_monthly" binding:"required,gt=0"`
	RoomType      string     `json:"room_type" binding:"required,oneof=private shared"`
	Furnished     bool       `json:"furnished"`
	BillsIncluded bool       `json:"bills_included"`
	AvailableFrom *time.Time `json:"available_from" binding:"omitempty"`
	ImageURLs     []string   `json:"image_urls" binding:"omitempty,dive,url"`
}

// UpdateListingRequest represents the request body for updating a listing
type UpdateListingRequest struct {
	Title         *string    `json:"title" binding:"omitempty"`
	Description   *string    `json:"description" binding:"omitempty"`
	City          *string    `json:"city" binding:"omitempty"`
	District      *string    `json:"district" binding:"omitempty"`
	RentMonthly   *int       `json:"rent_monthly" binding:"omitempty,gt=0"`
	RoomType      *string    `json:"room_type" binding:"omitempty,oneof=private shared"`
	Furnished     *bool      `json:"furnished" binding:"omitempty"`
	BillsIncluded *bool      `json:"bills_included" binding:"omitempty"`
	AvailableFrom *time.Time `json:"available_from" binding:"omitempty"`
	Status        *string    `json:"status" binding:"omitempty,oneof=active paused"`
}

// CreateListing handles POST /api/v1/listings - publishes a new listing
func CreateListing(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Parse request body
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	listing := models.Listing{
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		District:      req.District,
		RentMonthly:   req.RentMonthly,
		RoomType:      req.RoomType,
		Furnished:     req.Furnished,
		BillsIncluded: req.BillsIncluded,
		AvailableFrom: req.AvailableFrom,
		Status:        "active",
		UserID:        user.ID,
	}
	for i, url := range req.ImageURLs {
		listing.Images = append(listing.Images, models.ListingImage{URL: url, SortOrder: i})
	}

	db := config.GetDB()
	if err := db.Create(&listing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create listing",
			},
		})
		return
	}

	// Load the owner relationship to return complete data
	if err := db.Preload("User").Preload("Images").First(&listing, listing.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load listing details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    listing,
	})
}

// ListListings handles GET /api/v1/listings - searches listings with optional
// filters. All filters compose; unset parameters are ignored.
func ListListings(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Listing{})

	// Status defaults to active so paused listings stay out of search results
	status := c.DefaultQuery("status", "active")
	query = query.Where("status = ?", status)

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if district := c.Query("district"); district != "" {
		query = query.Where("district = ?", district)
	}
	if roomType := c.Query("room_type"); roomType != "" {
		query = query.Where("room_type = ?", roomType)
	}
	if minRent := c.Query("min_rent"); minRent != "" {
		value, err := strconv.Atoi(minRent)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "min_rent must be an integer",
				},
			})
			return
		}
		query = query.Where("rent_monthly >= ?", value)
	}
	if maxRent := c.Query("max_rent"); maxRent != "" {
		value, err := strconv.Atoi(maxRent)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "max_rent must be an integer",
				},
			})
			return
		}
		query = query.Where("rent_monthly <= ?", value)
	}
	if furnished := c.Query("furnished"); furnished != "" {
		value, err := strconv.ParseBool(furnished)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "furnished must be a boolean",
				},
			})
			return
		}
		query = query.Where("furnished = ?", value)
	}
	if billsIncluded := c.Query("bills_included"); billsIncluded != "" {
		value, err := strconv.ParseBool(billsIncluded)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "bills_included must be a boolean",
				},
			})
			return
		}
		query = query.Where("bills_included = ?", value)
	}

	switch c.DefaultQuery("sort", "newest") {
	case "newest":
		query = query.Order("created_at DESC, id DESC")
	case "rent_asc":
		query = query.Order("rent_monthly ASC, id DESC")
	case "rent_desc":
		query = query.Order("rent_monthly DESC, id DESC")
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "sort must be one of newest, rent_asc, rent_desc",
			},
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count listings",
			},
		})
		return
	}

	listings := make([]models.Listing, 0, limit)
	if err := query.
		Preload("User").
		Preload("Images").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch listings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listings,
		"meta": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetListing handles GET /api/v1/listings/:id - fetches one listing
func GetListing(c *gin.Context) {
	db := config.GetDB()
	var listing models.Listing
	if err := db.Preload("User").Preload("Images").First(&listing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LISTING_NOT_FOUND",
				"message": "Listing not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listing,
	})
}

// GetMyListings handles GET /api/v1/users/me/listings - the caller's own
// listings, paused ones included
func GetMyListings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	listings := make([]models.Listing, 0)
	if err := db.Where("user_id = ?", user.ID).
		Preload("Images").
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch listings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listings,
	})
}

// UpdateListing handles PUT /api/v1/listings/:id - updates a listing (owner only)
func UpdateListing(c *gin.Context) {
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

	// Only the owner can modify a listing
	if listing.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to modify this listing",
			},
		})
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.District != nil {
		updates["district"] = *req.District
	}
	if req.RentMonthly != nil {
		updates["rent_monthly"] = *req.RentMonthly
	}
	if req.RoomType != nil {
		updates["room_type"] = *req.RoomType
	}
	if req.Furnished != nil {
		updates["furnished"] = *req.Furnished
	}
	if req.BillsIncluded != nil {
		updates["bills_included"] = *req.BillsIncluded
	}
	if req.AvailableFrom != nil {
		updates["available_from"] = *req.AvailableFrom
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    listing,
		})
		return
	}

	if err := db.Model(&listing).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update listing",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("Images").First(&listing, listing.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load listing details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listing,
	})
}

// DeleteListing handles DELETE /api/v1/listings/:id - removes a listing (owner only)
func DeleteListing(c *gin.Context) {
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

	if listing.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to delete this listing",
			},
		})
		return
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&listing).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete listing",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Listing deleted",
	})
}
