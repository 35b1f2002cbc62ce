package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mesutdemirok/FlatmateConnect-sub000/config"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/models"
)

func TestAddFavorite(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	viewer := seedUser(t, "Bakan", "viewer@example.com")
	owner := seedUser(t, "Sahip", "owner@example.com")
	listing := seedListing(t, owner, "Begenilecek ilan", "Istanbul", "Besiktas", "private", "active", 9500)

	addFavorite := func(t *testing.T, listingID string) (int, map[string]interface{}) {
		router := setupTestRouter()
		router.POST("/listings/:id/favorite", mockAuthMiddleware(viewer.Auth0ID, "mock-token"), AddFavorite)

		req, _ := http.NewRequest(http.MethodPost, "/listings/"+listingID+"/favorite", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		return w.Code, response
	}

	t.Run("Save a listing successfully", func(t *testing.T) {
		code, response := addFavorite(t, fmt.Sprintf("%d", listing.ID))
		assert.Equal(t, http.StatusCreated, code)
		assert.True(t, response["success"].(bool))

		var count int64
		db.Model(&models.Favorite{}).Where("user_id = ? AND listing_id = ?", viewer.ID, listing.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Fail on duplicate save", func(t *testing.T) {
		code, response := addFavorite(t, fmt.Sprintf("%d", listing.ID))
		assert.Equal(t, http.StatusConflict, code)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "ALREADY_FAVORITED", errorData["code"])
	})

	t.Run("Fail with unknown listing", func(t *testing.T) {
		code, response := addFavorite(t, "99999")
		assert.Equal(t, http.StatusNotFound, code)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "LISTING_NOT_FOUND", errorData["code"])
	})
}

func TestRemoveFavorite(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	viewer := seedUser(t, "Bakan", "viewer@example.com")
	owner := seedUser(t, "Sahip", "owner@example.com")
	listing := seedListing(t, owner, "Silinecek favori", "Izmir", "Bornova", "shared", "active", 7000)
	db.Create(&models.Favorite{UserID: viewer.ID, ListingID: listing.ID})

	removeFavorite := func(t *testing.T, listingID string) (int, map[string]interface{}) {
		router := setupTestRouter()
		router.DELETE("/listings/:id/favorite", mockAuthMiddleware(viewer.Auth0ID, "mock-token"), RemoveFavorite)

		req, _ := http.NewRequest(http.MethodDelete, "/listings/"+listingID+"/favorite", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		return w.Code, response
	}

	t.Run("Remove a saved listing", func(t *testing.T) {
		code, response := removeFavorite(t, fmt.Sprintf("%d", listing.ID))
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, response["success"].(bool))

		var count int64
		db.Model(&models.Favorite{}).Where("user_id = ?", viewer.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Fail when not saved", func(t *testing.T) {
		code, response := removeFavorite(t, fmt.Sprintf("%d", listing.ID))
		assert.Equal(t, http.StatusNotFound, code)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "FAVORITE_NOT_FOUND", errorData["code"])
	})
}

func TestListFavorites(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	viewer := seedUser(t, "Bakan", "viewer@example.com")
	owner := seedUser(t, "Sahip", "owner@example.com")
	first := seedListing(t, owner, "Birinci ilan", "Istanbul", "", "private", "active", 8000)
	second := seedListing(t, owner, "Ikinci ilan", "Ankara", "", "shared", "active", 6000)
	db.Create(&models.ListingImage{ListingID: first.ID, URL: "https://img.example.com/f.jpg"})
	db.Create(&models.Favorite{UserID: viewer.ID, ListingID: first.ID})
	db.Create(&models.Favorite{UserID: viewer.ID, ListingID: second.ID})

	router := setupTestRouter()
	router.GET("/favorites", mockAuthMiddleware(viewer.Auth0ID, "mock-token"), ListFavorites)

	req, _ := http.NewRequest(http.MethodGet, "/favorites", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].([]interface{})
	require.Len(t, data, 2)

	// Each entry carries the full listing with owner and images preloaded
	for _, raw := range data {
		favorite := raw.(map[string]interface{})
		listingData := favorite["listing"].(map[string]interface{})
		assert.NotEmpty(t, listingData["title"])
		assert.Equal(t, owner.Name, listingData["user"].(map[string]interface{})["name"])
	}
}
