package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/utils"
)

type ListingController struct {
	DB *gorm.DB
}

func NewListingController(db *gorm.DB) *ListingController {
	return &ListingController{DB: db}
}

// GetAllListings returns active listings with their average rating.
func (lc *ListingController) GetAllListings(c *gin.Context) {
	var listings []models.Listing
	if err := lc.DB.Preload("Host").Where("is_active = ?", true).Find(&listings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for i := range listings {
		lc.attachAverageRating(&listings[i])
	}

	utils.RespondJSON(c, http.StatusOK, "All listings", listings)
}

// GetListingByID
func (lc *ListingController) GetListingByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("listing_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid listing id"))
		return
	}

	var listing models.Listing
	if err := lc.DB.Preload("Host").First(&listing, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("listing not found"))
		return
	}

	lc.attachAverageRating(&listing)
	utils.RespondJSON(c, http.StatusOK, "Listing detail", listing)
}

// CreateListing -> hosts publish a new property.
func (lc *ListingController) CreateListing(c *gin.Context) {
	type reqBody struct {
		Title         string          `json:"title" binding:"required"`
		Description   string          `json:"description"`
		Location      string          `json:"location" binding:"required"`
		PricePerNight decimal.Decimal `json:"price_per_night" binding:"required"`
		MaxGuests     int             `json:"max_guests"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.PricePerNight.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price_per_night must be greater than zero"))
		return
	}

	hostID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	maxGuests := body.MaxGuests
	if maxGuests <= 0 {
		maxGuests = 1
	}

	listing := models.Listing{
		HostID:        hostID,
		Title:         body.Title,
		Description:   body.Description,
		Location:      body.Location,
		PricePerNight: body.PricePerNight,
		MaxGuests:     maxGuests,
		IsActive:      true,
	}

	if err := lc.DB.Create(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Listing %d created by host %d", listing.ID, hostID)
	utils.RespondJSON(c, http.StatusCreated, "Listing created", listing)
}

// UpdateListing -> owner or admin.
func (lc *ListingController) UpdateListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("listing_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid listing id"))
		return
	}

	var listing models.Listing
	if err := lc.DB.First(&listing, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("listing not found"))
		return
	}
	if !lc.canManage(c, &listing) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type reqBody struct {
		Title         *string          `json:"title"`
		Description   *string          `json:"description"`
		Location      *string          `json:"location"`
		PricePerNight *decimal.Decimal `json:"price_per_night"`
		MaxGuests     *int             `json:"max_guests"`
		IsActive      *bool            `json:"is_active"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Title != nil {
		listing.Title = *body.Title
	}
	if body.Description != nil {
		listing.Description = *body.Description
	}
	if body.Location != nil {
		listing.Location = *body.Location
	}
	if body.PricePerNight != nil {
		if !body.PricePerNight.IsPositive() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price_per_night must be greater than zero"))
			return
		}
		listing.PricePerNight = *body.PricePerNight
	}
	if body.MaxGuests != nil && *body.MaxGuests > 0 {
		listing.MaxGuests = *body.MaxGuests
	}
	if body.IsActive != nil {
		listing.IsActive = *body.IsActive
	}

	if err := lc.DB.Save(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Listing updated", listing)
}

// DeleteListing -> owner or admin.
func (lc *ListingController) DeleteListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("listing_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid listing id"))
		return
	}

	var listing models.Listing
	if err := lc.DB.First(&listing, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("listing not found"))
		return
	}
	if !lc.canManage(c, &listing) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if err := lc.DB.Delete(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Listing deleted", gin.H{"listing_id": id})
}

func (lc *ListingController) canManage(c *gin.Context, listing *models.Listing) bool {
	if role, _ := c.Get("role"); role == "admin" {
		return true
	}
	userID, ok := currentUserID(c)
	return ok && userID == listing.HostID
}

func (lc *ListingController) attachAverageRating(listing *models.Listing) {
	var avg *float64
	row := lc.DB.Model(&models.Review{}).
		Where("listing_id = ?", listing.ID).
		Select("AVG(rating)").
		Row()
	if err := row.Scan(&avg); err != nil || avg == nil {
		listing.AverageRating = nil
		return
	}
	rounded := float64(int(*avg*100+0.5)) / 100
	listing.AverageRating = &rounded
}
