package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/utils"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// CreateReview -> authenticated users review a listing, rating 1..5.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	listingID, err := strconv.Atoi(c.Param("listing_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid listing id"))
		return
	}

	type reqBody struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("rating must be between 1 and 5"))
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var listing models.Listing
	if err := rc.DB.First(&listing, listingID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("listing not found"))
		return
	}

	review := models.Review{
		ListingID: listing.ID,
		AuthorID:  authorID,
		Rating:    body.Rating,
		Comment:   body.Comment,
	}

	if err := rc.DB.Create(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}

// GetReviewsByListing
func (rc *ReviewController) GetReviewsByListing(c *gin.Context) {
	listingID, err := strconv.Atoi(c.Param("listing_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid listing id"))
		return
	}

	var reviews []models.Review
	if err := rc.DB.Preload("Author").Where("listing_id = ?", listingID).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Listing reviews", reviews)
}
