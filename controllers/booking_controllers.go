package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/services"
	"github.com/alxtravel/travel-app/utils"
)

type BookingController struct {
	DB       *gorm.DB
	Notifier services.NotificationQueue
}

func NewBookingController(db *gorm.DB, notifier services.NotificationQueue) *BookingController {
	return &BookingController{DB: db, Notifier: notifier}
}

const bookingDateLayout = "2006-01-02"

// CreateBooking reserves a listing for the authenticated guest. Nights and
// total price are computed from the listing's current nightly price.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	type reqBody struct {
		ListingID uint   `json:"listing_id" binding:"required"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	start, err := time.Parse(bookingDateLayout, body.StartDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("start_date must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse(bookingDateLayout, body.EndDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end_date must be YYYY-MM-DD"))
		return
	}
	if !end.After(start) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end_date must be after start_date"))
		return
	}

	guestID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var listing models.Listing
	if err := bc.DB.First(&listing, body.ListingID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("listing not found"))
		return
	}
	if !listing.IsActive {
		utils.RespondError(c, http.StatusBadRequest, errors.New("listing is not available"))
		return
	}

	reference, err := generateBookingReference()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	booking := models.Booking{
		ListingID: listing.ID,
		GuestID:   guestID,
		Reference: reference,
		StartDate: start,
		EndDate:   end,
		Status:    models.BookingStatusPending,
	}
	booking.ComputeTotals(listing.PricePerNight)

	if err := bc.DB.Create(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Fire-and-forget: booking creation never fails because the
	// confirmation email could not be queued.
	var guest models.User
	if err := bc.DB.First(&guest, guestID).Error; err == nil {
		if err := bc.Notifier.EnqueueBookingConfirmation(guest.Email, booking.Reference); err != nil {
			utils.ErrorLogger.Printf("booking %s: could not enqueue confirmation email: %v", booking.Reference, err)
		}
	}

	utils.InfoLogger.Printf("Booking %s created for listing %d by guest %d", booking.Reference, listing.ID, guestID)
	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// GetAllBookings -> admins see everything, guests see their own.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	query := bc.DB.Preload("Listing").Preload("Guest")

	if role, _ := c.Get("role"); role != "admin" {
		userID, ok := currentUserID(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
			return
		}
		query = query.Where("guest_id = ?", userID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All bookings", bookings)
}

// GetBookingByID
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	booking, ok := bc.loadBooking(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// ConfirmBooking -> the listing's host or an admin confirms a pending
// booking. Guests cannot confirm their own.
func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	booking, ok := bc.loadBooking(c)
	if !ok {
		return
	}
	if role, _ := c.Get("role"); role != "admin" {
		userID, uok := currentUserID(c)
		if !uok || userID != booking.Listing.HostID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
	}
	bc.transition(c, booking, models.BookingStatusPending, models.BookingStatusConfirmed, "Booking confirmed")
}

// CancelBooking -> guest, host or admin cancels; terminal.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	booking, ok := bc.loadBooking(c)
	if !ok {
		return
	}
	bc.transition(c, booking, "", models.BookingStatusCanceled, "Booking canceled")
}

func (bc *BookingController) transition(c *gin.Context, booking *models.Booking, from, to, message string) {
	if from != "" && booking.Status != from {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("booking is %s, expected %s", booking.Status, from))
		return
	}
	if booking.Status == models.BookingStatusCanceled {
		utils.RespondError(c, http.StatusBadRequest, errors.New("booking is already canceled"))
		return
	}

	booking.Status = to
	if err := bc.DB.Save(booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Booking %s -> %s", booking.Reference, to)
	utils.RespondJSON(c, http.StatusOK, message, booking)
}

func (bc *BookingController) loadBooking(c *gin.Context) (*models.Booking, bool) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return nil, false
	}

	var booking models.Booking
	if err := bc.DB.Preload("Listing").Preload("Guest").First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return nil, false
	}

	// Guests may only touch their own bookings; hosts the bookings on
	// their listings.
	if role, _ := c.Get("role"); role != "admin" {
		userID, ok := currentUserID(c)
		if !ok || (userID != booking.GuestID && userID != booking.Listing.HostID) {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return nil, false
		}
	}

	return &booking, true
}

func generateBookingReference() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate booking reference: %w", err)
	}
	return "BK" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
