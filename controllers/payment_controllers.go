package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/services"
	"github.com/alxtravel/travel-app/utils"
)

type PaymentController struct {
	DB      *gorm.DB
	Service *services.PaymentService
}

func NewPaymentController(db *gorm.DB, service *services.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Service: service}
}

// InitiatePayment -> POST /payments/initiate/
func (pc *PaymentController) InitiatePayment(c *gin.Context) {
	type reqBody struct {
		BookingReference string          `json:"booking_reference"`
		Amount           decimal.Decimal `json:"amount"`
		Currency         string          `json:"currency"`
		Email            string          `json:"email"`
		FirstName        string          `json:"first_name"`
		LastName         string          `json:"last_name"`
		ReturnURL        string          `json:"return_url"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req := services.InitiatePaymentRequest{
		BookingReference: body.BookingReference,
		Amount:           body.Amount,
		Currency:         body.Currency,
		Email:            body.Email,
		FirstName:        body.FirstName,
		LastName:         body.LastName,
		ReturnURL:        body.ReturnURL,
	}

	// Weak reference: attach the booking when the reference resolves, but
	// a payment attempt is valid ledger data without one.
	var booking models.Booking
	if err := pc.DB.Where("reference = ?", body.BookingReference).First(&booking).Error; err == nil {
		req.BookingID = &booking.ID
	}

	result, err := pc.Service.InitiatePayment(req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment initiated", result)
}

// VerifyPayment -> GET /payments/verify/?tx_ref=...
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	txRef := c.Query("tx_ref")

	result, err := pc.Service.VerifyPayment(txRef)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment verified", result)
}

// GetAllPayments -> admin audit view of the ledger.
func (pc *PaymentController) GetAllPayments(c *gin.Context) {
	if role, _ := c.Get("role"); role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var payments []models.Payment
	if err := pc.DB.Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All payments", payments)
}

// GetPaymentByID -> admin detail view, raw gateway payloads included.
func (pc *PaymentController) GetPaymentByID(c *gin.Context) {
	if role, _ := c.Get("role"); role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var payment models.Payment
	if err := pc.DB.Where("id = ?", c.Param("payment_id")).First(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

// respondPaymentError maps the payment service's error taxonomy onto the
// HTTP surface: InvalidRequest/GatewayRejected -> 400, NotFound -> 404,
// NotConfigured -> 500, Unreachable -> 502.
func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrGatewayRejected):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrPaymentNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrGatewayNotConfigured):
		utils.RespondError(c, http.StatusInternalServerError, err)
	case errors.Is(err, services.ErrGatewayUnreachable):
		utils.RespondError(c, http.StatusBadGateway, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
