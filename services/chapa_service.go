package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultChapaBaseURL = "https://api.chapa.co/v1"

// ChapaConfig holds the gateway credentials and endpoint.
type ChapaConfig struct {
	SecretKey string
	BaseURL   string
}

// ChapaService talks to the Chapa hosted-checkout API. All calls are
// synchronous with a fixed 30 second timeout and no retries; a timeout is
// surfaced to the caller immediately.
type ChapaService struct {
	config *ChapaConfig
	client *resty.Client
}

func NewChapaService(cfg *ChapaConfig) *ChapaService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultChapaBaseURL
	}
	return &ChapaService{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// IsConfigured reports whether the gateway credential is present. Both
// payment operations are disabled without it.
func (cs *ChapaService) IsConfigured() bool {
	return cs.config.SecretKey != ""
}

// ChapaInitRequest is the payload for Chapa's initialize endpoint. Chapa
// expects the amount as a string.
type ChapaInitRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url,omitempty"`
}

type chapaInitPayload struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
		ID          string `json:"id"`
	} `json:"data"`
}

type chapaVerifyPayload struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

// ChapaInitResult is the parsed outcome of an initialize call together with
// the verbatim response body kept for the audit trail.
type ChapaInitResult struct {
	HTTPStatus    int
	Raw           json.RawMessage
	Status        bool
	Message       string
	CheckoutURL   string
	TransactionID string
}

// Accepted reports whether the gateway actually created the transaction.
func (r *ChapaInitResult) Accepted() bool {
	return r.HTTPStatus < 400 && r.Status
}

// ChapaVerifyResult is the parsed outcome of a verify call plus the raw body.
type ChapaVerifyResult struct {
	HTTPStatus    int
	Raw           json.RawMessage
	Status        bool
	Message       string
	PaymentStatus string
}

// Succeeded normalizes Chapa's inconsistent status vocabulary: the call is a
// payment success iff the top-level flag is set and the nested status string
// is one of the known success spellings. Anything else, including "pending",
// counts as not successful.
func (r *ChapaVerifyResult) Succeeded() bool {
	if r.HTTPStatus >= 400 || !r.Status {
		return false
	}
	switch strings.ToLower(r.PaymentStatus) {
	case "success", "successful", "completed", "paid":
		return true
	}
	return false
}

// InitializeTransaction creates a hosted-checkout transaction. A non-nil
// error means the gateway could not be reached at all; gateway-side
// rejections come back as a result with Accepted() == false.
func (cs *ChapaService) InitializeTransaction(req ChapaInitRequest) (*ChapaInitResult, error) {
	resp, err := cs.client.R().
		SetAuthToken(cs.config.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(cs.config.BaseURL + "/transaction/initialize")
	if err != nil {
		return nil, fmt.Errorf("chapa initialize: %w", err)
	}

	body := resp.Body()
	var payload chapaInitPayload
	if uerr := json.Unmarshal(body, &payload); uerr != nil && len(body) > 0 {
		// Keep the body for audit even when it is not the shape we expect.
		return &ChapaInitResult{HTTPStatus: resp.StatusCode(), Raw: body}, nil
	}

	return &ChapaInitResult{
		HTTPStatus:    resp.StatusCode(),
		Raw:           body,
		Status:        payload.Status,
		Message:       payload.Message,
		CheckoutURL:   payload.Data.CheckoutURL,
		TransactionID: payload.Data.ID,
	}, nil
}

// VerifyTransaction asks the gateway for the current state of a transaction
// previously created with InitializeTransaction.
func (cs *ChapaService) VerifyTransaction(txRef string) (*ChapaVerifyResult, error) {
	resp, err := cs.client.R().
		SetAuthToken(cs.config.SecretKey).
		Get(fmt.Sprintf("%s/transaction/verify/%s", cs.config.BaseURL, txRef))
	if err != nil {
		return nil, fmt.Errorf("chapa verify: %w", err)
	}

	body := resp.Body()
	var payload chapaVerifyPayload
	if uerr := json.Unmarshal(body, &payload); uerr != nil && len(body) > 0 {
		return &ChapaVerifyResult{HTTPStatus: resp.StatusCode(), Raw: body}, nil
	}

	return &ChapaVerifyResult{
		HTTPStatus:    resp.StatusCode(),
		Raw:           body,
		Status:        payload.Status,
		Message:       payload.Message,
		PaymentStatus: payload.Data.Status,
	}, nil
}
