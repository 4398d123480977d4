package services

import "errors"

var (
	// ErrInvalidRequest means the caller's input is malformed; nothing was
	// persisted and the request should not be retried as-is.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrGatewayNotConfigured means the Chapa secret key is missing from the
	// environment. Operator action required.
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

	// ErrPaymentNotFound means no ledger row matches the given tx_ref.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrGatewayRejected means the gateway explicitly declined the
	// transaction; the attempt was recorded as Failed.
	ErrGatewayRejected = errors.New("payment gateway rejected the transaction")

	// ErrGatewayUnreachable means the gateway could not be reached (network
	// error or timeout).
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")
)
