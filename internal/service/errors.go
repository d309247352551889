package service

import "errors"

var (
	// Entry-state failures, fatal to the attempt.
	ErrDraftNotFound = errors.New("booking information not found")
	ErrDraftInvalid  = errors.New("booking data invalid")

	ErrAttemptNotFound = errors.New("checkout attempt not found")

	// ErrUnauthenticated means no {token, user} pair was available at
	// confirm time. The attempt stays in storage so the user can resume
	// after logging in.
	ErrUnauthenticated = errors.New("authentication required for payment")

	// ErrConfirmationFailed covers transport and server errors on a
	// direct-method confirm. Recoverable; the user may retry or switch
	// method. Never retried automatically.
	ErrConfirmationFailed = errors.New("payment confirmation failed")

	// ErrRenderFailed means the QR image could not be generated. The
	// attempt stays in method selection.
	ErrRenderFailed = errors.New("failed to generate payment qr code")

	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrInvalidState      = errors.New("operation not allowed in current checkout state")

	ErrPaymentDataNotFound = errors.New("payment information not found")
)
