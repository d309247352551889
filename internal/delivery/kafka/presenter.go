package kafka

import (
	"time"

	"github.com/rinday2005/cinema-checkout/internal/domain"
)

// Events published BY the checkout service.

// CheckoutConfirmedEvent fires when a session reaches the confirmed
// state. Provisional marks the optimistic path, where the ticket was
// shown before the backend acknowledged anything.
type CheckoutConfirmedEvent struct {
	SessionID     string               `json:"session_id"`
	TransactionID string               `json:"transaction_id"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Total         int64                `json:"total"`
	Provisional   bool                 `json:"provisional"`
	Timestamp     time.Time            `json:"timestamp"`
}

// ConfirmationRecordedEvent fires when the detached background call
// lands a real booking id for an optimistically confirmed session.
type ConfirmationRecordedEvent struct {
	SessionID     string               `json:"session_id"`
	BookingID     string               `json:"booking_id"`
	TransactionID string               `json:"transaction_id"` // the placeholder shown to the user
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Timestamp     time.Time            `json:"timestamp"`
}

// ConfirmationFailedEvent fires when the detached background call
// fails. The user is never told; this event and the log are the only
// observers.
type ConfirmationFailedEvent struct {
	SessionID     string               `json:"session_id"`
	TransactionID string               `json:"transaction_id"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Reason        string               `json:"reason"`
	Timestamp     time.Time            `json:"timestamp"`
}
