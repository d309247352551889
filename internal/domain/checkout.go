package domain

import "time"

type CheckoutState string

const (
	StateAwaitingDraft           CheckoutState = "awaiting_draft"
	StateMethodSelected          CheckoutState = "method_selected"
	StateConfirming              CheckoutState = "confirming"
	StateAwaitingExternalPayment CheckoutState = "awaiting_external_payment"
	StateConfirmed               CheckoutState = "confirmed"
	StateAborted                 CheckoutState = "aborted"
)

// Attempt is one pass through the checkout for a single session. It is
// the persisted form of the payment view's state machine.
type Attempt struct {
	SessionID string        `json:"session_id"`
	State     CheckoutState `json:"state"`
	Method    PaymentMethod `json:"method"`
	QRPayload string        `json:"qr_payload,omitempty"`
	OrderRef  string        `json:"order_ref,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (a *Attempt) IsTerminal() bool {
	return a.State == StateConfirmed || a.State == StateAborted
}

// InFlight reports whether a confirmation is unresolved; submits are
// gated while this holds.
func (a *Attempt) InFlight() bool {
	return a.State == StateConfirming || a.State == StateAwaitingExternalPayment
}

func (a *Attempt) CanSubmit() bool {
	return a.State == StateMethodSelected
}

func (a *Attempt) CanSelectMethod() bool {
	return a.State == StateMethodSelected || a.State == StateAwaitingDraft
}
