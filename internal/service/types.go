package service

import (
	"github.com/shopspring/decimal"

	"github.com/rinday2005/cinema-checkout/internal/domain"
)

type CreateDraftOutput struct {
	SessionID string               `json:"session_id"`
	State     domain.CheckoutState `json:"state"`
}

type PaymentViewOutput struct {
	Draft  *domain.BookingDraft `json:"draft"`
	State  domain.CheckoutState `json:"state"`
	Method domain.PaymentMethod `json:"method"`
}

// QRRequest is a generated wallet transfer intent. OrderRef is unique
// per generation and never reused across retries.
type QRRequest struct {
	Payload  string          `json:"payload"`
	OrderRef string          `json:"order_ref"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

type QRView struct {
	Payload  string `json:"payload"`
	OrderRef string `json:"order_ref"`
	Image    []byte `json:"image,omitempty"`
}

type SubmitOutput struct {
	State domain.CheckoutState `json:"state"`
	// Record is set when a direct method confirmed synchronously.
	Record *domain.PaymentRecord `json:"record,omitempty"`
	// QR is set when a QR-based method moved to external payment.
	QR *QRView `json:"qr,omitempty"`
}

type AssertPaidOutput struct {
	State  domain.CheckoutState  `json:"state"`
	Record *domain.PaymentRecord `json:"record"`
}

// BackgroundResult reports the outcome of the detached confirmation
// fired by the optimistic flow. It exists for monitoring only; nothing
// in the user-facing path consumes it.
type BackgroundResult struct {
	SessionID     string
	TransactionID string
	BookingID     string
	Err           error
}

type TicketOutput struct {
	Ticket    *domain.TicketViewModel `json:"ticket"`
	QRPayload string                  `json:"qr_payload"`
	QRImage   []byte                  `json:"qr_image,omitempty"`
}

type TicketFile struct {
	Name    string
	Content []byte
}
