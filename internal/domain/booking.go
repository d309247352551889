package domain

import "errors"

type PaymentMethod string

const (
	PaymentMethodMomo  PaymentMethod = "momo"
	PaymentMethodVNPay PaymentMethod = "vnpay"
	PaymentMethodVisa  PaymentMethod = "visa"
)

// IsQRBased reports whether the method pays through a scanned wallet QR
// instead of a synchronous confirmation on submit.
func (m PaymentMethod) IsQRBased() bool {
	return m == PaymentMethodMomo
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodMomo, PaymentMethodVNPay, PaymentMethodVisa:
		return true
	}
	return false
}

type Seat struct {
	SeatNumber string `json:"seatNumber" validate:"required"`
}

type Combo struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// BookingDraft is the client-held selection handed over from the seat
// selection step. Total is the price the booking backend is expected to
// charge, in whole dong; the checkout never recomputes it.
type BookingDraft struct {
	LockID         string  `json:"lockId" validate:"required"`
	MovieTitle     string  `json:"movieTitle" validate:"required"`
	MoviePoster    string  `json:"moviePoster"`
	SystemName     string  `json:"systemName"`
	ClusterName    string  `json:"clusterName"`
	HallName       string  `json:"hallName"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	SelectedSeats  []Seat  `json:"selectedSeats" validate:"required,min=1,dive"`
	SelectedCombos []Combo `json:"selectedCombos"`
	Total          int64   `json:"total" validate:"gte=0"`
	CinemaID       string  `json:"cinemaId"`
	SystemID       string  `json:"systemId"`
}

var (
	ErrDraftNoSeats       = errors.New("draft has no selected seats")
	ErrDraftNegativeTotal = errors.New("draft total is negative")
)

func (d *BookingDraft) Validate() error {
	if len(d.SelectedSeats) == 0 {
		return ErrDraftNoSeats
	}
	if d.Total < 0 {
		return ErrDraftNegativeTotal
	}
	return nil
}

// SeatNumbers returns the selected seat numbers in selection order.
func (d *BookingDraft) SeatNumbers() []string {
	nums := make([]string, 0, len(d.SelectedSeats))
	for _, s := range d.SelectedSeats {
		nums = append(nums, s.SeatNumber)
	}
	return nums
}

// PaymentRecord is the draft plus the outcome of a confirmation attempt.
// TransactionID is either the backend booking id or a locally generated
// placeholder for the optimistic flow; consumers must not assume it was
// server-validated.
type PaymentRecord struct {
	BookingDraft
	TransactionID string        `json:"transactionId"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Draft restores the original draft shape from a record, dropping
// transactionId and paymentMethod. SelectedCombos never comes back nil.
func (r *PaymentRecord) Draft() BookingDraft {
	d := r.BookingDraft
	if d.SelectedCombos == nil {
		d.SelectedCombos = []Combo{}
	}
	return d
}
