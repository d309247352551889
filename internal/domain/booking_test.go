package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() BookingDraft {
	return BookingDraft{
		LockID:         "lock-1",
		MovieTitle:     "Inception",
		SelectedSeats:  []Seat{{SeatNumber: "A1"}, {SeatNumber: "A2"}},
		SelectedCombos: []Combo{{Name: "Combo 1", Quantity: 2}},
		Total:          150000,
	}
}

func TestPaymentRecord_MarshalsFlat(t *testing.T) {
	record := PaymentRecord{
		BookingDraft:  sampleDraft(),
		TransactionID: "TXN_1",
		PaymentMethod: PaymentMethodMomo,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var flat map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &flat))

	// Draft fields sit next to the payment fields, not nested under a
	// sub-object.
	assert.Contains(t, flat, "lockId")
	assert.Contains(t, flat, "movieTitle")
	assert.Contains(t, flat, "transactionId")
	assert.Contains(t, flat, "paymentMethod")
	assert.NotContains(t, flat, "BookingDraft")
}

func TestPaymentRecord_DraftRoundTrip(t *testing.T) {
	original := sampleDraft()
	record := PaymentRecord{
		BookingDraft:  original,
		TransactionID: "TXN_1",
		PaymentMethod: PaymentMethodVNPay,
	}

	restored := record.Draft()
	assert.Equal(t, original, restored)
}

func TestPaymentRecord_DraftRestoresEmptyCombos(t *testing.T) {
	draft := sampleDraft()
	draft.SelectedCombos = nil
	record := PaymentRecord{BookingDraft: draft, TransactionID: "TXN_1"}

	restored := record.Draft()
	assert.NotNil(t, restored.SelectedCombos)
	assert.Empty(t, restored.SelectedCombos)
}

func TestBookingDraft_Validate(t *testing.T) {
	draft := sampleDraft()
	assert.NoError(t, draft.Validate())

	draft.SelectedSeats = nil
	assert.ErrorIs(t, draft.Validate(), ErrDraftNoSeats)

	draft = sampleDraft()
	draft.Total = -1
	assert.ErrorIs(t, draft.Validate(), ErrDraftNegativeTotal)
}

func TestPaymentMethod_QRBased(t *testing.T) {
	assert.True(t, PaymentMethodMomo.IsQRBased())
	assert.False(t, PaymentMethodVNPay.IsQRBased())
	assert.False(t, PaymentMethodVisa.IsQRBased())
}
