package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinday2005/cinema-checkout/internal/domain"
	repository "github.com/rinday2005/cinema-checkout/internal/repository/redis"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(payload string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png:" + payload), nil
}

type ticketFixture struct {
	svc      TicketService
	relay    *fakeRelayRepo
	attempts *fakeAttemptRepo
	renderer *fakeRenderer
}

func setupTicket(t *testing.T) *ticketFixture {
	t.Helper()
	fx := &ticketFixture{
		relay:    newFakeRelayRepo(),
		attempts: newFakeAttemptRepo(),
		renderer: &fakeRenderer{},
	}
	fx.svc = NewTicketService(fx.relay, fx.attempts, fx.renderer, logger.InitializeTestZapLogger())
	return fx
}

func testRecord() *domain.PaymentRecord {
	return &domain.PaymentRecord{
		BookingDraft:  *testDraft(),
		TransactionID: "TXN_1757000000000_A1B2",
		PaymentMethod: domain.PaymentMethodMomo,
	}
}

func (fx *ticketFixture) seedRecord(t *testing.T, sessionID string, record *domain.PaymentRecord) {
	t.Helper()
	require.NoError(t, fx.relay.Put(context.Background(), sessionID, repository.KeyPaymentData, record))
}

func TestGetTicket_AssemblesViewModel(t *testing.T) {
	fx := setupTicket(t)
	fx.seedRecord(t, "sess-1", testRecord())

	out, err := fx.svc.GetTicket(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "TXN_1757000000000_A1B2", out.Ticket.TransactionID)
	assert.Equal(t, []string{"A1", "A2"}, out.Ticket.Seats)
	assert.Equal(t, int64(150000), out.Ticket.Total)
	assert.NotEmpty(t, out.QRImage)

	var payload domain.VenueQRPayload
	require.NoError(t, json.Unmarshal([]byte(out.QRPayload), &payload))
	assert.Equal(t, "TXN_1757000000000_A1B2", payload.ID)
	assert.Equal(t, "Inception", payload.Movie)
	assert.Equal(t, "A1, A2", payload.Seats)
	assert.Equal(t, "19:00", payload.Time)
}

func TestGetTicket_MissingRecord(t *testing.T) {
	fx := setupTicket(t)

	_, err := fx.svc.GetTicket(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrPaymentDataNotFound)
}

func TestGetTicket_ToleratesRenderFailure(t *testing.T) {
	fx := setupTicket(t)
	fx.renderer.err = errors.New("encoder broke")
	fx.seedRecord(t, "sess-1", testRecord())

	out, err := fx.svc.GetTicket(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, out.QRImage)
	assert.NotEmpty(t, out.QRPayload)
}

func TestDownloadTicket_TextFormat(t *testing.T) {
	fx := setupTicket(t)
	fx.seedRecord(t, "sess-1", testRecord())

	file, err := fx.svc.DownloadTicket(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "ticket-TXN_1757000000000_A1B2.txt", file.Name)

	text := string(file.Content)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "🎬 CINEMA TICKET", lines[0])
	assert.Equal(t, "Movie: Inception", lines[2])
	assert.Equal(t, "System: CGV", lines[3])
	assert.Equal(t, "Cluster: CGV Vincom", lines[4])
	assert.Equal(t, "Hall: Hall 3", lines[5])
	assert.Equal(t, "Date: 2026-01-15", lines[6])
	assert.Equal(t, "Time: 19:00 - 21:30", lines[7])
	assert.Equal(t, "Seats: A1, A2", lines[8])
	assert.Equal(t, "Total: 150.000₫", lines[9])
	assert.Equal(t, "Payment: MOMO", lines[10])
	assert.Equal(t, "Transaction ID: TXN_1757000000000_A1B2", lines[11])

	assert.Equal(t, 1, strings.Count(text, "150.000₫"))
	assert.Equal(t, 1, strings.Count(text, "Seats: A1, A2"))
}

func TestBackToPayment_RestoresDraftRoundTrip(t *testing.T) {
	fx := setupTicket(t)
	record := testRecord()
	record.SelectedCombos = nil
	fx.seedRecord(t, "sess-1", record)

	require.NoError(t, fx.svc.BackToPayment(context.Background(), "sess-1"))

	var restored domain.BookingDraft
	require.NoError(t, fx.relay.Get(context.Background(), "sess-1", repository.KeyBookingData, &restored))

	want := *testDraft()
	assert.Equal(t, want, restored)
	assert.NotNil(t, restored.SelectedCombos)

	attempt, err := fx.attempts.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingDraft, attempt.State)
	assert.Equal(t, domain.PaymentMethodMomo, attempt.Method)
}

func TestDismiss_PurgesEverything(t *testing.T) {
	fx := setupTicket(t)
	fx.seedRecord(t, "sess-1", testRecord())
	require.NoError(t, fx.attempts.Save(context.Background(), &domain.Attempt{
		SessionID: "sess-1",
		State:     domain.StateConfirmed,
	}))

	require.NoError(t, fx.svc.Dismiss(context.Background(), "sess-1"))

	assert.False(t, fx.relay.has("sess-1", repository.KeyPaymentData))
	assert.False(t, fx.relay.has("sess-1", repository.KeyBookingData))
	_, err := fx.attempts.Get(context.Background(), "sess-1")
	assert.ErrorIs(t, err, repository.ErrAttemptNotFound)

	// Dismissing again is harmless.
	assert.NoError(t, fx.svc.Dismiss(context.Background(), "sess-1"))
}

func TestAssembleTicket_NilCombos(t *testing.T) {
	record := testRecord()
	record.SelectedCombos = nil

	vm := AssembleTicket(record)
	assert.NotNil(t, vm.Combos)
	assert.Empty(t, vm.Combos)
}
