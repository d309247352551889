package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinday2005/cinema-checkout/internal/domain"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

func setupRelayRepo(t *testing.T) (RelayRepository, redismock.ClientMock) {
	t.Helper()
	db, redisMock := redismock.NewClientMock()
	repo := NewRedisRelayRepository(db, 2*time.Hour, logger.InitializeTestZapLogger())
	return repo, redisMock
}

func testDraft() *domain.BookingDraft {
	return &domain.BookingDraft{
		LockID:         "lock-1",
		MovieTitle:     "Inception",
		SystemName:     "CGV",
		ClusterName:    "CGV Vincom",
		HallName:       "Hall 3",
		Date:           "2026-01-15",
		StartTime:      "19:00",
		EndTime:        "21:30",
		SelectedSeats:  []domain.Seat{{SeatNumber: "A1"}, {SeatNumber: "A2"}},
		SelectedCombos: []domain.Combo{},
		Total:          150000,
	}
}

func TestRelayRepository_PutAndGet(t *testing.T) {
	repo, redisMock := setupRelayRepo(t)
	defer redisMock.ClearExpect()

	ctx := context.Background()
	draft := testDraft()

	data, err := json.Marshal(draft)
	require.NoError(t, err)

	redisMock.ExpectSet("checkout:relay:sess-1:bookingData", data, 2*time.Hour).SetVal("OK")
	require.NoError(t, repo.Put(ctx, "sess-1", KeyBookingData, draft))

	redisMock.ExpectGet("checkout:relay:sess-1:bookingData").SetVal(string(data))

	var got domain.BookingDraft
	require.NoError(t, repo.Get(ctx, "sess-1", KeyBookingData, &got))
	assert.Equal(t, *draft, got)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRelayRepository_GetMissing(t *testing.T) {
	repo, redisMock := setupRelayRepo(t)
	defer redisMock.ClearExpect()

	redisMock.ExpectGet("checkout:relay:sess-1:bookingData").RedisNil()

	var got domain.BookingDraft
	err := repo.Get(context.Background(), "sess-1", KeyBookingData, &got)
	assert.ErrorIs(t, err, ErrRelayNotFound)
}

func TestRelayRepository_GetCorrupt(t *testing.T) {
	repo, redisMock := setupRelayRepo(t)
	defer redisMock.ClearExpect()

	redisMock.ExpectGet("checkout:relay:sess-1:bookingData").SetVal("{not json")

	var got domain.BookingDraft
	err := repo.Get(context.Background(), "sess-1", KeyBookingData, &got)
	assert.ErrorIs(t, err, ErrRelayCorrupt)
}

func TestRelayRepository_RemoveAbsentIsNoop(t *testing.T) {
	repo, redisMock := setupRelayRepo(t)
	defer redisMock.ClearExpect()

	redisMock.ExpectDel("checkout:relay:sess-1:paymentData").SetVal(0)

	assert.NoError(t, repo.Remove(context.Background(), "sess-1", KeyPaymentData))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestAttemptRepository_SaveAndGet(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	defer redisMock.ClearExpect()
	repo := NewRedisAttemptRepository(db, 2*time.Hour, logger.InitializeTestZapLogger())

	ctx := context.Background()
	attempt := &domain.Attempt{
		SessionID: "sess-1",
		State:     domain.StateMethodSelected,
		Method:    domain.PaymentMethodMomo,
		CreatedAt: time.Now(),
	}

	redisMock.CustomMatch(func(expected, actual []interface{}) error {
		return nil
	}).ExpectSet("checkout:attempt:sess-1", attempt, 2*time.Hour).SetVal("OK")
	require.NoError(t, repo.Save(ctx, attempt))

	data, err := json.Marshal(attempt)
	require.NoError(t, err)
	redisMock.ExpectGet("checkout:attempt:sess-1").SetVal(string(data))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, attempt.State, got.State)
	assert.Equal(t, attempt.Method, got.Method)
}

func TestAttemptRepository_GetMissing(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	defer redisMock.ClearExpect()
	repo := NewRedisAttemptRepository(db, 2*time.Hour, logger.InitializeTestZapLogger())

	redisMock.ExpectGet("checkout:attempt:missing").RedisNil()

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}
