package service

import (
	"context"
	"fmt"

	"github.com/rinday2005/cinema-checkout/internal/clients/booking"
	"github.com/rinday2005/cinema-checkout/internal/domain"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

// ConfirmationService performs a single confirmation call against the
// booking backend. One invocation, one call: it never retries, and it
// fails before touching the network when no identity is present.
type ConfirmationService interface {
	Confirm(ctx context.Context, id domain.Identity, draft *domain.BookingDraft, method domain.PaymentMethod) (string, error)
}

type confirmationService struct {
	l      logger.Logger
	client booking.Client
}

func NewConfirmationService(client booking.Client, l logger.Logger) ConfirmationService {
	return &confirmationService{
		l:      l,
		client: client,
	}
}

// Confirm asks the booking backend to convert the seat lock into a
// booking and returns the backend booking id.
func (s *confirmationService) Confirm(ctx context.Context, id domain.Identity, draft *domain.BookingDraft, method domain.PaymentMethod) (string, error) {
	if !id.Valid() {
		return "", ErrUnauthenticated
	}

	req := &booking.ConfirmRequest{
		LockID: draft.LockID,
		UserID: id.UserID,
		BookingData: booking.BookingData{
			UserEmail:      id.Email,
			MovieTitle:     draft.MovieTitle,
			MoviePoster:    draft.MoviePoster,
			SystemName:     draft.SystemName,
			ClusterName:    draft.ClusterName,
			HallName:       draft.HallName,
			Date:           draft.Date,
			StartTime:      draft.StartTime,
			EndTime:        draft.EndTime,
			SelectedSeats:  draft.SelectedSeats,
			SelectedCombos: draft.SelectedCombos,
			Total:          draft.Total,
			PaymentMethod:  method,
			CinemaID:       draft.CinemaID,
			SystemID:       draft.SystemID,
		},
	}

	resp, err := s.client.ConfirmSeatLock(ctx, id.Token, req)
	if err != nil {
		s.l.Errorf(ctx, "confirmationService.Confirm: %v", err)
		return "", fmt.Errorf("%w: %v", ErrConfirmationFailed, err)
	}

	if resp.Booking.ID == "" {
		s.l.Errorf(ctx, "confirmationService.Confirm: response missing booking id")
		return "", fmt.Errorf("%w: response missing booking id", ErrConfirmationFailed)
	}

	return resp.Booking.ID, nil
}
