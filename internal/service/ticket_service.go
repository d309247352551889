package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rinday2005/cinema-checkout/internal/domain"
	repository "github.com/rinday2005/cinema-checkout/internal/repository/redis"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
	"github.com/rinday2005/cinema-checkout/pkg/qr"
	"github.com/rinday2005/cinema-checkout/pkg/util"
)

const ticketRule = "═══════════════════════════════════"

// TicketService serves the confirmed ticket view and the session
// teardown operations around it.
type TicketService interface {
	GetTicket(ctx context.Context, sessionID string) (*TicketOutput, error)
	DownloadTicket(ctx context.Context, sessionID string) (*TicketFile, error)
	BackToPayment(ctx context.Context, sessionID string) error
	Dismiss(ctx context.Context, sessionID string) error
}

type ticketService struct {
	l           logger.Logger
	relayRepo   repository.RelayRepository
	attemptRepo repository.AttemptRepository
	renderer    qr.Renderer
}

func NewTicketService(
	relayRepo repository.RelayRepository,
	attemptRepo repository.AttemptRepository,
	renderer qr.Renderer,
	l logger.Logger,
) TicketService {
	return &ticketService{
		l:           l,
		relayRepo:   relayRepo,
		attemptRepo: attemptRepo,
		renderer:    renderer,
	}
}

// GetTicket renders the ticket for a confirmed session. A missing QR
// image is tolerated; a missing record is not.
func (s *ticketService) GetTicket(ctx context.Context, sessionID string) (*TicketOutput, error) {
	record, err := s.getRecord(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	vm := AssembleTicket(record)

	payload, err := VenueQRPayload(vm)
	if err != nil {
		s.l.Errorf(ctx, "ticketService.GetTicket: venue payload: %v", err)
		return nil, err
	}

	img, err := s.renderer.Render(payload)
	if err != nil {
		s.l.Warnf(ctx, "ticketService.GetTicket: render: %v", err)
		img = nil
	}

	return &TicketOutput{
		Ticket:    vm,
		QRPayload: payload,
		QRImage:   img,
	}, nil
}

// DownloadTicket returns the ticket as a plain-text attachment.
func (s *ticketService) DownloadTicket(ctx context.Context, sessionID string) (*TicketFile, error) {
	record, err := s.getRecord(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	vm := AssembleTicket(record)

	return &TicketFile{
		Name:    "ticket-" + vm.TransactionID + ".txt",
		Content: []byte(TicketText(vm)),
	}, nil
}

// BackToPayment restores the draft from the confirmed record and
// restarts the attempt, so the payment view can be entered again as if
// freshly handed off.
func (s *ticketService) BackToPayment(ctx context.Context, sessionID string) error {
	record, err := s.getRecord(ctx, sessionID)
	if err != nil {
		return err
	}

	draft := record.Draft()
	if err := s.relayRepo.Put(ctx, sessionID, repository.KeyBookingData, &draft); err != nil {
		return err
	}

	attempt := &domain.Attempt{
		SessionID: sessionID,
		State:     domain.StateAwaitingDraft,
		Method:    domain.PaymentMethodMomo,
		CreatedAt: time.Now(),
	}
	return s.attemptRepo.Save(ctx, attempt)
}

// Dismiss tears the whole session down. Dismissing an already empty
// session is a no-op.
func (s *ticketService) Dismiss(ctx context.Context, sessionID string) error {
	if err := s.relayRepo.Remove(ctx, sessionID, repository.KeyBookingData); err != nil {
		return err
	}
	if err := s.relayRepo.Remove(ctx, sessionID, repository.KeyPaymentData); err != nil {
		return err
	}
	return s.attemptRepo.Delete(ctx, sessionID)
}

func (s *ticketService) getRecord(ctx context.Context, sessionID string) (*domain.PaymentRecord, error) {
	var record domain.PaymentRecord
	if err := s.relayRepo.Get(ctx, sessionID, repository.KeyPaymentData, &record); err != nil {
		switch err {
		case repository.ErrRelayNotFound, repository.ErrRelayCorrupt:
			return nil, ErrPaymentDataNotFound
		default:
			return nil, err
		}
	}
	return &record, nil
}

// AssembleTicket derives the ticket view from a confirmed record.
func AssembleTicket(record *domain.PaymentRecord) *domain.TicketViewModel {
	combos := record.SelectedCombos
	if combos == nil {
		combos = []domain.Combo{}
	}

	return &domain.TicketViewModel{
		TransactionID: record.TransactionID,
		PaymentMethod: record.PaymentMethod,
		MovieTitle:    record.MovieTitle,
		MoviePoster:   record.MoviePoster,
		SystemName:    record.SystemName,
		ClusterName:   record.ClusterName,
		HallName:      record.HallName,
		Date:          record.Date,
		StartTime:     record.StartTime,
		EndTime:       record.EndTime,
		Seats:         record.SeatNumbers(),
		Combos:        combos,
		Total:         record.Total,
	}
}

// VenueQRPayload builds the JSON scanned at the cinema gate.
func VenueQRPayload(vm *domain.TicketViewModel) (string, error) {
	payload := domain.VenueQRPayload{
		ID:      vm.TransactionID,
		Movie:   vm.MovieTitle,
		System:  vm.SystemName,
		Cluster: vm.ClusterName,
		Hall:    vm.HallName,
		Date:    vm.Date,
		Time:    vm.StartTime,
		Seats:   strings.Join(vm.Seats, ", "),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TicketText renders the downloadable plain-text ticket.
func TicketText(vm *domain.TicketViewModel) string {
	lines := []string{
		"🎬 CINEMA TICKET",
		ticketRule,
		"Movie: " + vm.MovieTitle,
		"System: " + vm.SystemName,
		"Cluster: " + vm.ClusterName,
		"Hall: " + vm.HallName,
		"Date: " + vm.Date,
		"Time: " + vm.StartTime + " - " + vm.EndTime,
		"Seats: " + strings.Join(vm.Seats, ", "),
		"Total: " + util.FormatVND(vm.Total),
		"Payment: " + strings.ToUpper(string(vm.PaymentMethod)),
		"Transaction ID: " + vm.TransactionID,
		ticketRule,
	}
	return strings.Join(lines, "\n")
}
