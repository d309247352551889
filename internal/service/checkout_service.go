package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rinday2005/cinema-checkout/internal/delivery/kafka"
	"github.com/rinday2005/cinema-checkout/internal/delivery/kafka/producer"
	"github.com/rinday2005/cinema-checkout/internal/domain"
	repository "github.com/rinday2005/cinema-checkout/internal/repository/redis"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
	"github.com/rinday2005/cinema-checkout/pkg/util"
)

// CheckoutService drives one checkout attempt per session through seat
// handoff, method selection and confirmation.
//
// Two confirmation shapes exist. Direct methods (vnpay, visa) confirm
// synchronously on submit. QR-based methods confirm optimistically: the
// user's own claim of payment flips the session to confirmed and the
// real backend call runs detached, with its outcome visible only in
// logs and events.
type CheckoutService interface {
	CreateDraft(ctx context.Context, draft *domain.BookingDraft) (*CreateDraftOutput, error)
	EnterPayment(ctx context.Context, sessionID string) (*PaymentViewOutput, error)
	SelectMethod(ctx context.Context, sessionID string, method domain.PaymentMethod) (*PaymentViewOutput, error)
	Submit(ctx context.Context, sessionID string, id domain.Identity) (*SubmitOutput, error)
	CancelQR(ctx context.Context, sessionID string) error
	AssertPaid(ctx context.Context, sessionID string, id domain.Identity) (*AssertPaidOutput, error)
}

type checkoutService struct {
	l           logger.Logger
	relayRepo   repository.RelayRepository
	attemptRepo repository.AttemptRepository
	confirmSvc  ConfirmationService
	qrSvc       QRService
	prod        producer.Producer

	// bgHook, when non-nil, receives the result of each detached
	// background confirmation after its events are published.
	bgHook func(BackgroundResult)
}

func NewCheckoutService(
	relayRepo repository.RelayRepository,
	attemptRepo repository.AttemptRepository,
	confirmSvc ConfirmationService,
	qrSvc QRService,
	prod producer.Producer,
	l logger.Logger,
	bgHook func(BackgroundResult),
) CheckoutService {
	return &checkoutService{
		l:           l,
		relayRepo:   relayRepo,
		attemptRepo: attemptRepo,
		confirmSvc:  confirmSvc,
		qrSvc:       qrSvc,
		prod:        prod,
		bgHook:      bgHook,
	}
}

// CreateDraft stores a seat-selection handoff and opens a new session.
func (s *checkoutService) CreateDraft(ctx context.Context, draft *domain.BookingDraft) (*CreateDraftOutput, error) {
	if err := draft.Validate(); err != nil {
		s.l.Warnf(ctx, "checkoutService.CreateDraft: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrDraftInvalid, err)
	}

	if draft.SelectedCombos == nil {
		draft.SelectedCombos = []domain.Combo{}
	}

	sessionID := uuid.New().String()

	if err := s.relayRepo.Put(ctx, sessionID, repository.KeyBookingData, draft); err != nil {
		return nil, err
	}

	attempt := &domain.Attempt{
		SessionID: sessionID,
		State:     domain.StateAwaitingDraft,
		Method:    domain.PaymentMethodMomo,
		CreatedAt: time.Now(),
	}
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, err
	}

	s.l.Infof(ctx, "checkout session %s opened for lock %s", sessionID, draft.LockID)

	return &CreateDraftOutput{
		SessionID: sessionID,
		State:     attempt.State,
	}, nil
}

// EnterPayment loads the draft for the payment view. A missing or
// unparseable draft aborts the attempt; there is no way back from
// either.
func (s *checkoutService) EnterPayment(ctx context.Context, sessionID string) (*PaymentViewOutput, error) {
	attempt, err := s.getAttempt(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var draft domain.BookingDraft
	if err := s.relayRepo.Get(ctx, sessionID, repository.KeyBookingData, &draft); err != nil {
		switch err {
		case repository.ErrRelayNotFound:
			s.abort(ctx, attempt)
			return nil, ErrDraftNotFound
		case repository.ErrRelayCorrupt:
			s.abort(ctx, attempt)
			return nil, ErrDraftInvalid
		default:
			return nil, err
		}
	}

	if attempt.State == domain.StateAwaitingDraft {
		attempt.State = domain.StateMethodSelected
		if !attempt.Method.Valid() {
			attempt.Method = domain.PaymentMethodMomo
		}
		if err := s.attemptRepo.Save(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return &PaymentViewOutput{
		Draft:  &draft,
		State:  attempt.State,
		Method: attempt.Method,
	}, nil
}

// SelectMethod switches the pending method. Re-selecting the current
// method is a no-op; switching is refused while a confirmation is in
// flight or after the attempt ended.
func (s *checkoutService) SelectMethod(ctx context.Context, sessionID string, method domain.PaymentMethod) (*PaymentViewOutput, error) {
	if !method.Valid() {
		return nil, ErrUnsupportedMethod
	}

	attempt, err := s.getAttempt(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if attempt.Method == method {
		return &PaymentViewOutput{State: attempt.State, Method: attempt.Method}, nil
	}

	if !attempt.CanSelectMethod() {
		return nil, ErrInvalidState
	}

	attempt.Method = method
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, err
	}

	return &PaymentViewOutput{State: attempt.State, Method: attempt.Method}, nil
}

// Submit runs the selected method's confirmation shape. A submit while
// a confirmation is already in flight is ignored and returns the
// current state untouched.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, id domain.Identity) (*SubmitOutput, error) {
	attempt, err := s.getAttempt(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if attempt.InFlight() {
		s.l.Debugf(ctx, "checkoutService.Submit: session %s already in flight, ignoring", sessionID)
		out := &SubmitOutput{State: attempt.State}
		if attempt.QRPayload != "" {
			out.QR = &QRView{Payload: attempt.QRPayload, OrderRef: attempt.OrderRef}
		}
		return out, nil
	}

	if !attempt.CanSubmit() {
		return nil, ErrInvalidState
	}

	var draft domain.BookingDraft
	if err := s.relayRepo.Get(ctx, sessionID, repository.KeyBookingData, &draft); err != nil {
		switch err {
		case repository.ErrRelayNotFound:
			s.abort(ctx, attempt)
			return nil, ErrDraftNotFound
		case repository.ErrRelayCorrupt:
			s.abort(ctx, attempt)
			return nil, ErrDraftInvalid
		default:
			return nil, err
		}
	}

	if attempt.Method.IsQRBased() {
		return s.submitQR(ctx, attempt, &draft)
	}
	return s.submitDirect(ctx, attempt, &draft, id)
}

func (s *checkoutService) submitQR(ctx context.Context, attempt *domain.Attempt, draft *domain.BookingDraft) (*SubmitOutput, error) {
	note := "Thanh toán vé xem phim - " + draft.MovieTitle

	req, err := s.qrSvc.GenerateRequest(ctx, draft.Total, note)
	if err != nil {
		return nil, err
	}

	img, err := s.qrSvc.Render(ctx, req.Payload)
	if err != nil {
		// Recoverable: the attempt stays in method selection.
		return nil, err
	}

	attempt.State = domain.StateAwaitingExternalPayment
	attempt.QRPayload = req.Payload
	attempt.OrderRef = req.OrderRef
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, err
	}

	return &SubmitOutput{
		State: attempt.State,
		QR: &QRView{
			Payload:  req.Payload,
			OrderRef: req.OrderRef,
			Image:    img,
		},
	}, nil
}

func (s *checkoutService) submitDirect(ctx context.Context, attempt *domain.Attempt, draft *domain.BookingDraft, id domain.Identity) (*SubmitOutput, error) {
	attempt.State = domain.StateConfirming
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, err
	}

	bookingID, err := s.confirmSvc.Confirm(ctx, id, draft, attempt.Method)
	if err != nil {
		attempt.State = domain.StateMethodSelected
		if saveErr := s.attemptRepo.Save(ctx, attempt); saveErr != nil {
			s.l.Errorf(ctx, "checkoutService.submitDirect: restore state: %v", saveErr)
		}
		return nil, err
	}

	record := &domain.PaymentRecord{
		BookingDraft:  *draft,
		TransactionID: bookingID,
		PaymentMethod: attempt.Method,
	}
	if err := s.finishConfirmed(ctx, attempt, record); err != nil {
		return nil, err
	}

	s.publishConfirmed(ctx, attempt, record, false)

	return &SubmitOutput{
		State:  attempt.State,
		Record: record,
	}, nil
}

// CancelQR backs out of an external wallet payment before the user
// claims to have paid.
func (s *checkoutService) CancelQR(ctx context.Context, sessionID string) error {
	attempt, err := s.getAttempt(ctx, sessionID)
	if err != nil {
		return err
	}

	if attempt.State != domain.StateAwaitingExternalPayment {
		return ErrInvalidState
	}

	attempt.State = domain.StateMethodSelected
	attempt.QRPayload = ""
	attempt.OrderRef = ""
	return s.attemptRepo.Save(ctx, attempt)
}

// AssertPaid records the user's claim that the external wallet payment
// went through. The session confirms immediately with a placeholder
// transaction id; the real confirmation runs detached and its outcome
// never changes what the user sees.
func (s *checkoutService) AssertPaid(ctx context.Context, sessionID string, id domain.Identity) (*AssertPaidOutput, error) {
	attempt, err := s.getAttempt(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if attempt.State != domain.StateAwaitingExternalPayment {
		return nil, ErrInvalidState
	}

	var draft domain.BookingDraft
	if err := s.relayRepo.Get(ctx, sessionID, repository.KeyBookingData, &draft); err != nil {
		switch err {
		case repository.ErrRelayNotFound:
			s.abort(ctx, attempt)
			return nil, ErrDraftNotFound
		case repository.ErrRelayCorrupt:
			s.abort(ctx, attempt)
			return nil, ErrDraftInvalid
		default:
			return nil, err
		}
	}

	txnID, err := s.provisionalTransactionID()
	if err != nil {
		s.l.Errorf(ctx, "checkoutService.AssertPaid: %v", err)
		return nil, err
	}

	record := &domain.PaymentRecord{
		BookingDraft:  draft,
		TransactionID: txnID,
		PaymentMethod: attempt.Method,
	}

	attempt.QRPayload = ""
	attempt.OrderRef = ""
	if err := s.finishConfirmed(ctx, attempt, record); err != nil {
		return nil, err
	}

	s.publishConfirmed(ctx, attempt, record, true)

	// The detached confirmation outlives the request. Its failure is
	// observable only through the log, the events and the hook.
	bgCtx := context.WithoutCancel(ctx)
	go s.confirmInBackground(bgCtx, attempt.SessionID, id, draft, record)

	return &AssertPaidOutput{
		State:  attempt.State,
		Record: record,
	}, nil
}

func (s *checkoutService) confirmInBackground(ctx context.Context, sessionID string, id domain.Identity, draft domain.BookingDraft, record *domain.PaymentRecord) {
	bookingID, err := s.confirmSvc.Confirm(ctx, id, &draft, record.PaymentMethod)
	if err != nil {
		s.l.Errorf(ctx, "background confirmation failed for session %s: %v", sessionID, err)
		if pubErr := s.prod.PublishConfirmationFailed(ctx, kafka.ConfirmationFailedEvent{
			SessionID:     sessionID,
			TransactionID: record.TransactionID,
			PaymentMethod: record.PaymentMethod,
			Reason:        err.Error(),
		}); pubErr != nil {
			s.l.Errorf(ctx, "checkoutService.confirmInBackground: publish: %v", pubErr)
		}
	} else {
		s.l.Infof(ctx, "background confirmation recorded booking %s for session %s", bookingID, sessionID)
		if pubErr := s.prod.PublishConfirmationRecorded(ctx, kafka.ConfirmationRecordedEvent{
			SessionID:     sessionID,
			BookingID:     bookingID,
			TransactionID: record.TransactionID,
			PaymentMethod: record.PaymentMethod,
		}); pubErr != nil {
			s.l.Errorf(ctx, "checkoutService.confirmInBackground: publish: %v", pubErr)
		}
	}

	if s.bgHook != nil {
		s.bgHook(BackgroundResult{
			SessionID:     sessionID,
			TransactionID: record.TransactionID,
			BookingID:     bookingID,
			Err:           err,
		})
	}
}

// finishConfirmed swaps the relay from draft to record and marks the
// attempt confirmed.
func (s *checkoutService) finishConfirmed(ctx context.Context, attempt *domain.Attempt, record *domain.PaymentRecord) error {
	if err := s.relayRepo.Put(ctx, attempt.SessionID, repository.KeyPaymentData, record); err != nil {
		return err
	}
	if err := s.relayRepo.Remove(ctx, attempt.SessionID, repository.KeyBookingData); err != nil {
		s.l.Warnf(ctx, "checkoutService.finishConfirmed: remove draft: %v", err)
	}

	attempt.State = domain.StateConfirmed
	return s.attemptRepo.Save(ctx, attempt)
}

func (s *checkoutService) publishConfirmed(ctx context.Context, attempt *domain.Attempt, record *domain.PaymentRecord, provisional bool) {
	if err := s.prod.PublishCheckoutConfirmed(ctx, kafka.CheckoutConfirmedEvent{
		SessionID:     attempt.SessionID,
		TransactionID: record.TransactionID,
		PaymentMethod: record.PaymentMethod,
		Total:         record.Total,
		Provisional:   provisional,
	}); err != nil {
		s.l.Errorf(ctx, "checkoutService.publishConfirmed: %v", err)
	}
}

func (s *checkoutService) provisionalTransactionID() (string, error) {
	code, err := util.GenerateCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), code), nil
}

func (s *checkoutService) getAttempt(ctx context.Context, sessionID string) (*domain.Attempt, error) {
	attempt, err := s.attemptRepo.Get(ctx, sessionID)
	if err != nil {
		if err == repository.ErrAttemptNotFound {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

// abort marks the attempt dead. Failures here are logged and swallowed;
// the caller's error is the one that matters.
func (s *checkoutService) abort(ctx context.Context, attempt *domain.Attempt) {
	attempt.State = domain.StateAborted
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		s.l.Errorf(ctx, "checkoutService.abort: %v", err)
	}
}
