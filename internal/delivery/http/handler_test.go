package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinday2005/cinema-checkout/internal/domain"
	"github.com/rinday2005/cinema-checkout/internal/service"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

type stubCheckoutService struct {
	createDraft  func(ctx context.Context, draft *domain.BookingDraft) (*service.CreateDraftOutput, error)
	enterPayment func(ctx context.Context, sessionID string) (*service.PaymentViewOutput, error)
	submit       func(ctx context.Context, sessionID string, id domain.Identity) (*service.SubmitOutput, error)
}

func (s *stubCheckoutService) CreateDraft(ctx context.Context, draft *domain.BookingDraft) (*service.CreateDraftOutput, error) {
	return s.createDraft(ctx, draft)
}

func (s *stubCheckoutService) EnterPayment(ctx context.Context, sessionID string) (*service.PaymentViewOutput, error) {
	return s.enterPayment(ctx, sessionID)
}

func (s *stubCheckoutService) SelectMethod(ctx context.Context, sessionID string, method domain.PaymentMethod) (*service.PaymentViewOutput, error) {
	return &service.PaymentViewOutput{Method: method}, nil
}

func (s *stubCheckoutService) Submit(ctx context.Context, sessionID string, id domain.Identity) (*service.SubmitOutput, error) {
	return s.submit(ctx, sessionID, id)
}

func (s *stubCheckoutService) CancelQR(ctx context.Context, sessionID string) error {
	return nil
}

func (s *stubCheckoutService) AssertPaid(ctx context.Context, sessionID string, id domain.Identity) (*service.AssertPaidOutput, error) {
	return &service.AssertPaidOutput{State: domain.StateConfirmed}, nil
}

type stubTicketService struct {
	getTicket func(ctx context.Context, sessionID string) (*service.TicketOutput, error)
	download  func(ctx context.Context, sessionID string) (*service.TicketFile, error)
}

func (s *stubTicketService) GetTicket(ctx context.Context, sessionID string) (*service.TicketOutput, error) {
	return s.getTicket(ctx, sessionID)
}

func (s *stubTicketService) DownloadTicket(ctx context.Context, sessionID string) (*service.TicketFile, error) {
	return s.download(ctx, sessionID)
}

func (s *stubTicketService) BackToPayment(ctx context.Context, sessionID string) error {
	return nil
}

func (s *stubTicketService) Dismiss(ctx context.Context, sessionID string) error {
	return nil
}

func noopAuth(next http.Handler) http.Handler { return next }

func setupRouter(t *testing.T, cs *stubCheckoutService, ts *stubTicketService) http.Handler {
	t.Helper()
	h := NewHTTPHandler(cs, ts, logger.InitializeTestZapLogger())
	return NewRouter(h, noopAuth)
}

func TestCreateDraft_RequiresSeats(t *testing.T) {
	router := setupRouter(t, &stubCheckoutService{}, &stubTicketService{})

	body := `{"lockId":"lock-1","movieTitle":"Inception","selectedSeats":[],"total":1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/draft", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDraft_Success(t *testing.T) {
	cs := &stubCheckoutService{
		createDraft: func(ctx context.Context, draft *domain.BookingDraft) (*service.CreateDraftOutput, error) {
			assert.Equal(t, "Inception", draft.MovieTitle)
			return &service.CreateDraftOutput{SessionID: "sess-1", State: domain.StateAwaitingDraft}, nil
		},
	}
	router := setupRouter(t, cs, &stubTicketService{})

	body := `{"lockId":"lock-1","movieTitle":"Inception","selectedSeats":[{"seatNumber":"A1"}],"total":75000}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/draft", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var out service.CreateDraftOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "sess-1", out.SessionID)
}

func TestEnterPayment_RequiresSessionHeader(t *testing.T) {
	router := setupRouter(t, &stubCheckoutService{}, &stubTicketService{})

	req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnterPayment_MissingDraftIs404(t *testing.T) {
	cs := &stubCheckoutService{
		enterPayment: func(ctx context.Context, sessionID string) (*service.PaymentViewOutput, error) {
			return nil, service.ErrDraftNotFound
		},
	}
	router := setupRouter(t, cs, &stubTicketService{})

	req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
	req.Header.Set("X-Checkout-Session", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking information not found")
}

func TestSubmit_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid draft", service.ErrDraftInvalid, http.StatusUnprocessableEntity},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized},
		{"confirmation failed", service.ErrConfirmationFailed, http.StatusBadGateway},
		{"render failed", service.ErrRenderFailed, http.StatusInternalServerError},
		{"invalid state", service.ErrInvalidState, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cs := &stubCheckoutService{
				submit: func(ctx context.Context, sessionID string, id domain.Identity) (*service.SubmitOutput, error) {
					return nil, tc.err
				},
			}
			router := setupRouter(t, cs, &stubTicketService{})

			req := httptest.NewRequest(http.MethodPost, "/api/checkout/submit", nil)
			req.Header.Set("X-Checkout-Session", "sess-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestDownloadTicket_Attachment(t *testing.T) {
	ts := &stubTicketService{
		download: func(ctx context.Context, sessionID string) (*service.TicketFile, error) {
			return &service.TicketFile{
				Name:    "ticket-TXN_1.txt",
				Content: []byte("🎬 CINEMA TICKET"),
			}, nil
		},
	}
	router := setupRouter(t, &stubCheckoutService{}, ts)

	req := httptest.NewRequest(http.MethodGet, "/api/ticket/download", nil)
	req.Header.Set("X-Checkout-Session", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="ticket-TXN_1.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "🎬 CINEMA TICKET", rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t, &stubCheckoutService{}, &stubTicketService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
