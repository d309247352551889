package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rinday2005/cinema-checkout/internal/domain"
	"github.com/rinday2005/cinema-checkout/internal/service"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

type HTTPHandler struct {
	checkoutService service.CheckoutService
	ticketService   service.TicketService
	logger          logger.Logger
	validator       *validator.Validate
}

func NewHTTPHandler(checkoutService service.CheckoutService, ticketService service.TicketService, logger logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		checkoutService: checkoutService,
		ticketService:   ticketService,
		logger:          logger,
		validator:       validator.New(),
	}
}

// HealthCheck handles health check requests
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"service": "cinema-checkout",
		"version": "1.0.0",
	}
	h.respondJSON(w, http.StatusOK, response)
}

// CreateDraft handles the seat-selection handoff
func (h *HTTPHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var draft domain.BookingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(draft); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Validation failed", err)
		return
	}

	response, err := h.checkoutService.CreateDraft(r.Context(), &draft)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, response)
}

// EnterPayment loads the payment view state for a session
func (h *HTTPHandler) EnterPayment(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	response, err := h.checkoutService.EnterPayment(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

type selectMethodRequest struct {
	Method domain.PaymentMethod `json:"method" validate:"required"`
}

// SelectMethod switches the pending payment method
func (h *HTTPHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req selectMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Validation failed", err)
		return
	}

	response, err := h.checkoutService.SelectMethod(r.Context(), sessionID, req.Method)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// Submit runs the selected method's confirmation
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	response, err := h.checkoutService.Submit(r.Context(), sessionID, IdentityFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// CancelQR backs out of an external wallet payment
func (h *HTTPHandler) CancelQR(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.checkoutService.CancelQR(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "QR payment cancelled"})
}

// AssertPaid records the user's claim that the wallet payment went through
func (h *HTTPHandler) AssertPaid(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	response, err := h.checkoutService.AssertPaid(r.Context(), sessionID, IdentityFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// GetTicket renders the confirmed ticket view
func (h *HTTPHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	response, err := h.ticketService.GetTicket(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// DownloadTicket serves the plain-text ticket as an attachment
func (h *HTTPHandler) DownloadTicket(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	file, err := h.ticketService.DownloadTicket(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		h.logger.Errorf(r.Context(), "failed to write ticket file: %v", err)
	}
}

// BackToPayment restores the draft and restarts the attempt
func (h *HTTPHandler) BackToPayment(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.ticketService.BackToPayment(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "Returned to payment"})
}

// Dismiss tears the session down
func (h *HTTPHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.ticketService.Dismiss(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "Session dismissed"})
}

// Helper functions

func (h *HTTPHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		h.respondError(w, r, http.StatusBadRequest, "Session ID is required", nil)
		return "", false
	}
	return sessionID, true
}

func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		h.respondError(w, r, http.StatusNotFound, "Booking information not found", err)
	case errors.Is(err, service.ErrDraftInvalid):
		h.respondError(w, r, http.StatusUnprocessableEntity, "Booking data invalid", err)
	case errors.Is(err, service.ErrAttemptNotFound):
		h.respondError(w, r, http.StatusNotFound, "Checkout session not found", err)
	case errors.Is(err, service.ErrPaymentDataNotFound):
		h.respondError(w, r, http.StatusNotFound, "Payment information not found", err)
	case errors.Is(err, service.ErrUnauthenticated):
		h.respondError(w, r, http.StatusUnauthorized, "Please log in to complete payment", err)
	case errors.Is(err, service.ErrConfirmationFailed):
		h.respondError(w, r, http.StatusBadGateway, "Payment confirmation failed, please try again", err)
	case errors.Is(err, service.ErrRenderFailed):
		h.respondError(w, r, http.StatusInternalServerError, "Could not generate payment QR code", err)
	case errors.Is(err, service.ErrUnsupportedMethod):
		h.respondError(w, r, http.StatusBadRequest, "Unsupported payment method", err)
	case errors.Is(err, service.ErrInvalidState):
		h.respondError(w, r, http.StatusConflict, "Operation not allowed in current checkout state", err)
	default:
		h.logger.Errorf(r.Context(), "unhandled service error: %v", err)
		h.respondError(w, r, http.StatusInternalServerError, "Internal server error", err)
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf(context.Background(), "failed to encode JSON response: %v", err)
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	response := map[string]interface{}{
		"error": message,
		"code":  statusCode,
	}

	if err != nil {
		h.logger.Debugf(r.Context(), "error response: %s: %v", message, err)
	}

	h.respondJSON(w, statusCode, response)
}
