package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rinday2005/cinema-checkout/internal/domain"
)

const confirmPath = "/api/seat-locks/confirm"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the booking backend that owns seat locks and records
// confirmed bookings.
type Client interface {
	ConfirmSeatLock(ctx context.Context, token string, req *ConfirmRequest) (*ConfirmResponse, error)
}

type client struct {
	baseURL string

	// hc is the http client.
	hc *http.Client
}

func New(cfg Config) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &client{
		baseURL: cfg.BaseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

// ConfirmRequest mirrors the backend's confirm contract.
type ConfirmRequest struct {
	LockID      string      `json:"lockId"`
	UserID      string      `json:"userId"`
	BookingData BookingData `json:"bookingData"`
}

type BookingData struct {
	UserEmail      string               `json:"userEmail"`
	MovieTitle     string               `json:"movieTitle"`
	MoviePoster    string               `json:"moviePoster"`
	SystemName     string               `json:"systemName"`
	ClusterName    string               `json:"clusterName"`
	HallName       string               `json:"hallName"`
	Date           string               `json:"date"`
	StartTime      string               `json:"startTime"`
	EndTime        string               `json:"endTime"`
	SelectedSeats  []domain.Seat        `json:"selectedSeats"`
	SelectedCombos []domain.Combo       `json:"selectedCombos"`
	Total          int64                `json:"total"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod"`
	CinemaID       string               `json:"cinemaId"`
	SystemID       string               `json:"systemId"`
}

type ConfirmResponse struct {
	Booking struct {
		ID string `json:"_id"`
	} `json:"booking"`
}

func (c *client) ConfirmSeatLock(ctx context.Context, token string, req *ConfirmRequest) (*ConfirmResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal confirm request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+confirmPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build confirm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("confirm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("confirm request returned status %d: %s", resp.StatusCode, payload)
	}

	var out ConfirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode confirm response: %w", err)
	}

	return &out, nil
}
