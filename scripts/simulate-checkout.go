package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var (
	baseURL = flag.String("addr", "http://localhost:8080", "Checkout service base URL")
	method  = flag.String("method", "momo", "Payment method (momo, vnpay, visa)")
	token   = flag.String("token", "", "Bearer token forwarded to the booking backend")
	seats   = flag.Int("seats", 2, "Number of seats in the demo draft")
)

func main() {
	flag.Parse()

	hc := &http.Client{Timeout: 15 * time.Second}

	// 1. Seat selection handoff
	draft := map[string]interface{}{
		"lockId":      fmt.Sprintf("demo-lock-%d", time.Now().Unix()),
		"movieTitle":  "Demo Movie",
		"moviePoster": "https://example.com/poster.jpg",
		"systemName":  "CGV",
		"clusterName": "CGV Vincom",
		"hallName":    "Hall 1",
		"date":        time.Now().Format("2006-01-02"),
		"startTime":   "19:00",
		"endTime":     "21:30",
		"selectedSeats": func() []map[string]string {
			out := make([]map[string]string, 0, *seats)
			for i := 0; i < *seats; i++ {
				out = append(out, map[string]string{"seatNumber": fmt.Sprintf("A%d", i+1)})
			}
			return out
		}(),
		"selectedCombos": []map[string]interface{}{
			{"name": "Combo bắp nước", "quantity": 1},
		},
		"total":    int64(*seats) * 75000,
		"cinemaId": "demo-cinema",
		"systemId": "demo-system",
	}

	var created struct {
		SessionID string `json:"session_id"`
		State     string `json:"state"`
	}
	mustCall(hc, http.MethodPost, *baseURL+"/api/checkout/draft", "", draft, &created)
	fmt.Printf("✅ Draft created, session %s (state: %s)\n", created.SessionID, created.State)

	// 2. Enter the payment view
	var view struct {
		State  string `json:"state"`
		Method string `json:"method"`
	}
	mustCall(hc, http.MethodGet, *baseURL+"/api/checkout", created.SessionID, nil, &view)
	fmt.Printf("💳 Payment view loaded (state: %s, default method: %s)\n", view.State, view.Method)

	// 3. Pick the method
	mustCall(hc, http.MethodPut, *baseURL+"/api/checkout/method", created.SessionID,
		map[string]string{"method": *method}, &view)
	fmt.Printf("🔁 Method set to %s\n", *method)

	// 4. Submit
	var submit struct {
		State string `json:"state"`
		QR    *struct {
			Payload  string `json:"payload"`
			OrderRef string `json:"order_ref"`
		} `json:"qr"`
	}
	mustCall(hc, http.MethodPost, *baseURL+"/api/checkout/submit", created.SessionID, nil, &submit)
	fmt.Printf("🚀 Submitted (state: %s)\n", submit.State)

	// 5. QR methods need the paid assertion
	if submit.QR != nil {
		fmt.Printf("📱 Wallet QR: %s\n", submit.QR.Payload)
		var paid struct {
			State  string `json:"state"`
			Record struct {
				TransactionID string `json:"transactionId"`
			} `json:"record"`
		}
		mustCall(hc, http.MethodPost, *baseURL+"/api/checkout/assert-paid", created.SessionID, nil, &paid)
		fmt.Printf("✅ Paid asserted, transaction %s (state: %s)\n", paid.Record.TransactionID, paid.State)
	}

	// 6. Ticket view
	var ticket struct {
		Ticket struct {
			TransactionID string   `json:"transaction_id"`
			MovieTitle    string   `json:"movie_title"`
			Seats         []string `json:"seats"`
		} `json:"ticket"`
	}
	mustCall(hc, http.MethodGet, *baseURL+"/api/ticket", created.SessionID, nil, &ticket)
	fmt.Printf("🎬 Ticket for %s, seats %v, transaction %s\n",
		ticket.Ticket.MovieTitle, ticket.Ticket.Seats, ticket.Ticket.TransactionID)

	// 7. Download the text ticket
	req, _ := http.NewRequest(http.MethodGet, *baseURL+"/api/ticket/download", nil)
	req.Header.Set("X-Checkout-Session", created.SessionID)
	resp, err := hc.Do(req)
	if err != nil {
		fmt.Printf("❌ Download failed: %v\n", err)
		os.Exit(1)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	fmt.Printf("📄 Downloaded ticket:\n%s\n", body)

	// 8. Tear the session down
	mustCall(hc, http.MethodPost, *baseURL+"/api/ticket/dismiss", created.SessionID, nil, nil)
	fmt.Println("🏁 Session dismissed")
}

func mustCall(hc *http.Client, httpMethod, url, sessionID string, payload, out interface{}) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("❌ Failed to marshal request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(httpMethod, url, body)
	if err != nil {
		fmt.Printf("❌ Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Checkout-Session", sessionID)
	}
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		fmt.Printf("❌ %s %s failed: %v\n", httpMethod, url, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fmt.Printf("❌ %s %s returned %d: %s\n", httpMethod, url, resp.StatusCode, data)
		os.Exit(1)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			fmt.Printf("❌ Failed to decode response from %s: %v\n", url, err)
			os.Exit(1)
		}
	}
}
