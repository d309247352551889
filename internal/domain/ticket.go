package domain

// TicketViewModel is everything the ticket view renders, derived from a
// confirmed PaymentRecord.
type TicketViewModel struct {
	TransactionID string        `json:"transaction_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	MovieTitle    string        `json:"movie_title"`
	MoviePoster   string        `json:"movie_poster"`
	SystemName    string        `json:"system_name"`
	ClusterName   string        `json:"cluster_name"`
	HallName      string        `json:"hall_name"`
	Date          string        `json:"date"`
	StartTime     string        `json:"start_time"`
	EndTime       string        `json:"end_time"`
	Seats         []string      `json:"seats"`
	Combos        []Combo       `json:"combos"`
	Total         int64         `json:"total"`
}

// VenueQRPayload is the scan target checked at the cinema gate. Seats is
// comma-and-space joined, Time is the start time only.
type VenueQRPayload struct {
	ID      string `json:"id"`
	Movie   string `json:"movie"`
	System  string `json:"system"`
	Cluster string `json:"cluster"`
	Hall    string `json:"hall"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Seats   string `json:"seats"`
}
