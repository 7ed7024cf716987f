package upstream

import "encoding/json"

// createdResponse is the carrier's envelope for job/search creation.
type createdResponse struct {
	ID string `json:"id"`
}

// DetailsJobStatus is one poll snapshot of a trip-details computation.
type DetailsJobStatus struct {
	State   string          `json:"state"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
}

// PSERequest is the payment-rail input. Amount is in whole pesos (no cents).
type PSERequest struct {
	Amount         int64  `json:"amount"`
	BankCode       string `json:"bankCode"`
	Email          string `json:"email"`
	DocumentNumber string `json:"documentNumber"`
}

// PSEResponse keeps the carrier's contract of encoding business errors in
// the body of a 200 response. Exactly one of URL or Error is set.
type PSEResponse struct {
	URL   string `json:"URL,omitempty"`
	Error string `json:"Error,omitempty"`
}

// BookingNotification is the fire-and-forget webhook payload sent after a
// reservation is confirmed.
type BookingNotification struct {
	ReservationID string   `json:"reservation_id"`
	TripID        string   `json:"trip_id"`
	Seats         []string `json:"seats"`
	TotalPrice    int64    `json:"total_price"`
	Email         string   `json:"email,omitempty"`
}
