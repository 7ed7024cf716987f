package models

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Terminal reports whether no further status transitions are allowed.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationConfirmed || s == ReservationCancelled
}

// HoldDuration is how long seats stay held before payment.
const HoldDuration = 10 * time.Minute

// DocumentType codes accepted on passenger forms.
const (
	DocumentCC  = "CC" // cédula de ciudadanía
	DocumentCE  = "CE" // cédula de extranjería
	DocumentTI  = "TI" // tarjeta de identidad
	DocumentPAS = "PAS"
	DocumentNIT = "NIT"
)

func ValidDocumentType(code string) bool {
	switch code {
	case DocumentCC, DocumentCE, DocumentTI, DocumentPAS, DocumentNIT:
		return true
	}
	return false
}

// TripInfo is the slice of trip data frozen into a reservation at
// seat-selection time, so the summary survives upstream changes.
type TripInfo struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Date          string `json:"date"`
	Direct        bool   `json:"direct"`
	Service       string `json:"service"`
}

// Passenger is immutable once the enclosing reservation is confirmed.
type Passenger struct {
	SeatNumber     string `json:"seat_number"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// Reservation is a time-boxed hold on seats for one trip.
type Reservation struct {
	ID           string            `json:"id"`
	TripID       string            `json:"trip_id"`
	Seats        []string          `json:"seats"`
	PricePerSeat int64             `json:"price_per_seat"`
	TotalPrice   int64             `json:"total_price"`
	Status       ReservationStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
	TripInfo     TripInfo          `json:"trip_info"`
	Passengers   []Passenger       `json:"passengers"`
}

// Expired reports whether the hold has lapsed while still pending.
// Terminal reservations never expire retroactively.
func (r Reservation) Expired(now time.Time) bool {
	return r.Status == ReservationPending && now.After(r.ExpiresAt)
}

// ReservationUpdate supports PATCH-style updates via field presence.
type ReservationUpdate struct {
	Passengers *[]Passenger
	Status     *ReservationStatus
}
