package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/upstream"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// SearchAPI is the slice of the upstream client the search proxy needs.
type SearchAPI interface {
	CreateSearch(ctx context.Context, req models.SearchRequest) (string, error)
	GetSearch(ctx context.Context, searchID string) (models.SearchResult, error)
}

// NotifyAPI sends best-effort booking notifications.
type NotifyAPI interface {
	NotifyBooking(ctx context.Context, n upstream.BookingNotification)
}

// BookingFlowService drives a booking session from search to payment
// handoff: search → trip details → seat hold → passenger data → PSE.
// Protection checks run in the HTTP layer before any of this is reached.
type BookingFlowService struct {
	Reservations ReservationService
	Details      DetailsService
	Payments     PaymentService
	Search       SearchAPI
	Notify       NotifyAPI
}

// StartSearch proxies search creation to the carrier. The travel date is
// validated here; the carrier answers malformed dates with an opaque 500.
func (s BookingFlowService) StartSearch(ctx context.Context, req models.SearchRequest) (string, error) {
	if _, err := utils.ParseDate(req.Date); err != nil {
		return "", domain.ValidationError{Field: "date", Msg: "fecha no válida, use AAAA-MM-DD"}
	}
	return s.Search.CreateSearch(ctx, req)
}

// SearchStatus proxies one search poll to the carrier.
func (s BookingFlowService) SearchStatus(ctx context.Context, searchID string) (models.SearchResult, error) {
	return s.Search.GetSearch(ctx, searchID)
}

// TripDetails resolves the seat map of a trip through the bounded poller.
func (s BookingFlowService) TripDetails(ctx context.Context, tripID string) (json.RawMessage, error) {
	return s.Details.FetchDetails(ctx, tripID)
}

// SelectSeats opens the pending hold for the chosen seats.
func (s BookingFlowService) SelectSeats(ctx context.Context, tripID string, seats []string, pricePerSeat int64, info models.TripInfo) (models.Reservation, error) {
	return s.Reservations.Create(ctx, tripID, seats, pricePerSeat, info)
}

// SubmitPassengers stores passenger data and confirms the hold. When the
// hold has lapsed the ExpiredError surfaces to the caller, who must
// restart from seat selection.
func (s BookingFlowService) SubmitPassengers(ctx context.Context, reservationID string, passengers []models.Passenger) (models.Reservation, error) {
	confirmed := models.ReservationConfirmed
	res, err := s.Reservations.Update(ctx, reservationID, models.ReservationUpdate{
		Passengers: &passengers,
		Status:     &confirmed,
	})
	if err != nil {
		return models.Reservation{}, err
	}

	if s.Notify != nil {
		go s.notifyConfirmed(res)
	}
	return res, nil
}

// InitiatePayment hands a confirmed reservation off to the PSE rail and
// returns the bank redirect URL (or the rail's in-body business error).
func (s BookingFlowService) InitiatePayment(ctx context.Context, reservationID, bankCode, email, documentNumber string) (upstream.PSEResponse, error) {
	res, err := s.Reservations.Get(ctx, reservationID)
	if err != nil {
		return upstream.PSEResponse{}, err
	}
	switch res.Status {
	case models.ReservationCancelled:
		return upstream.PSEResponse{}, domain.ExpiredError{Resource: "reservation"}
	case models.ReservationPending:
		return upstream.PSEResponse{}, domain.ValidationError{Field: "reservation", Msg: "faltan los datos de los pasajeros"}
	}

	return s.Payments.InitiatePSE(ctx, upstream.PSERequest{
		Amount:         res.TotalPrice,
		BankCode:       bankCode,
		Email:          email,
		DocumentNumber: documentNumber,
	})
}

// notifyConfirmed fires the confirmation webhook. Failures are swallowed
// inside the client; the booking flow never waits on it.
func (s BookingFlowService) notifyConfirmed(res models.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := ""
	if len(res.Passengers) > 0 {
		email = res.Passengers[0].Email
	}
	s.Notify.NotifyBooking(ctx, upstream.BookingNotification{
		ReservationID: res.ID,
		TripID:        res.TripID,
		Seats:         res.Seats,
		TotalPrice:    res.TotalPrice,
		Email:         email,
	})
	utils.LogEvent("", "booking", "notify", "id="+res.ID)
}
