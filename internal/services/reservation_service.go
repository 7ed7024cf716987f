package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/repositories"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// ReservationService owns the lifecycle of seat holds: creation, lazy
// expiry, passenger updates, status transitions and cancellation.
//
// Expiry is enforced at every read and write, never by a background task,
// so correctness does not depend on a sweeper running.
type ReservationService struct {
	Repo repositories.ReservationRepo

	// Now and NewID are injectable for tests.
	Now   func() time.Time
	NewID func() string
}

func (s ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s ReservationService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Create opens a pending hold on the given seats for ten minutes.
func (s ReservationService) Create(ctx context.Context, tripID string, seats []string, pricePerSeat int64, info models.TripInfo) (models.Reservation, error) {
	tripID = utils.TrimOrEmpty(tripID)
	if tripID == "" {
		return models.Reservation{}, domain.ValidationError{Field: "trip_id", Msg: "es obligatorio"}
	}
	seats = utils.CleanSeatList(seats)
	if len(seats) == 0 {
		return models.Reservation{}, domain.ValidationError{Field: "seats", Msg: "debe seleccionar al menos un asiento"}
	}
	if pricePerSeat < 0 {
		return models.Reservation{}, domain.ValidationError{Field: "price_per_seat", Msg: "no puede ser negativo"}
	}

	now := s.now()
	res := models.Reservation{
		ID:           s.newID(),
		TripID:       tripID,
		Seats:        seats,
		PricePerSeat: pricePerSeat,
		TotalPrice:   pricePerSeat * int64(len(seats)),
		Status:       models.ReservationPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(models.HoldDuration),
		TripInfo:     info,
		Passengers:   []models.Passenger{},
	}
	if err := s.Repo.Insert(ctx, res); err != nil {
		return models.Reservation{}, err
	}
	utils.LogEvent("", "reservation", "create", "id="+res.ID+" trip="+tripID)
	return res, nil
}

// Get returns the reservation with lazy expiry applied.
func (s ReservationService) Get(ctx context.Context, id string) (models.Reservation, error) {
	res, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}
	res, _, err = s.applyExpiry(ctx, res)
	return res, err
}

// Update applies passenger data and/or a status transition. A lapsed hold
// rejects the mutation with ExpiredError and leaves passengers untouched.
// Status values other than confirmed/cancelled are ignored.
func (s ReservationService) Update(ctx context.Context, id string, upd models.ReservationUpdate) (models.Reservation, error) {
	res, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}

	res, lapsed, err := s.applyExpiry(ctx, res)
	if err != nil {
		return models.Reservation{}, err
	}
	if lapsed || (res.Status == models.ReservationCancelled && s.now().After(res.ExpiresAt)) {
		return models.Reservation{}, domain.ExpiredError{Resource: "reservation"}
	}
	if res.Status.Terminal() {
		return models.Reservation{}, domain.ValidationError{Field: "status", Msg: "la reserva ya está " + string(res.Status)}
	}

	if upd.Passengers != nil {
		passengers, err := validatePassengers(*upd.Passengers, res.Seats)
		if err != nil {
			return models.Reservation{}, err
		}
		res.Passengers = passengers
	}
	if upd.Status != nil && upd.Status.Terminal() {
		res.Status = *upd.Status
	}

	// Two submissions can race across an awaited upstream call; the
	// record may have gone terminal since we loaded it. Re-validate
	// right before the write, not only at entry.
	current, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}
	if current.Status.Terminal() {
		if current.Expired(s.now()) || current.Status == models.ReservationCancelled {
			return models.Reservation{}, domain.ExpiredError{Resource: "reservation"}
		}
		return models.Reservation{}, domain.ValidationError{Field: "status", Msg: "la reserva ya está " + string(current.Status)}
	}

	if err := s.Repo.Save(ctx, res); err != nil {
		return models.Reservation{}, err
	}
	utils.LogEvent("", "reservation", "update", "id="+res.ID+" status="+string(res.Status))
	return res, nil
}

// Cancel forces the reservation into cancelled, idempotently.
func (s ReservationService) Cancel(ctx context.Context, id string) (models.Reservation, error) {
	res, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}
	if res.Status != models.ReservationCancelled {
		res.Status = models.ReservationCancelled
		if err := s.Repo.Save(ctx, res); err != nil {
			return models.Reservation{}, err
		}
		utils.LogEvent("", "reservation", "cancel", "id="+res.ID)
	}
	return res, nil
}

// applyExpiry flips a lapsed pending hold to cancelled before anything
// else sees it. Reports whether the flip happened on this call.
func (s ReservationService) applyExpiry(ctx context.Context, res models.Reservation) (models.Reservation, bool, error) {
	if !res.Expired(s.now()) {
		return res, false, nil
	}
	res.Status = models.ReservationCancelled
	if err := s.Repo.Save(ctx, res); err != nil {
		return models.Reservation{}, false, err
	}
	utils.LogEvent("", "reservation", "expire", "id="+res.ID)
	return res, true, nil
}

func validatePassengers(passengers []models.Passenger, seats []string) ([]models.Passenger, error) {
	if len(passengers) == 0 {
		return nil, domain.ValidationError{Field: "passengers", Msg: "no puede estar vacío"}
	}
	if len(passengers) > len(seats) {
		return nil, domain.ValidationError{Field: "passengers", Msg: "hay más pasajeros que asientos"}
	}

	seatSet := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		seatSet[seat] = struct{}{}
	}

	clean := make([]models.Passenger, 0, len(passengers))
	for _, p := range passengers {
		p.SeatNumber = utils.TrimOrEmpty(p.SeatNumber)
		p.FirstName = utils.NormalizeSpace(p.FirstName)
		p.LastName = utils.NormalizeSpace(p.LastName)
		p.DocumentNumber = utils.TrimOrEmpty(p.DocumentNumber)

		if _, ok := seatSet[p.SeatNumber]; !ok {
			return nil, domain.ValidationError{Field: "seat_number", Msg: "el asiento " + p.SeatNumber + " no pertenece a la reserva"}
		}
		if !models.ValidDocumentType(p.DocumentType) {
			return nil, domain.ValidationError{Field: "document_type", Msg: "tipo de documento no válido"}
		}
		if p.DocumentNumber == "" {
			return nil, domain.ValidationError{Field: "document_number", Msg: "es obligatorio"}
		}
		if p.FirstName == "" || p.LastName == "" {
			return nil, domain.ValidationError{Field: "name", Msg: "nombre y apellido son obligatorios"}
		}
		clean = append(clean, p)
	}
	return clean, nil
}
