package repositories

import (
	"context"
	"sync"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
)

// ReservationRepo stores reservation records. The in-memory implementation
// is the default; the MySQL one exists for deployments that want holds to
// survive a restart. Expiry and status rules live in the service layer,
// repos only persist.
type ReservationRepo interface {
	Insert(ctx context.Context, r models.Reservation) error
	FindByID(ctx context.Context, id string) (models.Reservation, error)
	Save(ctx context.Context, r models.Reservation) error
}

// MemoryReservationRepo is a mutex-guarded map. Records are copied on the
// way in and out so callers can never alias stored state.
type MemoryReservationRepo struct {
	mu      sync.Mutex
	records map[string]models.Reservation
}

func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{records: make(map[string]models.Reservation)}
}

func (r *MemoryReservationRepo) Insert(_ context.Context, res models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[res.ID] = copyReservation(res)
	return nil
}

func (r *MemoryReservationRepo) FindByID(_ context.Context, id string) (models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.records[id]
	if !ok {
		return models.Reservation{}, domain.NotFoundError{Resource: "reservation"}
	}
	return copyReservation(res), nil
}

func (r *MemoryReservationRepo) Save(_ context.Context, res models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[res.ID]; !ok {
		return domain.NotFoundError{Resource: "reservation"}
	}
	r.records[res.ID] = copyReservation(res)
	return nil
}

func copyReservation(res models.Reservation) models.Reservation {
	out := res
	out.Seats = append([]string(nil), res.Seats...)
	out.Passengers = append([]models.Passenger(nil), res.Passengers...)
	return out
}
