package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
)

// MySQLReservationRepo persists reservations in a single table, with the
// list-valued fields stored as JSON.
type MySQLReservationRepo struct {
	DB *sql.DB
}

// EnsureSchema creates the reservations table when missing.
func (r MySQLReservationRepo) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS reservations (
	id VARCHAR(64) PRIMARY KEY,
	trip_id VARCHAR(64) NOT NULL,
	seats JSON NOT NULL,
	price_per_seat BIGINT NOT NULL,
	total_price BIGINT NOT NULL,
	status VARCHAR(16) NOT NULL,
	created_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL,
	trip_info JSON NOT NULL,
	passengers JSON NOT NULL,
	KEY idx_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.ExecContext(ctx, ddl)
	return err
}

func (r MySQLReservationRepo) Insert(ctx context.Context, res models.Reservation) error {
	seats, tripInfo, passengers, err := encodeJSONFields(res)
	if err != nil {
		return domain.InternalError{Msg: "encode reservation", Err: err}
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO reservations
			(id, trip_id, seats, price_per_seat, total_price, status, created_at, expires_at, trip_info, passengers)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		res.ID, res.TripID, seats, res.PricePerSeat, res.TotalPrice,
		string(res.Status), res.CreatedAt, res.ExpiresAt, tripInfo, passengers,
	)
	if err != nil {
		return domain.InternalError{Msg: "insert reservation", Err: err}
	}
	return nil
}

func (r MySQLReservationRepo) FindByID(ctx context.Context, id string) (models.Reservation, error) {
	var (
		res                         models.Reservation
		status                      string
		seats, tripInfo, passengers []byte
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, trip_id, seats, price_per_seat, total_price, status, created_at, expires_at, trip_info, passengers
		FROM reservations WHERE id = ?`, id,
	).Scan(&res.ID, &res.TripID, &seats, &res.PricePerSeat, &res.TotalPrice,
		&status, &res.CreatedAt, &res.ExpiresAt, &tripInfo, &passengers)
	if err == sql.ErrNoRows {
		return models.Reservation{}, domain.NotFoundError{Resource: "reservation"}
	}
	if err != nil {
		return models.Reservation{}, domain.InternalError{Msg: "query reservation", Err: err}
	}

	res.Status = models.ReservationStatus(status)
	if err := json.Unmarshal(seats, &res.Seats); err != nil {
		return models.Reservation{}, domain.InternalError{Msg: "decode seats", Err: err}
	}
	if err := json.Unmarshal(tripInfo, &res.TripInfo); err != nil {
		return models.Reservation{}, domain.InternalError{Msg: "decode trip info", Err: err}
	}
	if err := json.Unmarshal(passengers, &res.Passengers); err != nil {
		return models.Reservation{}, domain.InternalError{Msg: "decode passengers", Err: err}
	}
	return res, nil
}

func (r MySQLReservationRepo) Save(ctx context.Context, res models.Reservation) error {
	seats, tripInfo, passengers, err := encodeJSONFields(res)
	if err != nil {
		return domain.InternalError{Msg: "encode reservation", Err: err}
	}
	result, err := r.DB.ExecContext(ctx, `
		UPDATE reservations
		SET seats = ?, price_per_seat = ?, total_price = ?, status = ?, expires_at = ?, trip_info = ?, passengers = ?
		WHERE id = ?`,
		seats, res.PricePerSeat, res.TotalPrice, string(res.Status),
		res.ExpiresAt, tripInfo, passengers, res.ID,
	)
	if err != nil {
		return domain.InternalError{Msg: "update reservation", Err: err}
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// MySQL also reports 0 for no-change updates; re-check existence.
		var exists int
		if r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE id = ?`, res.ID).Scan(&exists) == nil && exists == 0 {
			return domain.NotFoundError{Resource: "reservation"}
		}
	}
	return nil
}

func encodeJSONFields(res models.Reservation) (seats, tripInfo, passengers []byte, err error) {
	if seats, err = json.Marshal(res.Seats); err != nil {
		return nil, nil, nil, err
	}
	if tripInfo, err = json.Marshal(res.TripInfo); err != nil {
		return nil, nil, nil, err
	}
	if res.Passengers == nil {
		passengers = []byte("[]")
	} else if passengers, err = json.Marshal(res.Passengers); err != nil {
		return nil, nil, nil, err
	}
	return seats, tripInfo, passengers, nil
}
