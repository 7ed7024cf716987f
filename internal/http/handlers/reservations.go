package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/rategate"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/services"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// API groups the handler dependencies, wired once in the router.
type API struct {
	Flow   services.BookingFlowService
	Tokens *rategate.FormTokenIssuer
}

type createReservationRequest struct {
	TripID string   `json:"trip_id"`
	Seats  []string `json:"seats"`
	// SeatList is the comma-separated form the seat-map widget posts.
	SeatList     string          `json:"seat_list"`
	PricePerSeat int64           `json:"price_per_seat"`
	TripInfo     models.TripInfo `json:"trip_info"`
}

// POST /api/reservations
func (a *API) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	seats := req.Seats
	if len(seats) == 0 && req.SeatList != "" {
		seats = utils.SplitSeatList(req.SeatList)
	}

	res, err := a.Flow.SelectSeats(c.Request.Context(), req.TripID, seats, req.PricePerSeat, req.TripInfo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/reservations/:id
func (a *API) GetReservation(c *gin.Context) {
	res, err := a.Flow.Reservations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type updateReservationRequest struct {
	Passengers *[]models.Passenger `json:"passengers"`
	Status     *string             `json:"status"`
}

// PUT /api/reservations/:id
//
// Passenger submission confirms the hold; a lapsed hold answers 410 and
// the client restarts from seat selection.
func (a *API) UpdateReservation(c *gin.Context) {
	var req updateReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	// Submitting passengers implies confirmation intent.
	if req.Passengers != nil && req.Status == nil {
		confirmed := string(models.ReservationConfirmed)
		req.Status = &confirmed
	}

	upd := models.ReservationUpdate{Passengers: req.Passengers}
	if req.Status != nil {
		status := models.ReservationStatus(*req.Status)
		upd.Status = &status
	}

	res, err := a.Flow.Reservations.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /api/reservations/:id
func (a *API) CancelReservation(c *gin.Context) {
	res, err := a.Flow.Reservations.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type submitPassengersRequest struct {
	Passengers []models.Passenger `json:"passengers"`
}

// POST /api/reservations/:id/passengers
func (a *API) SubmitPassengers(c *gin.Context) {
	var req submitPassengersRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := a.Flow.SubmitPassengers(c.Request.Context(), c.Param("id"), req.Passengers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
