package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/services"
)

type psePaymentRequest struct {
	ReservationID  string `json:"reservation_id"`
	BankCode       string `json:"bankCode"`
	Email          string `json:"email"`
	DocumentNumber string `json:"documentNumber"`
}

// POST /api/payments/pse
//
// Proxy to the PSE rail. Business failures come back as HTTP 200 with an
// Error field in the body. The front-end depends on that shape, so only
// validation and infrastructure errors use real status codes.
func (a *API) CreatePSEPayment(c *gin.Context) {
	var req psePaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.ReservationID == "" {
		RespondDomainError(c, domain.ValidationError{Field: "reservation_id", Msg: "es obligatorio"})
		return
	}

	resp, err := a.Flow.InitiatePayment(c.Request.Context(), req.ReservationID, req.BankCode, req.Email, req.DocumentNumber)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/payments/pse/banks
//
// Bank selector contents for the payment form. Ungated, the form needs it
// before the user can submit anything.
func (a *API) PSEBanks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"banks": services.PSEBankOptions()})
}
