package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
)

// POST /api/trips/:id/details
//
// Drives the bounded detail poller: 200 with the seat-map payload, 408
// when the polling budget runs out, 502 when the carrier reports failure.
func (a *API) TripDetails(c *gin.Context) {
	payload, err := a.Flow.TripDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// POST /api/search
func (a *API) CreateSearch(c *gin.Context) {
	var req models.SearchRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	searchID, err := a.Flow.StartSearch(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"searchId": searchID})
}

// GET /api/search/:id
func (a *API) GetSearch(c *gin.Context) {
	result, err := a.Flow.SearchStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
